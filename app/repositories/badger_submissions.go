package repositories

import (
	"context"
	"sort"
	"time"

	"dentalrcm/app/models"

	"github.com/dgraph-io/badger/v4"
)

// InsertContactSubmission appends a contact form entry.
func (s *BadgerStore) InsertContactSubmission(ctx context.Context, in models.ContactSubmissionInsert) (*models.ContactSubmission, error) {
	id, err := s.nextID(ContactSubmissionSeqKey)
	if err != nil {
		return nil, err
	}

	sub := in.Record(id, now())
	err = s.update(ctx, func(txn *badger.Txn) error {
		return setEntity(txn, entityKey(ContactSubmissionKeyPrefix, id), sub)
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetContactSubmissions lists every submission, oldest first.
func (s *BadgerStore) GetContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	subs := []models.ContactSubmission{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, ContactSubmissionKeyPrefix, func(val []byte) error {
			var sub models.ContactSubmission
			if err := unmarshalEntity(val, &sub); err != nil {
				return err
			}
			subs = append(subs, sub)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return createdBefore(subs[i].CreatedAt, subs[i].ID, subs[j].CreatedAt, subs[j].ID)
	})
	return subs, nil
}

// InsertLeadMagnetDownload appends a download record.
func (s *BadgerStore) InsertLeadMagnetDownload(ctx context.Context, in models.LeadMagnetDownloadInsert) (*models.LeadMagnetDownload, error) {
	id, err := s.nextID(LeadMagnetDownloadSeqKey)
	if err != nil {
		return nil, err
	}

	d := in.Record(id, now())
	err = s.update(ctx, func(txn *badger.Txn) error {
		return setEntity(txn, entityKey(LeadMagnetDownloadKeyPrefix, id), d)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetLeadMagnetDownloads lists every download record, oldest first.
func (s *BadgerStore) GetLeadMagnetDownloads(ctx context.Context) ([]models.LeadMagnetDownload, error) {
	downloads := []models.LeadMagnetDownload{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, LeadMagnetDownloadKeyPrefix, func(val []byte) error {
			var d models.LeadMagnetDownload
			if err := unmarshalEntity(val, &d); err != nil {
				return err
			}
			downloads = append(downloads, d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(downloads, func(i, j int) bool {
		return createdBefore(downloads[i].CreatedAt, downloads[i].ID, downloads[j].CreatedAt, downloads[j].ID)
	})
	return downloads, nil
}

func createdBefore(a time.Time, aID int64, b time.Time, bID int64) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return aID < bID
}
