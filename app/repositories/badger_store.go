package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// seqBandwidth is how many ids a sequence leases per write. A crash loses at
// most this many ids per kind.
const seqBandwidth = 64

// BadgerStore implements Storage on an embedded Badger key-value store.
// Records are JSON values under zero-padded id keys; unique slugs and
// usernames are enforced with index keys written in the same transaction.
type BadgerStore struct {
	db *badger.DB

	seqMu sync.Mutex
	seqs  map[string]*badger.Sequence
}

// OpenBadger opens the Badger directory at path. An empty path keeps all data
// in memory, which is what the tests use.
func OpenBadger(path string) (*BadgerStore, error) {
	return OpenBadgerWithLogger(path, nil)
}

// OpenBadgerWithLogger is OpenBadger with Badger's internal logging routed to log.
func OpenBadgerWithLogger(path string, log logrus.FieldLogger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	if log != nil {
		opts = opts.WithLogger(log)
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already open Badger handle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, seqs: make(map[string]*badger.Sequence)}
}

// Close hands back unused leased ids and closes the Badger database.
func (s *BadgerStore) Close() error {
	s.seqMu.Lock()
	err := s.releaseSequences()
	s.seqMu.Unlock()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}

// nextID returns the next id for seqKey. Ids come from a leased
// badger.Sequence, so inserts never contend on the sequence key.
func (s *BadgerStore) nextID(seqKey string) (int64, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	seq, ok := s.seqs[seqKey]
	if !ok {
		var err error
		seq, err = s.db.GetSequence([]byte(seqKey), seqBandwidth)
		if err != nil {
			return 0, fmt.Errorf("sequence %s: %w", seqKey, err)
		}
		s.seqs[seqKey] = seq
	}
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("sequence %s: %w", seqKey, err)
	}
	// Sequences start at 0 and the stored value is the next one to hand out,
	// which is the last id used.
	return int64(n) + 1, nil
}

// releaseSequences must be called with seqMu held.
func (s *BadgerStore) releaseSequences() error {
	var errs []error
	for key, seq := range s.seqs {
		if err := seq.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", key, err))
		}
		delete(s.seqs, key)
	}
	return errors.Join(errs...)
}

// update runs fn in a read-write transaction. Badger aborts a transaction
// with badger.ErrConflict when a concurrent one committed a key it read;
// fn is then run again against the new state.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Backup writes a full snapshot of the store to w.
func (s *BadgerStore) Backup(w io.Writer) error {
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Restore loads a snapshot written by Backup. Keys present in both are
// overwritten and others are kept. The slug and username indexes are then
// rebuilt from the records, and each sequence is moved past the highest id
// now stored.
func (s *BadgerStore) Restore(r io.Reader) error {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	if err := s.releaseSequences(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if err := s.load(r); err != nil {
		return err
	}
	return s.reindex()
}

func (s *BadgerStore) load(r io.Reader) (err error) {
	// Load panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("restore: corrupt backup: %v", p)
		}
	}()
	if err := s.db.Load(r, 256); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

func (s *BadgerStore) reindex() error {
	if err := s.db.DropPrefix([]byte(BlogPostSlugKeyPrefix), []byte(UsernameKeyPrefix)); err != nil {
		return fmt.Errorf("restore: drop indexes: %w", err)
	}

	kinds := []struct {
		prefix string
		seqKey string
		index  func(slug, username string) []byte
	}{
		{BlogPostKeyPrefix, BlogPostSeqKey, func(slug, _ string) []byte { return slugKey(slug) }},
		{ContactSubmissionKeyPrefix, ContactSubmissionSeqKey, nil},
		{LeadMagnetDownloadKeyPrefix, LeadMagnetDownloadSeqKey, nil},
		{UserKeyPrefix, UserSeqKey, func(_, username string) []byte { return usernameKey(username) }},
	}

	wb := s.db.NewWriteBatch()
	err := s.db.View(func(txn *badger.Txn) error {
		for _, k := range kinds {
			var maxID int64
			err := scanPrefix(txn, k.prefix, func(val []byte) error {
				var rec struct {
					ID       int64  `json:"id"`
					Slug     string `json:"slug"`
					Username string `json:"username"`
				}
				if err := unmarshalEntity(val, &rec); err != nil {
					return err
				}
				maxID = max(maxID, rec.ID)
				if k.index == nil {
					return nil
				}
				return wb.Set(k.index(rec.Slug, rec.Username), encodeID(rec.ID))
			})
			if err != nil {
				return err
			}

			last, err := lookupIndex(txn, []byte(k.seqKey))
			if err != nil && err != ErrNotFound {
				return err
			}
			if last < maxID {
				if err := wb.Set([]byte(k.seqKey), encodeID(maxID)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		wb.Cancel()
		return fmt.Errorf("restore: rebuild indexes: %w", err)
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("restore: rebuild indexes: %w", err)
	}
	return nil
}
