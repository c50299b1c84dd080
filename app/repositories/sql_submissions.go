package repositories

import (
	"context"

	"dentalrcm/app/models"
)

const (
	contactSubmissionColumns = `id, name, practice_name, email, phone, service, message, best_time_to_contact, created_at`

	sqlInsertContactSubmission = `
		INSERT INTO contact_submissions (name, practice_name, email, phone, service, message, best_time_to_contact, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + contactSubmissionColumns

	sqlListContactSubmissions = `
		SELECT ` + contactSubmissionColumns + `
		FROM   contact_submissions
		ORDER  BY created_at, id`

	leadMagnetDownloadColumns = `id, email, download_type, created_at`

	sqlInsertLeadMagnetDownload = `
		INSERT INTO lead_magnet_downloads (email, download_type, created_at)
		VALUES (?, ?, ?)
		RETURNING ` + leadMagnetDownloadColumns

	sqlListLeadMagnetDownloads = `
		SELECT ` + leadMagnetDownloadColumns + `
		FROM   lead_magnet_downloads
		ORDER  BY created_at, id`
)

type contactSubmissionRow struct {
	ID                int64   `db:"id"`
	Name              string  `db:"name"`
	PracticeName      string  `db:"practice_name"`
	Email             string  `db:"email"`
	Phone             *string `db:"phone"`
	Service           string  `db:"service"`
	Message           *string `db:"message"`
	BestTimeToContact *string `db:"best_time_to_contact"`
	CreatedAt         dbTime  `db:"created_at"`
}

func (r contactSubmissionRow) model() models.ContactSubmission {
	return models.ContactSubmission{
		ID:                r.ID,
		Name:              r.Name,
		PracticeName:      r.PracticeName,
		Email:             r.Email,
		Phone:             r.Phone,
		Service:           r.Service,
		Message:           r.Message,
		BestTimeToContact: r.BestTimeToContact,
		CreatedAt:         r.CreatedAt.Time,
	}
}

type leadMagnetDownloadRow struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	DownloadType string `db:"download_type"`
	CreatedAt    dbTime `db:"created_at"`
}

func (r leadMagnetDownloadRow) model() models.LeadMagnetDownload {
	return models.LeadMagnetDownload{
		ID:           r.ID,
		Email:        r.Email,
		DownloadType: r.DownloadType,
		CreatedAt:    r.CreatedAt.Time,
	}
}

// InsertContactSubmission appends a contact form entry.
func (s *SQLStore) InsertContactSubmission(ctx context.Context, in models.ContactSubmissionInsert) (*models.ContactSubmission, error) {
	var row contactSubmissionRow
	err := s.get(ctx, &row, sqlInsertContactSubmission,
		in.Name, in.PracticeName, in.Email, in.Phone, in.Service, in.Message, in.BestTimeToContact, now())
	if err != nil {
		return nil, err
	}
	sub := row.model()
	return &sub, nil
}

// GetContactSubmissions lists every submission, oldest first.
func (s *SQLStore) GetContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	var rows []contactSubmissionRow
	if err := s.selectAll(ctx, &rows, sqlListContactSubmissions); err != nil {
		return nil, err
	}
	out := make([]models.ContactSubmission, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

// InsertLeadMagnetDownload appends a download record.
func (s *SQLStore) InsertLeadMagnetDownload(ctx context.Context, in models.LeadMagnetDownloadInsert) (*models.LeadMagnetDownload, error) {
	var row leadMagnetDownloadRow
	if err := s.get(ctx, &row, sqlInsertLeadMagnetDownload, in.Email, in.DownloadType, now()); err != nil {
		return nil, err
	}
	d := row.model()
	return &d, nil
}

// GetLeadMagnetDownloads lists every download record, oldest first.
func (s *SQLStore) GetLeadMagnetDownloads(ctx context.Context) ([]models.LeadMagnetDownload, error) {
	var rows []leadMagnetDownloadRow
	if err := s.selectAll(ctx, &rows, sqlListLeadMagnetDownloads); err != nil {
		return nil, err
	}
	out := make([]models.LeadMagnetDownload, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}
