package models

import "time"

type contactSubmissionPayload struct {
	Name              *string `json:"name" validate:"required"`
	PracticeName      *string `json:"practiceName" validate:"required"`
	Email             *string `json:"email" validate:"required"`
	Phone             *string `json:"phone"`
	Service           *string `json:"service" validate:"required"`
	Message           *string `json:"message"`
	BestTimeToContact *string `json:"bestTimeToContact"`
}

// DecodeContactSubmissionInsert parses and validates a JSON contact form payload.
func DecodeContactSubmissionInsert(data []byte) (ContactSubmissionInsert, error) {
	var p contactSubmissionPayload
	if err := decodePayload(data, &p); err != nil {
		return ContactSubmissionInsert{}, err
	}
	return ContactSubmissionInsert{
		Name:              *p.Name,
		PracticeName:      *p.PracticeName,
		Email:             *p.Email,
		Phone:             p.Phone,
		Service:           *p.Service,
		Message:           p.Message,
		BestTimeToContact: p.BestTimeToContact,
	}, nil
}

// Insert returns the caller-supplied part of the submission.
func (s ContactSubmission) Insert() ContactSubmissionInsert {
	return ContactSubmissionInsert{
		Name:              s.Name,
		PracticeName:      s.PracticeName,
		Email:             s.Email,
		Phone:             s.Phone,
		Service:           s.Service,
		Message:           s.Message,
		BestTimeToContact: s.BestTimeToContact,
	}
}

// Record combines the insert fields with server-assigned ones.
func (in ContactSubmissionInsert) Record(id int64, createdAt time.Time) ContactSubmission {
	return ContactSubmission{
		ID:                id,
		Name:              in.Name,
		PracticeName:      in.PracticeName,
		Email:             in.Email,
		Phone:             in.Phone,
		Service:           in.Service,
		Message:           in.Message,
		BestTimeToContact: in.BestTimeToContact,
		CreatedAt:         createdAt,
	}
}
