package models

import "time"

type leadMagnetDownloadPayload struct {
	Email        *string `json:"email" validate:"required"`
	DownloadType *string `json:"downloadType" validate:"required"`
}

// DecodeLeadMagnetDownloadInsert parses and validates a JSON download payload.
func DecodeLeadMagnetDownloadInsert(data []byte) (LeadMagnetDownloadInsert, error) {
	var p leadMagnetDownloadPayload
	if err := decodePayload(data, &p); err != nil {
		return LeadMagnetDownloadInsert{}, err
	}
	return LeadMagnetDownloadInsert{Email: *p.Email, DownloadType: *p.DownloadType}, nil
}

func (d LeadMagnetDownload) Insert() LeadMagnetDownloadInsert {
	return LeadMagnetDownloadInsert{Email: d.Email, DownloadType: d.DownloadType}
}

func (in LeadMagnetDownloadInsert) Record(id int64, createdAt time.Time) LeadMagnetDownload {
	return LeadMagnetDownload{
		ID:           id,
		Email:        in.Email,
		DownloadType: in.DownloadType,
		CreatedAt:    createdAt,
	}
}
