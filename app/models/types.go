package models

import "time"

// BlogPost is a stored blog article. Slug is unique and is the public lookup key.
type BlogPost struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	CoverImage *string   `json:"coverImage"`
	Category   string    `json:"category"`
	ReadTime   string    `json:"readTime"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BlogPostInsert holds the fields a caller may supply for a blog post.
type BlogPostInsert struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Excerpt    string  `json:"excerpt"`
	Content    string  `json:"content"`
	CoverImage *string `json:"coverImage"`
	Category   string  `json:"category"`
	ReadTime   string  `json:"readTime"`
	Published  bool    `json:"published"`
}

// ContactSubmission is a contact form entry. Once stored it is never changed.
type ContactSubmission struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	PracticeName      string    `json:"practiceName"`
	Email             string    `json:"email"`
	Phone             *string   `json:"phone"`
	Service           string    `json:"service"`
	Message           *string   `json:"message"`
	BestTimeToContact *string   `json:"bestTimeToContact"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ContactSubmissionInsert holds the fields a caller may supply for a contact submission.
type ContactSubmissionInsert struct {
	Name              string  `json:"name"`
	PracticeName      string  `json:"practiceName"`
	Email             string  `json:"email"`
	Phone             *string `json:"phone"`
	Service           string  `json:"service"`
	Message           *string `json:"message"`
	BestTimeToContact *string `json:"bestTimeToContact"`
}

// LeadMagnetDownload records that an email address requested a free resource.
type LeadMagnetDownload struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	DownloadType string    `json:"downloadType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LeadMagnetDownloadInsert holds the fields a caller may supply for a download record.
type LeadMagnetDownloadInsert struct {
	Email        string `json:"email"`
	DownloadType string `json:"downloadType"`
}

// User is a site operator account. The password hash never leaves the server.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// UserInsert holds a username and an already hashed password.
type UserInsert struct {
	Username     string
	PasswordHash string
}
