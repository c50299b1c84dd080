package repositories

import (
	"context"

	"dentalrcm/app/models"
)

// BlogPostRepository defines the interface for blog post data access
type BlogPostRepository interface {
	// GetBlogPosts returns every published post, oldest first.
	GetBlogPosts(ctx context.Context) ([]models.BlogPost, error)
	// GetBlogPostBySlug ignores the published flag. Returns ErrNotFound on absence.
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	InsertBlogPost(ctx context.Context, in models.BlogPostInsert) (*models.BlogPost, error)
	// UpdateBlogPost returns ErrNotFound when no post has the id.
	UpdateBlogPost(ctx context.Context, id int64, in models.BlogPostInsert) (*models.BlogPost, error)
	// DeleteBlogPost is a no-op for an unknown id.
	DeleteBlogPost(ctx context.Context, id int64) error
}

// ContactSubmissionRepository defines the interface for contact form data access
type ContactSubmissionRepository interface {
	InsertContactSubmission(ctx context.Context, in models.ContactSubmissionInsert) (*models.ContactSubmission, error)
	GetContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error)
}

// LeadMagnetDownloadRepository defines the interface for download log data access
type LeadMagnetDownloadRepository interface {
	InsertLeadMagnetDownload(ctx context.Context, in models.LeadMagnetDownloadInsert) (*models.LeadMagnetDownload, error)
	GetLeadMagnetDownloads(ctx context.Context) ([]models.LeadMagnetDownload, error)
}

// UserRepository defines the interface for operator account data access
type UserRepository interface {
	CreateUser(ctx context.Context, in models.UserInsert) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Storage is the only path to persisted state.
type Storage interface {
	BlogPostRepository
	ContactSubmissionRepository
	LeadMagnetDownloadRepository
	UserRepository
	Close() error
}
