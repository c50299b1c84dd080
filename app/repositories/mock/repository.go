package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"dentalrcm/app/models"
	"dentalrcm/app/repositories"
)

// Storage is an in-memory repositories.Storage for handler tests. Setting Err
// makes every call fail with it, which is how tests reach the 500 paths.
type Storage struct {
	Err error

	mutex     sync.RWMutex
	clock     func() time.Time
	posts     map[int64]models.BlogPost
	contacts  []models.ContactSubmission
	downloads []models.LeadMagnetDownload
	users     map[int64]models.User
	nextID    map[string]int64
}

var _ repositories.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	s := &Storage{clock: func() time.Time { return time.Now().UTC() }}
	s.Clear()
	return s
}

// SetClock replaces the timestamp source.
func (m *Storage) SetClock(clock func() time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.clock = clock
}

func (m *Storage) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int64]models.BlogPost)
	m.contacts = nil
	m.downloads = nil
	m.users = make(map[int64]models.User)
	m.nextID = make(map[string]int64)
}

func (m *Storage) next(kind string) int64 {
	m.nextID[kind]++
	return m.nextID[kind]
}

func (m *Storage) slugOwner(slug string) (int64, bool) {
	for id, p := range m.posts {
		if p.Slug == slug {
			return id, true
		}
	}
	return 0, false
}

// BlogPostRepository implementation
func (m *Storage) GetBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	posts := []models.BlogPost{}
	for _, p := range m.posts {
		if p.Published {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (m *Storage) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	id, ok := m.slugOwner(slug)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	post := m.posts[id]
	return &post, nil
}

func (m *Storage) InsertBlogPost(ctx context.Context, in models.BlogPostInsert) (*models.BlogPost, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	if _, taken := m.slugOwner(in.Slug); taken {
		return nil, repositories.ErrConflict
	}
	ts := m.clock()
	post := in.Record(m.next("blog_post"), ts, ts)
	m.posts[post.ID] = post
	return &post, nil
}

func (m *Storage) UpdateBlogPost(ctx context.Context, id int64, in models.BlogPostInsert) (*models.BlogPost, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	existing, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	if owner, taken := m.slugOwner(in.Slug); taken && owner != id {
		return nil, repositories.ErrConflict
	}
	post := in.Record(id, existing.CreatedAt, m.clock())
	m.posts[id] = post
	return &post, nil
}

func (m *Storage) DeleteBlogPost(ctx context.Context, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	delete(m.posts, id)
	return nil
}

// ContactSubmissionRepository implementation
func (m *Storage) InsertContactSubmission(ctx context.Context, in models.ContactSubmissionInsert) (*models.ContactSubmission, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	sub := in.Record(m.next("contact_submission"), m.clock())
	m.contacts = append(m.contacts, sub)
	return &sub, nil
}

func (m *Storage) GetContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	return append([]models.ContactSubmission{}, m.contacts...), nil
}

// LeadMagnetDownloadRepository implementation
func (m *Storage) InsertLeadMagnetDownload(ctx context.Context, in models.LeadMagnetDownloadInsert) (*models.LeadMagnetDownload, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	d := in.Record(m.next("lead_magnet_download"), m.clock())
	m.downloads = append(m.downloads, d)
	return &d, nil
}

func (m *Storage) GetLeadMagnetDownloads(ctx context.Context) ([]models.LeadMagnetDownload, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	return append([]models.LeadMagnetDownload{}, m.downloads...), nil
}

// UserRepository implementation
func (m *Storage) CreateUser(ctx context.Context, in models.UserInsert) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	for _, u := range m.users {
		if u.Username == in.Username {
			return nil, repositories.ErrConflict
		}
	}
	user := in.Record(m.next("user"))
	m.users[user.ID] = user
	return &user, nil
}

func (m *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (m *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *Storage) Close() error {
	return nil
}
