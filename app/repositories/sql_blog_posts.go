package repositories

import (
	"context"

	"dentalrcm/app/models"
)

const blogPostColumns = `id, title, slug, excerpt, content, cover_image, category, read_time, published, created_at, updated_at`

const (
	sqlListPublishedBlogPosts = `
		SELECT ` + blogPostColumns + `
		FROM   blog_posts
		WHERE  published = ?
		ORDER  BY created_at, id`

	sqlGetBlogPostBySlug = `
		SELECT ` + blogPostColumns + `
		FROM   blog_posts
		WHERE  slug = ?
		LIMIT  1`

	sqlInsertBlogPost = `
		INSERT INTO blog_posts (title, slug, excerpt, content, cover_image, category, read_time, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + blogPostColumns

	sqlUpdateBlogPost = `
		UPDATE blog_posts
		SET    title = ?, slug = ?, excerpt = ?, content = ?, cover_image = ?,
		       category = ?, read_time = ?, published = ?, updated_at = ?
		WHERE  id = ?
		RETURNING ` + blogPostColumns

	sqlDeleteBlogPost = `DELETE FROM blog_posts WHERE id = ?`
)

type blogPostRow struct {
	ID         int64   `db:"id"`
	Title      string  `db:"title"`
	Slug       string  `db:"slug"`
	Excerpt    string  `db:"excerpt"`
	Content    string  `db:"content"`
	CoverImage *string `db:"cover_image"`
	Category   string  `db:"category"`
	ReadTime   string  `db:"read_time"`
	Published  bool    `db:"published"`
	CreatedAt  dbTime  `db:"created_at"`
	UpdatedAt  dbTime  `db:"updated_at"`
}

func (r blogPostRow) model() models.BlogPost {
	return models.BlogPost{
		ID:         r.ID,
		Title:      r.Title,
		Slug:       r.Slug,
		Excerpt:    r.Excerpt,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Category:   r.Category,
		ReadTime:   r.ReadTime,
		Published:  r.Published,
		CreatedAt:  r.CreatedAt.Time,
		UpdatedAt:  r.UpdatedAt.Time,
	}
}

// GetBlogPosts returns all published posts ordered by creation time.
func (s *SQLStore) GetBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	var rows []blogPostRow
	if err := s.selectAll(ctx, &rows, sqlListPublishedBlogPosts, true); err != nil {
		return nil, err
	}
	posts := make([]models.BlogPost, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.model())
	}
	return posts, nil
}

// GetBlogPostBySlug returns the post with slug, published or not.
func (s *SQLStore) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var row blogPostRow
	if err := s.get(ctx, &row, sqlGetBlogPostBySlug, slug); err != nil {
		return nil, err
	}
	post := row.model()
	return &post, nil
}

// InsertBlogPost stores a new post. A duplicate slug yields ErrConflict.
func (s *SQLStore) InsertBlogPost(ctx context.Context, in models.BlogPostInsert) (*models.BlogPost, error) {
	ts := now()
	var row blogPostRow
	err := s.get(ctx, &row, sqlInsertBlogPost,
		in.Title, in.Slug, in.Excerpt, in.Content, in.CoverImage,
		in.Category, in.ReadTime, in.Published, ts, ts)
	if err != nil {
		return nil, err
	}
	post := row.model()
	return &post, nil
}

// UpdateBlogPost overwrites every insert field of post id and bumps updated_at.
func (s *SQLStore) UpdateBlogPost(ctx context.Context, id int64, in models.BlogPostInsert) (*models.BlogPost, error) {
	var row blogPostRow
	err := s.get(ctx, &row, sqlUpdateBlogPost,
		in.Title, in.Slug, in.Excerpt, in.Content, in.CoverImage,
		in.Category, in.ReadTime, in.Published, now(), id)
	if err != nil {
		return nil, err
	}
	post := row.model()
	return &post, nil
}

// DeleteBlogPost removes post id if it exists.
func (s *SQLStore) DeleteBlogPost(ctx context.Context, id int64) error {
	return s.exec(ctx, sqlDeleteBlogPost, id)
}
