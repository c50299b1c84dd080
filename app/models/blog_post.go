package models

import "time"

// blogPostPayload is the wire form of BlogPostInsert. Pointers distinguish a
// missing field from an empty one.
type blogPostPayload struct {
	Title      *string `json:"title" validate:"required"`
	Slug       *string `json:"slug" validate:"required"`
	Excerpt    *string `json:"excerpt" validate:"required"`
	Content    *string `json:"content" validate:"required"`
	CoverImage *string `json:"coverImage"`
	Category   *string `json:"category" validate:"required"`
	ReadTime   *string `json:"readTime" validate:"required"`
	Published  *bool   `json:"published"`
}

// DecodeBlogPostInsert parses and validates a JSON blog post payload.
func DecodeBlogPostInsert(data []byte) (BlogPostInsert, error) {
	var p blogPostPayload
	if err := decodePayload(data, &p); err != nil {
		return BlogPostInsert{}, err
	}
	in := BlogPostInsert{
		Title:      *p.Title,
		Slug:       *p.Slug,
		Excerpt:    *p.Excerpt,
		Content:    *p.Content,
		CoverImage: p.CoverImage,
		Category:   *p.Category,
		ReadTime:   *p.ReadTime,
	}
	if p.Published != nil {
		in.Published = *p.Published
	}
	return in, nil
}

// Insert returns the caller-supplied part of the post.
func (p BlogPost) Insert() BlogPostInsert {
	return BlogPostInsert{
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		Content:    p.Content,
		CoverImage: p.CoverImage,
		Category:   p.Category,
		ReadTime:   p.ReadTime,
		Published:  p.Published,
	}
}

// Record combines the insert fields with server-assigned ones.
func (in BlogPostInsert) Record(id int64, createdAt, updatedAt time.Time) BlogPost {
	return BlogPost{
		ID:         id,
		Title:      in.Title,
		Slug:       in.Slug,
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		Category:   in.Category,
		ReadTime:   in.ReadTime,
		Published:  in.Published,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}
