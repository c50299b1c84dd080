package repositories

import (
	"context"
	"encoding/binary"
	"sort"

	"dentalrcm/app/models"

	"github.com/dgraph-io/badger/v4"
)

func slugKey(slug string) []byte {
	return []byte(BlogPostSlugKeyPrefix + slug)
}

func encodeID(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// lookupIndex resolves a unique index key to the id it points at.
func lookupIndex(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int64
	err = item.Value(func(val []byte) error {
		id = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	return id, err
}

// GetBlogPosts returns all published posts ordered by creation time.
func (s *BadgerStore) GetBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, BlogPostKeyPrefix, func(val []byte) error {
			var post models.BlogPost
			if err := unmarshalEntity(val, &post); err != nil {
				return err
			}
			if post.Published {
				posts = append(posts, post)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return createdBefore(posts[i].CreatedAt, posts[i].ID, posts[j].CreatedAt, posts[j].ID)
	})
	return posts, nil
}

// GetBlogPostBySlug returns the post with slug, published or not.
func (s *BadgerStore) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookupIndex(txn, slugKey(slug))
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(BlogPostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// InsertBlogPost stores a new post. A duplicate slug yields ErrConflict.
func (s *BadgerStore) InsertBlogPost(ctx context.Context, in models.BlogPostInsert) (*models.BlogPost, error) {
	id, err := s.nextID(BlogPostSeqKey)
	if err != nil {
		return nil, err
	}

	var post models.BlogPost
	err = s.update(ctx, func(txn *badger.Txn) error {
		if _, err := lookupIndex(txn, slugKey(in.Slug)); err == nil {
			return ErrConflict
		} else if err != ErrNotFound {
			return err
		}

		ts := now()
		post = in.Record(id, ts, ts)

		if err := setEntity(txn, entityKey(BlogPostKeyPrefix, id), post); err != nil {
			return err
		}
		return txn.Set(slugKey(in.Slug), encodeID(id))
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateBlogPost overwrites every insert field of post id and bumps UpdatedAt.
// Moving to a slug owned by another post yields ErrConflict.
func (s *BadgerStore) UpdateBlogPost(ctx context.Context, id int64, in models.BlogPostInsert) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.update(ctx, func(txn *badger.Txn) error {
		key := entityKey(BlogPostKeyPrefix, id)

		var existing models.BlogPost
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}

		if in.Slug != existing.Slug {
			if _, err := lookupIndex(txn, slugKey(in.Slug)); err == nil {
				return ErrConflict
			} else if err != ErrNotFound {
				return err
			}
			if err := txn.Delete(slugKey(existing.Slug)); err != nil {
				return err
			}
			if err := txn.Set(slugKey(in.Slug), encodeID(id)); err != nil {
				return err
			}
		}

		post = in.Record(id, existing.CreatedAt, now())
		return setEntity(txn, key, post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteBlogPost removes post id if it exists.
func (s *BadgerStore) DeleteBlogPost(ctx context.Context, id int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		key := entityKey(BlogPostKeyPrefix, id)

		var existing models.BlogPost
		err := getEntity(txn, key, &existing)
		if err == ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		if err := txn.Delete(slugKey(existing.Slug)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
