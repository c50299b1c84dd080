package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	BlogPostKeyPrefix           = "blog_post:"
	ContactSubmissionKeyPrefix  = "contact_submission:"
	LeadMagnetDownloadKeyPrefix = "lead_magnet_download:"
	UserKeyPrefix               = "user:"

	// Unique index prefixes, value is the owning record's key
	BlogPostSlugKeyPrefix = "blog_post_slug:"
	UsernameKeyPrefix     = "username:"

	// Sequence keys for auto-incrementing IDs. The stored value is the
	// highest id handed out or leased.
	BlogPostSeqKey           = "seq:blog_post"
	ContactSubmissionSeqKey  = "seq:contact_submission"
	LeadMagnetDownloadSeqKey = "seq:lead_magnet_download"
	UserSeqKey               = "seq:user"
)

// entityKey zero-pads id so prefix iteration yields records in id order.
func entityKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity any) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity any) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads key into entity, returning ErrNotFound when it is absent.
func getEntity(txn *badger.Txn, key []byte, entity any) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity marshals entity and stores it under key.
func setEntity(txn *badger.Txn, key []byte, entity any) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// scanPrefix calls fn with the value of every key under prefix, in key order.
func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
