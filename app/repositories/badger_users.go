package repositories

import (
	"context"

	"dentalrcm/app/models"

	"github.com/dgraph-io/badger/v4"
)

// userEntity is the stored form of a user. models.User hides the hash from
// JSON, so it cannot be persisted as is.
type userEntity struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

func (e userEntity) model() *models.User {
	return &models.User{ID: e.ID, Username: e.Username, PasswordHash: e.PasswordHash}
}

func usernameKey(username string) []byte {
	return []byte(UsernameKeyPrefix + username)
}

// CreateUser stores an operator account. A taken username yields ErrConflict.
func (s *BadgerStore) CreateUser(ctx context.Context, in models.UserInsert) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	id, err := s.nextID(UserSeqKey)
	if err != nil {
		return nil, err
	}

	var user userEntity
	err = s.update(ctx, func(txn *badger.Txn) error {
		if _, err := lookupIndex(txn, usernameKey(in.Username)); err == nil {
			return ErrConflict
		} else if err != ErrNotFound {
			return err
		}

		user = userEntity{ID: id, Username: in.Username, PasswordHash: in.PasswordHash}
		if err := setEntity(txn, entityKey(UserKeyPrefix, id), user); err != nil {
			return err
		}
		return txn.Set(usernameKey(in.Username), encodeID(id))
	})
	if err != nil {
		return nil, err
	}
	return user.model(), nil
}

func (s *BadgerStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user userEntity
	err := s.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return user.model(), nil
}

func (s *BadgerStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user userEntity
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookupIndex(txn, usernameKey(username))
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return user.model(), nil
}
