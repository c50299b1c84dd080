package repositories

import (
	"context"

	"dentalrcm/app/models"
)

const (
	sqlInsertUser = `
		INSERT INTO users (username, password)
		VALUES (?, ?)
		RETURNING id, username, password`

	sqlGetUserByID       = `SELECT id, username, password FROM users WHERE id = ? LIMIT 1`
	sqlGetUserByUsername = `SELECT id, username, password FROM users WHERE username = ? LIMIT 1`
)

type userRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
}

func (r userRow) model() *models.User {
	return &models.User{ID: r.ID, Username: r.Username, PasswordHash: r.Password}
}

// CreateUser stores an operator account. A taken username yields ErrConflict.
func (s *SQLStore) CreateUser(ctx context.Context, in models.UserInsert) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var row userRow
	if err := s.get(ctx, &row, sqlInsertUser, in.Username, in.PasswordHash); err != nil {
		return nil, err
	}
	return row.model(), nil
}

func (s *SQLStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var row userRow
	if err := s.get(ctx, &row, sqlGetUserByID, id); err != nil {
		return nil, err
	}
	return row.model(), nil
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var row userRow
	if err := s.get(ctx, &row, sqlGetUserByUsername, username); err != nil {
		return nil, err
	}
	return row.model(), nil
}
