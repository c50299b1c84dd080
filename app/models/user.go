package models

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type userPayload struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// NewUserInsert validates the credentials and hashes the password.
func NewUserInsert(username, password string) (UserInsert, error) {
	p := userPayload{Username: strings.TrimSpace(username), Password: password}
	if err := validateStruct(p); err != nil {
		return UserInsert{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserInsert{}, err
	}
	return UserInsert{Username: p.Username, PasswordHash: string(hash)}, nil
}

// CheckPassword reports whether password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Record combines the insert fields with the assigned id.
func (in UserInsert) Record(id int64) User {
	return User{ID: id, Username: in.Username, PasswordHash: in.PasswordHash}
}

var errEmptyHash = errors.New("password hash is empty")

// Validate checks that the insert carries a hash rather than a raw password.
func (in UserInsert) Validate() error {
	if in.PasswordHash == "" {
		return errEmptyHash
	}
	if _, err := bcrypt.Cost([]byte(in.PasswordHash)); err != nil {
		return err
	}
	return nil
}
