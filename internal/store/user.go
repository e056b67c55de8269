package store

import (
	"context"

	"github.com/labstock/labstock/internal/model"
)

// CreateUser persists a new account. Username and email uniqueness are
// checked in that order so the caller can tell the two conflicts apart.
func (s *Store) CreateUser(ctx context.Context, account model.UserAccount) error {
	err := s.update(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Username == account.Username {
				return ErrDuplicateUsername
			}
		}
		for _, u := range st.users {
			if u.Email == account.Email {
				return ErrDuplicateEmail
			}
		}
		st.users = append(st.users, account)
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncUserRegistered()
	s.logger.Info("user registered", "username", account.Username)
	return nil
}

// UserByUsername returns the account for username.
func (s *Store) UserByUsername(ctx context.Context, username string) (model.UserAccount, error) {
	var (
		account model.UserAccount
		found   bool
	)
	s.view(func(st *state) {
		for _, u := range st.users {
			if u.Username == username {
				account = u
				found = true
				return
			}
		}
	})
	if !found {
		return model.UserAccount{}, ErrUserNotFound
	}
	return account, nil
}

// SetPasswordByEmail overwrites the password hash of the account matching
// email.
func (s *Store) SetPasswordByEmail(ctx context.Context, email, passwordHash string) error {
	return s.update(ctx, func(st *state) error {
		for i := range st.users {
			if st.users[i].Email == email {
				st.users[i].PasswordHash = passwordHash
				return nil
			}
		}
		return ErrUserNotFound
	})
}
