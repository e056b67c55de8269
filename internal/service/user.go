package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/labstock/labstock/internal/auth"
	"github.com/labstock/labstock/internal/ident"
	"github.com/labstock/labstock/internal/metrics"
	"github.com/labstock/labstock/internal/model"
	"github.com/labstock/labstock/internal/store"
)

// ErrForbidden is returned when the reset proof phrase does not match.
var ErrForbidden = errors.New("forbidden")

// UserService handles account registration, authentication and password
// resets.
type UserService struct {
	store       *store.Store
	proofPhrase string
	metrics     metrics.Recorder
}

// NewUserService creates a new UserService. proofPhrase is the shared
// secret required to reset a password.
func NewUserService(st *store.Store, proofPhrase string, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{store: st, proofPhrase: proofPhrase, metrics: recorder}
}

// Register creates an account with an Argon2id password hash.
func (s *UserService) Register(ctx context.Context, username, email, password string) (model.UserAccount, error) {
	if strings.TrimSpace(username) == "" {
		return model.UserAccount{}, store.ValidationError{Field: "username", Reason: "required"}
	}
	if strings.TrimSpace(email) == "" {
		return model.UserAccount{}, store.ValidationError{Field: "email", Reason: "required"}
	}
	if password == "" {
		return model.UserAccount{}, store.ValidationError{Field: "password", Reason: "required"}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.UserAccount{}, err
	}
	account := model.UserAccount{
		ID:           ident.UserID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, account); err != nil {
		return model.UserAccount{}, err
	}
	return account, nil
}

// Authenticate returns the account matching username and password.
// Wrong username and wrong password are deliberately indistinguishable:
// both come back as ErrUserNotFound.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.UserAccount, error) {
	if username == "" || password == "" {
		s.metrics.IncLoginResult("failure")
		return model.UserAccount{}, store.ErrUserNotFound
	}

	account, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		s.metrics.IncLoginResult("failure")
		return model.UserAccount{}, store.ErrUserNotFound
	}
	ok, err := auth.VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		s.metrics.IncLoginResult("failure")
		return model.UserAccount{}, store.ErrUserNotFound
	}

	s.metrics.IncLoginResult("success")
	return account, nil
}

// ResetPassword overwrites the password of the account matching email.
// There is no prior-password check; the proof phrase is the only gate.
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword, proofPhrase string) error {
	if subtle.ConstantTimeCompare([]byte(proofPhrase), []byte(s.proofPhrase)) != 1 {
		return ErrForbidden
	}
	if newPassword == "" {
		return store.ValidationError{Field: "new_password", Reason: "required"}
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.SetPasswordByEmail(ctx, email, hash)
}
