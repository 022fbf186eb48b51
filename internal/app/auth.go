package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/okian/resumerank/internal/adapters/repository"
	"github.com/okian/resumerank/internal/adapters/session"
	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/pkg/logger"
	"github.com/okian/resumerank/pkg/metrics"
)

func outcomeOf(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (err error) {
	defer func() { metrics.RecordAuth("register", outcomeOf(err)) }()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return ErrPasswordTooLong
	case err != nil:
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.store.CreateUser(ctx, model.User{Email: email, PasswordHash: string(hash), CreatedAt: s.now().UTC()})
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case err != nil:
		return storeErr(err)
	}
	s.logger.Info(ctx, "user registered", logger.String("email", email))
	return nil
}

// Login checks the credentials and opens a session. It returns the session
// token.
func (s *Service) Login(ctx context.Context, email, password string) (token string, err error) {
	defer func() { metrics.RecordAuth("login", outcomeOf(err)) }()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	u, err := s.store.FindUser(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "", ErrInvalidCredentials
	case err != nil:
		return "", storeErr(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.sessions.Create(ctx, u.Email)
}

// Logout ends the session. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	metrics.RecordAuth("logout", "success")
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its email.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	email, err := s.sessions.Lookup(ctx, token)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return "", ErrUnauthenticated
	case err != nil:
		return "", err
	}
	return email, nil
}
