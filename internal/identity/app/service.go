package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("user not found")

type Service struct {
	repo UserRepo
}

func NewService(repo UserRepo) *Service {
	return &Service{repo: repo}
}

// Verify reports whether secret matches the stored password hash for the
// user. A lookup failure is an error; a mismatch is simply false, so callers
// can treat it as a retryable user mistake.
func (s *Service) Verify(ctx context.Context, userID, secret string) (bool, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
