package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/coffeeshop/internal/identity/domain"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	user domain.User
	err  error
}

func (f *fakeRepo) Get(ctx context.Context, id string) (domain.User, error) {
	return f.user, f.err
}

func TestVerify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("espresso"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(&fakeRepo{user: domain.User{ID: "u1", PasswordHash: string(hash)}})

	ok, err := svc.Verify(context.Background(), "u1", "espresso")
	if err != nil || !ok {
		t.Fatalf("correct secret: ok=%v err=%v", ok, err)
	}

	ok, err = svc.Verify(context.Background(), "u1", "americano")
	if err != nil {
		t.Fatalf("mismatch must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("wrong secret verified")
	}
}

func TestVerifyLookupFailure(t *testing.T) {
	svc := NewService(&fakeRepo{err: ErrNotFound})

	_, err := svc.Verify(context.Background(), "ghost", "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
