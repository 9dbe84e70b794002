package app

import (
	"context"

	"github.com/dwikikusuma/coffeeshop/internal/identity/domain"
)

type UserRepo interface {
	Get(ctx context.Context, id string) (domain.User, error)
}
