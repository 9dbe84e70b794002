package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/coffeeshop/internal/identity/app"
	"github.com/dwikikusuma/coffeeshop/internal/identity/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Get(ctx context.Context, id string) (domain.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.User{}, fmt.Errorf("invalid user UUID: %w", err)
	}

	var (
		user domain.User
		uid  uuid.UUID
	)
	err = r.pool.QueryRow(ctx,
		`SELECT id, username, email, full_name, phone, password_hash, created_at
		 FROM users WHERE id = $1`, userID).
		Scan(&uid, &user.Username, &user.Email, &user.FullName, &user.Phone,
			&user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, app.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	user.ID = uid.String()
	return user, nil
}
