package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresManager persists session scopes as JSONB rows, one per visitor.
type PostgresManager struct {
	pool *pgxpool.Pool
}

func NewPostgresManager(pool *pgxpool.Pool) *PostgresManager {
	return &PostgresManager{pool: pool}
}

func (m *PostgresManager) Load(ctx context.Context, id string) (*Scope, error) {
	var data []byte
	err := m.pool.QueryRow(ctx,
		`SELECT data FROM sessions WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return NewScope(id, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	values := make(map[string][]byte, len(raw))
	for k, v := range raw {
		values[k] = []byte(v)
	}
	return NewScope(id, values), nil
}

func (m *PostgresManager) Save(ctx context.Context, scope *Scope) error {
	if !scope.Dirty() {
		return nil
	}

	raw := make(map[string]json.RawMessage, len(scope.values))
	for k, v := range scope.values {
		raw[k] = json.RawMessage(v)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", scope.ID(), err)
	}

	_, err = m.pool.Exec(ctx,
		`INSERT INTO sessions (id, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET data = $2, updated_at = now()`,
		scope.ID(), data)
	if err != nil {
		return fmt.Errorf("save session %s: %w", scope.ID(), err)
	}
	return nil
}
