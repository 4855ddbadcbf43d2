package revocation

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists the revocation ledger in PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgres constructs a PostgreSQL-backed revocation ledger.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Revoke inserts the token string. ON CONFLICT DO NOTHING makes the insert
// idempotent under concurrent duplicate revocations; the uniqueness conflict
// never reaches the caller.
func (s *PostgresStore) Revoke(ctx context.Context, tokenString string) error {
	const query = `
		INSERT INTO revoked_tokens (token)
		VALUES ($1)
		ON CONFLICT (token) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, tokenString); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports ledger membership.
func (s *PostgresStore) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	var revoked bool
	err := s.db.GetContext(ctx, &revoked, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)`, tokenString)
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return revoked, nil
}
