package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ipvault/internal/ipam/models"
	"ipvault/internal/sentinel"
)

// PostgresStore persists addresses in PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgres constructs a PostgreSQL-backed address store.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, addr *models.IPAddress) error {
	const query = `
		INSERT INTO ip_addresses (ip_address, label, comment, recorder_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query, addr.Address, addr.Label, addr.Comment, addr.RecorderID).
		Scan(&addr.ID, &addr.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("label %q taken: %w", addr.Label, sentinel.ErrConflict)
		}
		return fmt.Errorf("create ip address: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.IPAddress, error) {
	const query = `
		SELECT id, created_at, ip_address, label, comment, recorder_id, is_deleted
		FROM ip_addresses
		WHERE id = $1
	`
	var addr models.IPAddress
	if err := s.db.GetContext(ctx, &addr, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ip address %d: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find ip address: %w", err)
	}
	return &addr, nil
}

func (s *PostgresStore) Update(ctx context.Context, addr *models.IPAddress) error {
	const query = `
		UPDATE ip_addresses
		SET ip_address = $1, label = $2, comment = $3, is_deleted = $4
		WHERE id = $5
	`
	res, err := s.db.ExecContext(ctx, query, addr.Address, addr.Label, addr.Comment, addr.IsDeleted, addr.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("label %q taken: %w", addr.Label, sentinel.ErrConflict)
		}
		return fmt.Errorf("update ip address: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("ip address %d: %w", addr.ID, sentinel.ErrNotFound)
	}
	return nil
}

// List returns one page of non-deleted entries ordered by id, plus the total
// non-deleted count. The count is a separate statement and is eventually
// consistent under concurrent writes.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*models.IPAddress, int, error) {
	const query = `
		SELECT id, created_at, ip_address, label, comment, recorder_id, is_deleted
		FROM ip_addresses
		WHERE NOT is_deleted
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	// Non-nil so an empty page marshals as [] rather than null.
	addrs := []*models.IPAddress{}
	if err := s.db.SelectContext(ctx, &addrs, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list ip addresses: %w", err)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ip_addresses WHERE NOT is_deleted`); err != nil {
		return nil, 0, fmt.Errorf("count ip addresses: %w", err)
	}
	return addrs, total, nil
}

// ListByIDs resolves entries for audit-event embedding, deleted ones
// included; unknown ids are skipped.
func (s *PostgresStore) ListByIDs(ctx context.Context, ids []int64) ([]*models.IPAddress, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT id, created_at, ip_address, label, comment, recorder_id, is_deleted
		FROM ip_addresses
		WHERE id IN (?)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("build ip addresses query: %w", err)
	}
	var addrs []*models.IPAddress
	if err := s.db.SelectContext(ctx, &addrs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list ip addresses by ids: %w", err)
	}
	return addrs, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
