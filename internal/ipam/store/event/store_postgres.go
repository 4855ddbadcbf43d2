package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ipvault/internal/ipam/models"
	"ipvault/internal/sentinel"
)

// PostgresStore persists inventory events in PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgres constructs a PostgreSQL-backed event store.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SeedTypes(ctx context.Context, names []string) error {
	const query = `
		INSERT INTO ip_event_types (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`
	for _, name := range names {
		if _, err := s.db.ExecContext(ctx, query, name); err != nil {
			return fmt.Errorf("seed ip event type %q: %w", name, err)
		}
	}
	return nil
}

func (s *PostgresStore) FindTypeByName(ctx context.Context, name string) (*models.IPEventType, error) {
	var t models.IPEventType
	err := s.db.GetContext(ctx, &t, `SELECT id, name FROM ip_event_types WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event type %q not found: %w", name, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find ip event type: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) Append(ctx context.Context, ev *models.IPEvent) error {
	const query = `
		INSERT INTO ip_events (trigger_user_id, ip_address_id, event_type_id, old_data, new_data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, recorded_at
	`
	err := s.db.QueryRowContext(ctx, query,
		ev.TriggerUserID, ev.IPAddressID, ev.EventTypeID, ev.OldData, ev.NewData,
	).Scan(&ev.ID, &ev.RecordedAt)
	if err != nil {
		return fmt.Errorf("append ip event: %w", err)
	}
	return nil
}

// List returns one page of events, newest first, plus the total count. The
// count runs as a separate statement and is eventually consistent under
// concurrent writes. Embedded addresses are resolved by the service layer.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*models.IPEvent, int, error) {
	const query = `
		SELECT e.id, e.recorded_at, e.trigger_user_id, e.ip_address_id, e.event_type_id,
		       t.name AS event_type, e.old_data, e.new_data
		FROM ip_events e
		JOIN ip_event_types t ON t.id = e.event_type_id
		ORDER BY e.id DESC
		LIMIT $1 OFFSET $2
	`
	// Non-nil so an empty page marshals as [] rather than null.
	events := []*models.IPEvent{}
	if err := s.db.SelectContext(ctx, &events, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list ip events: %w", err)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ip_events`); err != nil {
		return nil, 0, fmt.Errorf("count ip events: %w", err)
	}
	return events, total, nil
}
