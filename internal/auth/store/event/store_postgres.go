package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ipvault/internal/auth/models"
	"ipvault/internal/sentinel"
)

// PostgresStore persists user events in PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgres constructs a PostgreSQL-backed event store.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SeedTypes(ctx context.Context, names []string) error {
	const query = `
		INSERT INTO user_event_types (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`
	for _, name := range names {
		if _, err := s.db.ExecContext(ctx, query, name); err != nil {
			return fmt.Errorf("seed user event type %q: %w", name, err)
		}
	}
	return nil
}

func (s *PostgresStore) FindTypeByName(ctx context.Context, name string) (*models.UserEventType, error) {
	var t models.UserEventType
	err := s.db.GetContext(ctx, &t, `SELECT id, name FROM user_event_types WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event type %q not found: %w", name, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user event type: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) Append(ctx context.Context, ev *models.UserEvent) error {
	const query = `
		INSERT INTO user_events (trigger_user_id, user_id, event_type_id, old_data, new_data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, recorded_at
	`
	err := s.db.QueryRowContext(ctx, query,
		ev.TriggerUserID, ev.UserID, ev.EventTypeID, ev.OldData, ev.NewData,
	).Scan(&ev.ID, &ev.RecordedAt)
	if err != nil {
		return fmt.Errorf("append user event: %w", err)
	}
	return nil
}

// List returns one page of events, newest first, plus the total count. The
// count runs as a separate statement and is eventually consistent under
// concurrent writes.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*models.UserEvent, int, error) {
	const query = `
		SELECT e.id, e.recorded_at, e.trigger_user_id, e.user_id, e.event_type_id,
		       t.name AS event_type, e.old_data, e.new_data
		FROM user_events e
		JOIN user_event_types t ON t.id = e.event_type_id
		ORDER BY e.id DESC
		LIMIT $1 OFFSET $2
	`
	// Non-nil so an empty page marshals as [] rather than null.
	events := []*models.UserEvent{}
	if err := s.db.SelectContext(ctx, &events, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list user events: %w", err)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM user_events`); err != nil {
		return nil, 0, fmt.Errorf("count user events: %w", err)
	}
	return events, total, nil
}
