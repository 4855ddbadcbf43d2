package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
)

// Migrate applies the named SQL files from fsys in the order given.
// The schema files only use IF NOT EXISTS DDL, so reapplying them on
// every startup is safe.
func Migrate(ctx context.Context, db *sqlx.DB, fsys fs.FS, names ...string) error {
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(raw)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
