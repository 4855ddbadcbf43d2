// Package seeder populates the immutable event-type catalogs at service
// start and optionally bootstraps a superuser account. Seeding is
// idempotent: present catalog entries and an existing superuser are left
// untouched.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	authmodels "ipvault/internal/auth/models"
	"ipvault/internal/auth/password"
	"ipvault/internal/ipam/audit"
	"ipvault/internal/sentinel"
)

// TypeStore seeds one event-type catalog.
type TypeStore interface {
	SeedTypes(ctx context.Context, names []string) error
}

// UserStore creates the bootstrap superuser.
type UserStore interface {
	Create(ctx context.Context, user *authmodels.User) error
}

// SeedUserCatalog seeds the user event-type catalog.
func SeedUserCatalog(ctx context.Context, store TypeStore, logger *slog.Logger) error {
	names := authmodels.UserEventTypeNames()
	if err := store.SeedTypes(ctx, names); err != nil {
		return fmt.Errorf("seed user event types: %w", err)
	}
	logger.InfoContext(ctx, "user event-type catalog seeded", "types", len(names))
	return nil
}

// SeedIPCatalog seeds the inventory event-type catalog: added, one modified
// variant per changed-field combination, and deleted.
func SeedIPCatalog(ctx context.Context, store TypeStore, logger *slog.Logger) error {
	names := audit.CatalogNames()
	if err := store.SeedTypes(ctx, names); err != nil {
		return fmt.Errorf("seed ip event types: %w", err)
	}
	logger.InfoContext(ctx, "ip event-type catalog seeded", "types", len(names))
	return nil
}

// SeedSuperuser creates a superuser with the given credentials. A taken
// username means the account already exists and is not an error.
func SeedSuperuser(ctx context.Context, store UserStore, username, plaintext string, logger *slog.Logger) error {
	if username == "" || plaintext == "" {
		return nil
	}

	digest, err := password.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("hash superuser password: %w", err)
	}

	user := &authmodels.User{
		Username:     username,
		PasswordHash: digest,
		IsSuperuser:  true,
	}
	if err := store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			logger.InfoContext(ctx, "superuser already exists", "username", username)
			return nil
		}
		return fmt.Errorf("create superuser: %w", err)
	}

	logger.InfoContext(ctx, "superuser created", "username", username, "user_id", user.ID)
	return nil
}
