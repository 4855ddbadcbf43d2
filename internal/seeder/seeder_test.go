package seeder

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipvault/internal/auth/password"
	authevent "ipvault/internal/auth/store/event"
	"ipvault/internal/auth/store/user"
	ipevent "ipvault/internal/ipam/store/event"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedUserCatalog(t *testing.T) {
	store := authevent.NewInMemory()
	ctx := context.Background()

	require.NoError(t, SeedUserCatalog(ctx, store, discard()))

	for _, name := range []string{"login", "logout", "register"} {
		et, err := store.FindTypeByName(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, name, et.Name)
	}

	// Seeding again leaves the catalog untouched.
	first, err := store.FindTypeByName(ctx, "login")
	require.NoError(t, err)
	require.NoError(t, SeedUserCatalog(ctx, store, discard()))
	again, err := store.FindTypeByName(ctx, "login")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestSeedIPCatalog(t *testing.T) {
	store := ipevent.NewInMemory()
	ctx := context.Background()

	require.NoError(t, SeedIPCatalog(ctx, store, discard()))

	for _, name := range []string{
		"ip_address_added",
		"ip_address_modified_ip",
		"ip_address_modified_ip_label_comment",
		"ip_address_deleted",
	} {
		_, err := store.FindTypeByName(ctx, name)
		assert.NoError(t, err, name)
	}
}

func TestSeedSuperuser(t *testing.T) {
	store := user.NewInMemory()
	ctx := context.Background()

	require.NoError(t, SeedSuperuser(ctx, store, "root", "changeme", discard()))

	created, err := store.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, created.IsSuperuser)
	assert.True(t, password.Verify("changeme", created.PasswordHash))

	// A second run sees the taken username and succeeds without touching
	// the account.
	require.NoError(t, SeedSuperuser(ctx, store, "root", "other-password", discard()))
	after, err := store.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, created.PasswordHash, after.PasswordHash)
}

func TestSeedSuperuserSkipsBlankCredentials(t *testing.T) {
	store := user.NewInMemory()
	ctx := context.Background()

	require.NoError(t, SeedSuperuser(ctx, store, "", "", discard()))
	_, err := store.FindByUsername(ctx, "root")
	assert.Error(t, err)
}
