package address

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipvault/internal/ipam/models"
	"ipvault/internal/sentinel"
)

func newPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(sqlx.NewDb(db, "sqlmock")), mock
}

func addressColumns() []string {
	return []string{"id", "created_at", "ip_address", "label", "comment", "recorder_id", "is_deleted"}
}

func TestPostgresCreate(t *testing.T) {
	store, mock := newPostgresStore(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO ip_addresses").
		WithArgs("10.0.0.1", "core-router", nil, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), created))

	addr := &models.IPAddress{Address: "10.0.0.1", Label: "core-router", RecorderID: 7}
	require.NoError(t, store.Create(context.Background(), addr))
	assert.Equal(t, int64(3), addr.ID)
	assert.Equal(t, created, addr.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateTakenLabel(t *testing.T) {
	store, mock := newPostgresStore(t)

	mock.ExpectQuery("INSERT INTO ip_addresses").
		WithArgs("10.0.0.1", "core-router", nil, int64(7)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := store.Create(context.Background(), &models.IPAddress{Address: "10.0.0.1", Label: "core-router", RecorderID: 7})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	store, mock := newPostgresStore(t)

	mock.ExpectQuery("SELECT id, created_at, ip_address, label, comment, recorder_id, is_deleted").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(addressColumns()))

	_, err := store.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresUpdate(t *testing.T) {
	store, mock := newPostgresStore(t)

	mock.ExpectExec("UPDATE ip_addresses").
		WithArgs("10.0.0.1", "backbone", nil, false, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(context.Background(), &models.IPAddress{ID: 3, Address: "10.0.0.1", Label: "backbone"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateUnknownID(t *testing.T) {
	store, mock := newPostgresStore(t)

	mock.ExpectExec("UPDATE ip_addresses").
		WithArgs("10.0.0.1", "backbone", nil, false, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), &models.IPAddress{ID: 99, Address: "10.0.0.1", Label: "backbone"})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresUpdateTakenLabel(t *testing.T) {
	store, mock := newPostgresStore(t)

	mock.ExpectExec("UPDATE ip_addresses").
		WithArgs("10.0.0.1", "backbone", nil, false, int64(3)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := store.Update(context.Background(), &models.IPAddress{ID: 3, Address: "10.0.0.1", Label: "backbone"})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestPostgresList(t *testing.T) {
	store, mock := newPostgresStore(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(addressColumns()).
		AddRow(int64(1), created, "10.0.0.1", "core-router", nil, int64(7), false).
		AddRow(int64(2), created, "10.0.0.2", "edge", "rack 4", int64(9), false)
	mock.ExpectQuery("SELECT id, created_at, ip_address, label, comment, recorder_id, is_deleted").
		WithArgs(10, 0).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	addrs, total, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "core-router", addrs[0].Label)
	require.NotNil(t, addrs[1].Comment)
	assert.Equal(t, "rack 4", *addrs[1].Comment)
	assert.Equal(t, 5, total)
}

func TestPostgresListEmptyTable(t *testing.T) {
	store, mock := newPostgresStore(t)

	mock.ExpectQuery("SELECT id, created_at, ip_address, label, comment, recorder_id, is_deleted").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(addressColumns()))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	addrs, total, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	// Non-nil so the page marshals as [] rather than null.
	require.NotNil(t, addrs)
	assert.Empty(t, addrs)
	assert.Zero(t, total)
}

func TestPostgresListByIDsEmpty(t *testing.T) {
	store, _ := newPostgresStore(t)

	addrs, err := store.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, addrs)
}
