package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pharmasync/backend/internal/domain/shared"
	"github.com/pharmasync/backend/internal/domain/sync"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func orderRows(id uuid.UUID, externalID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "external_id", "status", "total", "raw_data", "synced", "created_at", "updated_at"}).
		AddRow(id, externalID, "paid", decimal.NewFromFloat(99.90), `{"id":1001}`, false, now, now)
}

func TestGormOrderRepository_FindByExternalID(t *testing.T) {
	t.Run("finds existing order", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE external_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("1001", 1).
			WillReturnRows(orderRows(orderID, "1001"))

		order, err := repo.FindByExternalID(context.Background(), "1001")
		require.NoError(t, err)
		assert.Equal(t, orderID, order.ID)
		assert.Equal(t, "1001", order.ExternalID)
		assert.Equal(t, sync.OrderStatusPaid, order.Status)
		assert.False(t, order.Synced)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown order", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE external_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("9999", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByExternalID(context.Background(), "9999")
		assert.Nil(t, order)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(gormDB)

	orderID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(orderID, 1).
		WillReturnRows(orderRows(orderID, "1001"))

	order, err := repo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "1001", order.ExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_Save(t *testing.T) {
	t.Run("upserts on external ID conflict", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		order, err := sync.NewOrder(&sync.StoreOrder{
			ExternalID: "1001",
			Status:     sync.OrderStatusPaid,
			Total:      decimal.NewFromFloat(99.90),
			RawData:    `{"id":1001}`,
		})
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "orders" .* ON CONFLICT \("external_id"\) DO UPDATE SET .*`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, repo.Save(context.Background(), order))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindAll(t *testing.T) {
	t.Run("applies status and synced filters with pagination", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		status := sync.OrderStatusPaid
		synced := false
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE status = \$1 AND synced = \$2 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(status, synced, 20).
			WillReturnRows(orderRows(uuid.New(), "1001"))

		orders, err := repo.FindAll(context.Background(), sync.OrderFilter{
			Status:   &status,
			Synced:   &synced,
			Page:     1,
			PageSize: 20,
		})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Count(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(context.Background(), sync.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
