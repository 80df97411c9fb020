package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockItemRepository creates a GormItemRepository with a mocked SQL connection
func newMockItemRepository(t *testing.T) (*GormItemRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormItemRepository(gormDB), mock, mockDB
}

func TestGormItemRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds existing item", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()
		tenantID := uuid.New()
		providerID := uuid.New()
		listedAt := time.Now()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "sku", "name", "price", "status", "provider_id", "photo_urls", "listed_at"}).
			AddRow(itemID, tenantID, "SKU-0001", "Vintage desk lamp", decimal.RequireFromString("45.00"), "AVAILABLE", providerID, "[]", listedAt)

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByIDForTenant(context.Background(), tenantID, itemID)
		require.NoError(t, err)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, "SKU-0001", item.SKU)
		assert.Equal(t, inventory.ItemStatusAvailable, item.Status)
		assert.True(t, item.Price.Equal(decimal.RequireFromString("45.00")))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing item", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "items"`).
			WithArgs(tenantID, itemID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForTenant(context.Background(), tenantID, itemID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_MarkSold(t *testing.T) {
	t.Run("marks available item sold", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		itemID := uuid.New()

		mock.ExpectExec(`UPDATE "items" SET .* WHERE tenant_id = \$\d+ AND id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkSold(context.Background(), tenantID, itemID)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrItemNotAvailable when no row transitions", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		itemID := uuid.New()

		mock.ExpectExec(`UPDATE "items"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkSold(context.Background(), tenantID, itemID)
		assert.ErrorIs(t, err, inventory.ErrItemNotAvailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_ExistsBySKU(t *testing.T) {
	t.Run("uppercases SKU before lookup", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE tenant_id = \$1 AND sku = \$2`).
			WithArgs(tenantID, "SKU-0042").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsBySKU(context.Background(), tenantID, "sku-0042")
		require.NoError(t, err)
		assert.True(t, exists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
