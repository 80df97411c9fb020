package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockTransactionRepository(t *testing.T) (*GormTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormTransactionRepository(gormDB), mock, mockDB
}

func emptyTransactionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "tenant_id", "provider_id", "item_id"})
}

// The list endpoint's filter keys must land in the WHERE clause; a key the
// switch does not recognize would silently return the unfiltered tenant set.
func TestGormTransactionRepository_FindAllForTenantFilters(t *testing.T) {
	tenantID := uuid.New()
	listFilter := func(key string, value interface{}) shared.Filter {
		return shared.Filter{
			Page:     1,
			PageSize: 20,
			OrderBy:  "sale_date",
			OrderDir: "desc",
			Filters:  map[string]interface{}{key: value},
		}
	}

	t.Run("unpaid selects settleable sales", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE tenant_id = \$1 AND \(provider_paid_out = false AND payout_id IS NULL\) ORDER BY sale_date DESC LIMIT \$2`).
			WithArgs(tenantID, 20).
			WillReturnRows(emptyTransactionRows())

		txs, err := repo.FindAllForTenant(context.Background(), tenantID, listFilter("unpaid", true))
		require.NoError(t, err)
		assert.Empty(t, txs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unpaid false selects paid out sales", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE tenant_id = \$1 AND provider_paid_out = true ORDER BY sale_date DESC LIMIT \$2`).
			WithArgs(tenantID, 20).
			WillReturnRows(emptyTransactionRows())

		_, err := repo.FindAllForTenant(context.Background(), tenantID, listFilter("unpaid", false))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("date_from bounds the sale date", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE tenant_id = \$1 AND sale_date >= \$2 ORDER BY sale_date DESC LIMIT \$3`).
			WithArgs(tenantID, from, 20).
			WillReturnRows(emptyTransactionRows())

		_, err := repo.FindAllForTenant(context.Background(), tenantID, listFilter("date_from", from))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("date_to is exclusive", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE tenant_id = \$1 AND sale_date < \$2 ORDER BY sale_date DESC LIMIT \$3`).
			WithArgs(tenantID, to, 20).
			WillReturnRows(emptyTransactionRows())

		_, err := repo.FindAllForTenant(context.Background(), tenantID, listFilter("date_to", to))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("provider_id filters by consignor", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		providerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE tenant_id = \$1 AND provider_id = \$2 ORDER BY sale_date DESC LIMIT \$3`).
			WithArgs(tenantID, providerID, 20).
			WillReturnRows(emptyTransactionRows())

		_, err := repo.FindAllForTenant(context.Background(), tenantID, listFilter("provider_id", providerID))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_CountForTenantFilters(t *testing.T) {
	repo, mock, mockDB := newMockTransactionRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "transactions" WHERE tenant_id = \$1 AND \(provider_paid_out = false AND payout_id IS NULL\)`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountForTenant(context.Background(), tenantID, shared.Filter{
		Filters: map[string]interface{}{"unpaid": true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
