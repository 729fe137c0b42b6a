package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormProductRepository(gormDB), mock, mockDB
}

func productColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "version",
		"name", "category", "sale_price", "cost_price",
		"quantity", "low_stock_threshold", "active",
	}
}

func productRow(rows *sqlmock.Rows, id uuid.UUID, name string, quantity int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, now, now, 1, name, "beer", "5.00", "3.00", quantity, 2, true)
}

func TestNewGormProductRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		rows := productRow(sqlmock.NewRows(productColumns()), productID, "Skol Lata 350ml", 10)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "Skol Lata 350ml", product.Name)
		assert.Equal(t, 10, product.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		product, err := repo.FindByID(context.Background(), productID)

		assert.Nil(t, product)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the product row", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		rows := productRow(sqlmock.NewRows(productColumns()), productID, "Skol Lata 350ml", 10)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY "products"\."id" LIMIT \$2 FOR UPDATE`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByIDForUpdate(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		_, err := repo.FindByIDForUpdate(context.Background(), productID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindByIDsForUpdate(t *testing.T) {
	t.Run("locks rows in ascending id order", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		idA := uuid.New()
		idB := uuid.New()
		rows := sqlmock.NewRows(productColumns())
		productRow(rows, idA, "Skol Lata 350ml", 10)
		productRow(rows, idB, "Coxinha", 6)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
			WithArgs(idA, idB).
			WillReturnRows(rows)

		products, err := repo.FindByIDsForUpdate(context.Background(), []uuid.UUID{idA, idB})

		require.NoError(t, err)
		assert.Len(t, products, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil without querying for empty id list", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		products, err := repo.FindByIDsForUpdate(context.Background(), nil)

		require.NoError(t, err)
		assert.Nil(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindLowStock(t *testing.T) {
	t.Run("filters on threshold and activity", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		rows := productRow(sqlmock.NewRows(productColumns()), uuid.New(), "Skol Lata 350ml", 1)

		mock.ExpectQuery(`active = \$1 AND low_stock_threshold > 0 AND quantity <= low_stock_threshold`).
			WithArgs(true).
			WillReturnRows(rows)

		products, err := repo.FindLowStock(context.Background(), shared.Filter{})

		require.NoError(t, err)
		assert.Len(t, products, 1)
	})
}

func TestGormProductRepository_CountOutOfStock(t *testing.T) {
	t.Run("counts products with zero stock", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE quantity = 0`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountOutOfStock(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("returns not found when nothing is deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), productID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
