package persistence

import (
	"context"
	"os"
	"sync"
	"testing"

	appsales "github.com/botecopos/backend/internal/application/sales"
	"github.com/botecopos/backend/internal/domain/catalog"
	"github.com/botecopos/backend/internal/domain/partner"
	"github.com/botecopos/backend/internal/domain/sales"
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/botecopos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Exercises the product row locks against a real database, which sqlite and
// sqlmock cannot do. Point POS_TEST_DATABASE_DSN at a disposable postgres
// instance to run it; the tables are dropped afterwards.
func TestSaleService_ConcurrentAddItem(t *testing.T) {
	dsn := os.Getenv("POS_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("POS_TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Product{}, &partner.Client{},
		&sales.Sale{}, &sales.SaleItem{}, &sales.Payment{},
	))
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(
			&sales.Payment{}, &sales.SaleItem{}, &sales.Sale{},
			&partner.Client{}, &catalog.Product{},
		)
	})

	ctx := context.Background()
	product, err := catalog.NewProduct("Brahma Lata 350ml", catalog.CategoryBeer,
		valueobject.NewMoneyBRLFromFloat(5.00), valueobject.NewMoneyBRLFromFloat(2.80))
	require.NoError(t, err)
	require.NoError(t, product.Restock(10))
	product.ClearDomainEvents()

	productRepo := NewGormProductRepository(db)
	require.NoError(t, productRepo.Save(ctx, product))

	service := appsales.NewSaleService(NewGormTransactionScope(db))
	first, err := service.Create(ctx, appsales.CreateSaleRequest{WalkInName: "Mesa 1"})
	require.NoError(t, err)
	second, err := service.Create(ctx, appsales.CreateSaleRequest{WalkInName: "Mesa 2"})
	require.NoError(t, err)

	// Two tabs racing for 6 units each out of 10. The product row lock
	// serializes them, so exactly one reservation can go through.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, saleID := range []uuid.UUID{first.ID, second.ID} {
		wg.Add(1)
		go func(slot int, id uuid.UUID) {
			defer wg.Done()
			_, errs[slot] = service.AddItem(ctx, id, appsales.AddItemRequest{
				ProductID: product.ID,
				Quantity:  6,
			})
		}(i, saleID)
	}
	wg.Wait()

	succeeded := 0
	for _, addErr := range errs {
		if addErr == nil {
			succeeded++
			continue
		}
		var domainErr *shared.DomainError
		require.ErrorAs(t, addErr, &domainErr)
		assert.Equal(t, shared.ErrInsufficientStock.Code, domainErr.Code)
	}
	assert.Equal(t, 1, succeeded)

	reloaded, err := productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Quantity)
}
