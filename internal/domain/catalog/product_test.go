package catalog

import (
	"testing"

	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/botecopos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, name string, category ProductCategory, price float64, qty int) *Product {
	t.Helper()
	product, err := NewProduct(name, category, valueobject.NewMoneyBRLFromFloat(price), valueobject.ZeroBRL())
	require.NoError(t, err)
	if qty > 0 {
		require.NoError(t, product.Restock(qty))
	}
	product.ClearDomainEvents()
	return product
}

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		category    ProductCategory
		salePrice   valueobject.Money
		costPrice   valueobject.Money
		wantErr     bool
	}{
		{
			name:        "valid product",
			productName: "Skol Lata 350ml",
			category:    CategoryBeer,
			salePrice:   valueobject.NewMoneyBRLFromFloat(5.50),
			costPrice:   valueobject.NewMoneyBRLFromFloat(2.80),
			wantErr:     false,
		},
		{
			name:        "empty name",
			productName: "",
			category:    CategoryBeer,
			salePrice:   valueobject.NewMoneyBRLFromFloat(5.50),
			costPrice:   valueobject.ZeroBRL(),
			wantErr:     true,
		},
		{
			name:        "negative sale price",
			productName: "Skol Lata 350ml",
			category:    CategoryBeer,
			salePrice:   valueobject.NewMoneyBRLFromFloat(-1),
			costPrice:   valueobject.ZeroBRL(),
			wantErr:     true,
		},
		{
			name:        "negative cost price",
			productName: "Skol Lata 350ml",
			category:    CategoryBeer,
			salePrice:   valueobject.NewMoneyBRLFromFloat(5.50),
			costPrice:   valueobject.NewMoneyBRLFromFloat(-1),
			wantErr:     true,
		},
		{
			name:        "unknown category",
			productName: "Vinho Tinto",
			category:    ProductCategory("wine"),
			salePrice:   valueobject.NewMoneyBRLFromFloat(30),
			costPrice:   valueobject.ZeroBRL(),
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := NewProduct(tt.productName, tt.category, tt.salePrice, tt.costPrice)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, product)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, product)
			assert.Equal(t, tt.productName, product.Name)
			assert.Equal(t, tt.category, product.Category)
			assert.True(t, tt.salePrice.Amount().Equal(product.SalePrice))
			assert.Equal(t, 0, product.Quantity)
			assert.True(t, product.Active)
			assert.NotEmpty(t, product.GetDomainEvents())
		})
	}
}

func TestNewProduct_DefaultsCategory(t *testing.T) {
	product, err := NewProduct("Pastel de Carne", "", valueobject.NewMoneyBRLFromFloat(8), valueobject.ZeroBRL())
	require.NoError(t, err)
	assert.Equal(t, CategoryUncategorized, product.Category)
}

func TestProduct_Reserve(t *testing.T) {
	tests := []struct {
		name       string
		initialQty int
		reserveQty int
		wantCode   string
		wantQty    int
	}{
		{name: "reserve part of stock", initialQty: 10, reserveQty: 3, wantQty: 7},
		{name: "reserve all of stock", initialQty: 10, reserveQty: 10, wantQty: 0},
		{name: "insufficient stock", initialQty: 2, reserveQty: 3, wantCode: shared.ErrInsufficientStock.Code, wantQty: 2},
		{name: "zero quantity", initialQty: 10, reserveQty: 0, wantCode: shared.ErrInvalidQuantity.Code, wantQty: 10},
		{name: "negative quantity", initialQty: 10, reserveQty: -1, wantCode: shared.ErrInvalidQuantity.Code, wantQty: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, tt.initialQty)

			err := product.Reserve(tt.reserveQty)
			if tt.wantCode != "" {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantCode, domainErr.Code)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, product.GetDomainEvents())
			}
			assert.Equal(t, tt.wantQty, product.Quantity)
		})
	}
}

func TestProduct_Release(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 5)

	require.NoError(t, product.Release(3))
	assert.Equal(t, 8, product.Quantity)

	assert.Error(t, product.Release(0))
	assert.Error(t, product.Release(-2))
	assert.Equal(t, 8, product.Quantity)
}

func TestProduct_ReserveThenRelease_RestoresStock(t *testing.T) {
	product := newTestProduct(t, "Red Bull 250ml", CategoryEnergyDrink, 10, 12)

	require.NoError(t, product.Reserve(5))
	require.NoError(t, product.Release(5))
	assert.Equal(t, 12, product.Quantity)
}

func TestProduct_AdjustQuantity(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 10)

	require.NoError(t, product.AdjustQuantity(4))
	assert.Equal(t, 4, product.Quantity)

	assert.Error(t, product.AdjustQuantity(-1))
	assert.Equal(t, 4, product.Quantity)
}

func TestProduct_Restock(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 2)

	require.NoError(t, product.Restock(24))
	assert.Equal(t, 26, product.Quantity)

	assert.Error(t, product.Restock(0))
}

func TestProduct_UpdatePricing(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 10)

	err := product.UpdatePricing(valueobject.NewMoneyBRLFromFloat(6), valueobject.NewMoneyBRLFromFloat(3.20))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(6).Equal(product.SalePrice))
	assert.True(t, decimal.NewFromFloat(3.20).Equal(product.CostPrice))

	err = product.UpdatePricing(valueobject.NewMoneyBRLFromFloat(-1), valueobject.ZeroBRL())
	assert.Error(t, err)
}

func TestProduct_Rename(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 0)

	require.NoError(t, product.Rename("Skol Lata 473ml"))
	assert.Equal(t, "Skol Lata 473ml", product.Name)

	assert.Error(t, product.Rename(""))
}

func TestProduct_LowStock(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 10)
	require.NoError(t, product.SetLowStockThreshold(5))

	assert.False(t, product.IsLowStock())

	require.NoError(t, product.Reserve(5))
	assert.True(t, product.IsLowStock())
	assert.False(t, product.IsOutOfStock())

	require.NoError(t, product.Reserve(5))
	assert.True(t, product.IsOutOfStock())
}

func TestProduct_Reserve_EmitsLowStockEvent(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 6)
	require.NoError(t, product.SetLowStockThreshold(5))
	product.ClearDomainEvents()

	require.NoError(t, product.Reserve(2))

	var found bool
	for _, event := range product.GetDomainEvents() {
		if event.EventType() == EventTypeStockBelowThreshold {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProduct_CanFulfill(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 3)

	assert.True(t, product.CanFulfill(3))
	assert.False(t, product.CanFulfill(4))
}

func TestProduct_DeactivateActivate(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 10)

	product.Deactivate()
	assert.False(t, product.Active)
	product.Activate()
	assert.True(t, product.Active)
}

func TestProductCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryBeer.IsValid())
	assert.True(t, CategoryUncategorized.IsValid())
	assert.False(t, ProductCategory("wine").IsValid())
}

func TestNewInsufficientStockError_Message(t *testing.T) {
	product := newTestProduct(t, "Skol Lata 350ml", CategoryBeer, 5.50, 2)

	stockErr := NewInsufficientStockError(product, 5)
	assert.Equal(t, shared.ErrInsufficientStock.Code, stockErr.Code)
	assert.Contains(t, stockErr.Message, "Skol Lata 350ml")
	assert.Contains(t, stockErr.Message, "2 available")
	assert.Contains(t, stockErr.Message, "5 requested")
}
