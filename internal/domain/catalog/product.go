package catalog

import (
	"fmt"
	"time"

	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/botecopos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductCategory represents the product category code
type ProductCategory string

const (
	CategoryUncategorized ProductCategory = "uncategorized"
	CategoryBeer          ProductCategory = "beer"
	CategorySoftDrink     ProductCategory = "soft_drink"
	CategoryEnergyDrink   ProductCategory = "energy_drink"
	CategorySnacks        ProductCategory = "snacks"
	CategoryFood          ProductCategory = "food"
	CategoryWhisky        ProductCategory = "whisky"
	CategoryVodka         ProductCategory = "vodka"
	CategoryJuice         ProductCategory = "juice"
	CategoryOther         ProductCategory = "other"
)

// IsValid checks if the category is a known ProductCategory
func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryUncategorized, CategoryBeer, CategorySoftDrink, CategoryEnergyDrink,
		CategorySnacks, CategoryFood, CategoryWhisky, CategoryVodka, CategoryJuice, CategoryOther:
		return true
	}
	return false
}

// Product is the aggregate root for catalog and stock operations.
// Quantity is the on-hand stock count; it is mutated only through Reserve,
// Release, Restock and AdjustQuantity, and must never go negative.
type Product struct {
	shared.BaseAggregateRoot
	Name              string          `gorm:"type:varchar(255);not null;index"`
	Category          ProductCategory `gorm:"type:varchar(30);not null;default:'uncategorized'"`
	SalePrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity          int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:0"`
	Active            bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with zero stock
func NewProduct(name string, category ProductCategory, salePrice, costPrice valueobject.Money) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	if category == "" {
		category = CategoryUncategorized
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown product category %q", category))
	}
	if salePrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if costPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          category,
		SalePrice:         salePrice.Amount().Round(2),
		CostPrice:         costPrice.Amount().Round(2),
		Quantity:          0,
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Reserve decrements the on-hand quantity for a sale item.
// Fails when qty is not positive or exceeds the available quantity.
func (p *Product) Reserve(qty int) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	if p.Quantity < qty {
		return NewInsufficientStockError(p, qty)
	}

	p.Quantity -= qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReservedEvent(p, qty))

	if p.IsLowStock() {
		p.AddDomainEvent(NewStockBelowThresholdEvent(p))
	}

	return nil
}

// Release returns a previously reserved quantity to stock.
// There is no upper bound check; pairing with Reserve is the caller's contract.
func (p *Product) Release(qty int) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}

	p.Quantity += qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReleasedEvent(p, qty))

	return nil
}

// Restock increases the on-hand quantity outside the sale flow (deliveries)
func (p *Product) Restock(qty int) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}

	p.Quantity += qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockAdjustedEvent(p, p.Quantity-qty, p.Quantity))

	return nil
}

// AdjustQuantity sets the on-hand quantity to a counted value
func (p *Product) AdjustQuantity(qty int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	old := p.Quantity
	p.Quantity = qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockAdjustedEvent(p, old, qty))

	return nil
}

// UpdatePricing updates sale and cost prices. Existing sale items keep the
// price snapshotted when they were added.
func (p *Product) UpdatePricing(salePrice, costPrice valueobject.Money) error {
	if salePrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if costPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}

	p.SalePrice = salePrice.Amount().Round(2)
	p.CostPrice = costPrice.Amount().Round(2)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Rename updates the product display name
func (p *Product) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}

	p.Name = name
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory updates the product category
func (p *Product) SetCategory(category ProductCategory) error {
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown product category %q", category))
	}

	p.Category = category
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetLowStockThreshold sets the quantity below which the product is flagged
func (p *Product) SetLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	p.LowStockThreshold = threshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate removes the product from sale without deleting its history
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate puts the product back on sale
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsLowStock returns true if the quantity is at or below the threshold
func (p *Product) IsLowStock() bool {
	return p.LowStockThreshold > 0 && p.Quantity <= p.LowStockThreshold
}

// IsOutOfStock returns true if there is no stock left
func (p *Product) IsOutOfStock() bool {
	return p.Quantity == 0
}

// CanFulfill returns true if the quantity can cover the requested amount
func (p *Product) CanFulfill(qty int) bool {
	return p.Quantity >= qty
}

// GetSalePriceMoney returns the sale price as Money
func (p *Product) GetSalePriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.SalePrice)
}

// GetCostPriceMoney returns the cost price as Money
func (p *Product) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.CostPrice)
}

// NewInsufficientStockError builds an InsufficientStock error naming the product
func NewInsufficientStockError(p *Product, requested int) *shared.DomainError {
	return shared.NewDomainError(
		shared.ErrInsufficientStock.Code,
		fmt.Sprintf("Insufficient stock for %s (%d available, %d requested)", p.Name, p.Quantity, requested),
	)
}
