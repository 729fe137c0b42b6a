package catalog

import (
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeStockReserved       = "StockReserved"
	EventTypeStockReleased       = "StockReleased"
	EventTypeStockAdjusted       = "StockAdjusted"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Category  ProductCategory `json:"category"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Category:        product.Category,
		SalePrice:       product.SalePrice,
	}
}

// StockReservedEvent is published when stock is reserved for a sale item
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Remaining int       `json:"remaining"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(product *Product, qty int) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Quantity:        qty,
		Remaining:       product.Quantity,
	}
}

// StockReleasedEvent is published when reserved stock returns to the shelf
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Remaining int       `json:"remaining"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(product *Product, qty int) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Quantity:        qty,
		Remaining:       product.Quantity,
	}
}

// StockAdjustedEvent is published when stock is set outside the sale flow
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(product *Product, oldQty, newQty int) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
	}
}

// StockBelowThresholdEvent is published when stock falls to the low-stock mark
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(product *Product) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Quantity:        product.Quantity,
		Threshold:       product.LowStockThreshold,
	}
}
