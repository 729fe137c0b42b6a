package sales

import (
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeSale is the aggregate type for sale events
const AggregateTypeSale = "Sale"

// Sale event types
const (
	EventTypeSaleOpened      = "SaleOpened"
	EventTypeSaleItemAdded   = "SaleItemAdded"
	EventTypeSaleItemRemoved = "SaleItemRemoved"
	EventTypePaymentApplied  = "PaymentApplied"
	EventTypeSaleFinalized   = "SaleFinalized"
	EventTypeSaleCancelled   = "SaleCancelled"
	EventTypeSaleReopened    = "SaleReopened"
)

// SaleOpenedEvent is emitted when a sale is opened
type SaleOpenedEvent struct {
	shared.BaseDomainEvent
	ClientID   *uuid.UUID `json:"client_id,omitempty"`
	ClientName string     `json:"client_name,omitempty"`
}

func NewSaleOpenedEvent(sale *Sale) *SaleOpenedEvent {
	return &SaleOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleOpened, AggregateTypeSale, sale.ID),
		ClientID:        sale.ClientID,
		ClientName:      sale.ClientName,
	}
}

// SaleItemAddedEvent is emitted when a quantity of a product is added
type SaleItemAddedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

func NewSaleItemAddedEvent(sale *Sale, productID uuid.UUID, qty int) *SaleItemAddedEvent {
	return &SaleItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleItemAdded, AggregateTypeSale, sale.ID),
		ProductID:       productID,
		Quantity:        qty,
		Total:           sale.Total(),
	}
}

// SaleItemRemovedEvent is emitted when a line is removed
type SaleItemRemovedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func NewSaleItemRemovedEvent(sale *Sale, productID uuid.UUID, qty int) *SaleItemRemovedEvent {
	return &SaleItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleItemRemoved, AggregateTypeSale, sale.ID),
		ProductID:       productID,
		Quantity:        qty,
	}
}

// PaymentAppliedEvent is emitted when a payment lands on the ledger
type PaymentAppliedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Balance   decimal.Decimal `json:"balance"`
}

func NewPaymentAppliedEvent(sale *Sale, payment *Payment) *PaymentAppliedEvent {
	return &PaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentApplied, AggregateTypeSale, sale.ID),
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		Method:          payment.Method,
		Balance:         sale.Balance(),
	}
}

// SaleFinalizedEvent is emitted when a sale is finalized, manually or by a
// payment covering the full balance
type SaleFinalizedEvent struct {
	shared.BaseDomainEvent
	Auto  bool            `json:"auto"`
	Total decimal.Decimal `json:"total"`
}

func NewSaleFinalizedEvent(sale *Sale, auto bool) *SaleFinalizedEvent {
	return &SaleFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleFinalized, AggregateTypeSale, sale.ID),
		Auto:            auto,
		Total:           sale.Total(),
	}
}

// SaleCancelledEvent is emitted when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	Total decimal.Decimal `json:"total"`
}

func NewSaleCancelledEvent(sale *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, sale.ID),
		Total:           sale.Total(),
	}
}

// SaleReopenedEvent is emitted when a finalized or cancelled sale reopens
type SaleReopenedEvent struct {
	shared.BaseDomainEvent
}

func NewSaleReopenedEvent(sale *Sale) *SaleReopenedEvent {
	return &SaleReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleReopened, AggregateTypeSale, sale.ID),
	}
}
