package sales

import (
	"time"

	"github.com/botecopos/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest represents a request to open a new sale.
// Either ClientID or WalkInName must be set.
type CreateSaleRequest struct {
	ClientID   *uuid.UUID `json:"client_id"`
	WalkInName string     `json:"walk_in_name"`
}

// AddItemRequest represents a request to add a product to a sale
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// ApplyPaymentRequest represents a request to record a payment.
// IdempotencyKey guards against duplicate submissions of the same payment;
// when empty the payment is always applied.
type ApplyPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Note           string          `json:"note"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// ListSalesRequest represents query parameters for listing sales
type ListSalesRequest struct {
	Status   string `json:"status"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID         uuid.UUID          `json:"id"`
	ClientID   *uuid.UUID         `json:"client_id,omitempty"`
	ClientName string             `json:"client_name,omitempty"`
	Status     string             `json:"status"`
	Items      []SaleItemResponse `json:"items"`
	Payments   []PaymentResponse  `json:"payments"`
	Total      decimal.Decimal    `json:"total"`
	Paid       decimal.Decimal    `json:"paid"`
	Balance    decimal.Decimal    `json:"balance"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ToSaleResponse converts a sale aggregate to a response DTO
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		})
	}

	payments := make([]PaymentResponse, 0, len(sale.Payments))
	for _, payment := range sale.Payments {
		payments = append(payments, PaymentResponse{
			ID:        payment.ID,
			Amount:    payment.Amount,
			Method:    payment.Method,
			Note:      payment.Note,
			CreatedAt: payment.CreatedAt,
		})
	}

	return SaleResponse{
		ID:         sale.ID,
		ClientID:   sale.ClientID,
		ClientName: sale.ClientName,
		Status:     string(sale.Status),
		Items:      items,
		Payments:   payments,
		Total:      sale.Total(),
		Paid:       sale.PaidAmount(),
		Balance:    sale.Balance(),
		CreatedAt:  sale.CreatedAt,
		UpdatedAt:  sale.UpdatedAt,
	}
}
