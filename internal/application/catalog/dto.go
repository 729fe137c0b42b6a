package catalog

import (
	"time"

	"github.com/botecopos/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	InitialQuantity   int             `json:"initial_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Category          *string          `json:"category"`
	SalePrice         *decimal.Decimal `json:"sale_price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
}

// AdjustStockRequest represents a stock correction after counting
type AdjustStockRequest struct {
	Quantity int `json:"quantity"`
}

// RestockRequest represents a delivery adding stock
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// ListProductsRequest represents query parameters for listing products
type ListProductsRequest struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	OutOfStock        bool            `json:"out_of_stock"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to a response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                product.ID,
		Name:              product.Name,
		Category:          string(product.Category),
		SalePrice:         product.SalePrice,
		CostPrice:         product.CostPrice,
		Quantity:          product.Quantity,
		LowStockThreshold: product.LowStockThreshold,
		LowStock:          product.IsLowStock(),
		OutOfStock:        product.IsOutOfStock(),
		Active:            product.Active,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}
