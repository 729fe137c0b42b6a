package sales

import (
	"context"
	"time"

	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its items and payments
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByIDForUpdate finds a sale by ID holding a row lock on the sale
	// header for the duration of the enclosing transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindOpenByClient finds the client's open sales, oldest first
	FindOpenByClient(ctx context.Context, clientID uuid.UUID) ([]Sale, error)

	// FindByStatus finds sales in the given status matching the filter
	FindByStatus(ctx context.Context, status SaleStatus, filter shared.Filter) ([]Sale, error)

	// FindByPeriod finds finalized sales updated within [start, end)
	FindByPeriod(ctx context.Context, start, end time.Time) ([]Sale, error)

	// FindAll finds all sales matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// Save creates or updates a sale together with its items and payments,
	// deleting item rows that were removed from the aggregate
	Save(ctx context.Context, sale *Sale) error

	// Delete removes a sale and cascades to its items and payments
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
