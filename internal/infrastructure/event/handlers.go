package event

import (
	"context"

	"github.com/botecopos/backend/internal/domain/catalog"
	"github.com/botecopos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler logs a warning whenever a product falls to its
// low-stock threshold, so a restock run can be planned from the logs
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger.Named("lowstock")}
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockBelowThreshold}
}

// Handle logs the low stock warning
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("product is running low",
		zap.String("product_id", e.ProductID.String()),
		zap.String("name", e.Name),
		zap.Int("quantity", e.Quantity),
		zap.Int("threshold", e.Threshold),
	)
	return nil
}

var _ Handler = (*LowStockAlertHandler)(nil)
