package inventory

import (
	"context"
	"fmt"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler turns StockLowLevelReached events into unread stock alerts
type LowStockAlertHandler struct {
	logger      *zap.Logger
	alertRepo   inventory.StockAlertRepository
	productRepo catalog.ProductRepository
}

// NewLowStockAlertHandler creates a new handler for low-stock events
func NewLowStockAlertHandler(logger *zap.Logger, alertRepo inventory.StockAlertRepository, productRepo catalog.ProductRepository) *LowStockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockAlertHandler{
		logger:      logger,
		alertRepo:   alertRepo,
		productRepo: productRepo,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockLowLevelReached}
}

// Handle records a StockAlert for a StockLowLevelReachedEvent
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowEvent, ok := event.(*inventory.StockLowLevelReachedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockLowLevelReached),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockLowLevelReached, event.EventType())
	}

	tenantID := event.TenantID()
	ctx = shared.WithTenantID(ctx, tenantID)

	h.logger.Warn("stock reached reorder level",
		zap.String("tenant_id", tenantID.String()),
		zap.String("stock_id", lowEvent.StockID.String()),
		zap.String("product_id", lowEvent.ProductID.String()),
		zap.String("quantity", lowEvent.Quantity.String()),
		zap.String("reorder_level", lowEvent.ReorderLevel.String()),
	)

	name := lowEvent.ProductID.String()
	product, err := h.productRepo.FindByIDForTenant(ctx, tenantID, lowEvent.ProductID)
	switch {
	case err == nil:
		name = product.Name
	case !shared.IsNotFound(err):
		return fmt.Errorf("load product for alert: %w", err)
	}

	alert := inventory.NewStockAlert(tenantID, lowEvent.StockID, lowEvent.ProductID, name, lowEvent.Quantity, lowEvent.ReorderLevel)
	if err := h.alertRepo.Create(ctx, alert); err != nil {
		h.logger.Error("failed to record stock alert",
			zap.String("stock_id", lowEvent.StockID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("record stock alert: %w", err)
	}
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
