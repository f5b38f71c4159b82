package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
)

// StockService handles stock levels, adjustments and low-stock alerts
type StockService struct {
	stockRepo      inventory.StockRepository
	movementRepo   inventory.StockMovementRepository
	alertRepo      inventory.StockAlertRepository
	productRepo    catalog.ProductRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(
	stockRepo inventory.StockRepository,
	movementRepo inventory.StockMovementRepository,
	alertRepo inventory.StockAlertRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
) *StockService {
	return &StockService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		alertRepo:    alertRepo,
		productRepo:  productRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AdjustStock applies a manual add, remove, set or return to one product's
// stock and records the movement in the same transaction.
func (s *StockService) AdjustStock(ctx context.Context, tenantID, userID uuid.UUID, req AdjustStockRequest) (*AdjustStockResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	info := inventory.MovementInfo{Reference: req.Reference, Notes: req.Notes, ActorID: userID}
	if info.Reference == "" {
		info.Reference = "manual adjustment"
	}

	var stock *inventory.Stock
	var movement *inventory.StockMovement
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = repos.StockRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID)
		if err != nil {
			return err
		}
		if req.Mode == AdjustModeReturn {
			movement, err = stock.Return(req.Quantity, info)
		} else {
			movement, err = stock.Adjust(inventory.AdjustMode(req.Mode), req.Quantity, info)
		}
		if err != nil {
			return err
		}
		if err := repos.StockRepo().Save(ctx, stock); err != nil {
			return fmt.Errorf("save stock: %w", err)
		}
		return repos.MovementRepo().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, stock)

	return &AdjustStockResponse{
		Stock:    ToStockResponse(stock, product),
		Movement: ToMovementResponse(movement),
	}, nil
}

// SetReorderLevel changes the low-stock threshold of a product
func (s *StockService) SetReorderLevel(ctx context.Context, tenantID, productID uuid.UUID, req SetReorderLevelRequest) (*StockResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	var stock *inventory.Stock
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = repos.StockRepo().GetOrCreateForUpdate(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		if err := stock.SetReorderLevel(req.ReorderLevel); err != nil {
			return err
		}
		return repos.StockRepo().Save(ctx, stock)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, stock)

	resp := ToStockResponse(stock, product)
	return &resp, nil
}

// GetByProduct returns the stock row of a product
func (s *StockService) GetByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*StockResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	stock, err := s.stockRepo.FindByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	resp := ToStockResponse(stock, product)
	return &resp, nil
}

// List returns a page of stock rows
func (s *StockService) List(ctx context.Context, tenantID uuid.UUID, filter StockListFilter) ([]StockResponse, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "updated_at"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}

	stocks, total, err := s.stockRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses, err := s.withProducts(ctx, tenantID, stocks)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// ListLowStock returns every stock row at or below its reorder level
func (s *StockService) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]StockResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	stocks, err := s.stockRepo.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(ctx, tenantID, stocks)
}

// ListMovements returns the movement audit trail
func (s *StockService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	domainFilter := inventory.MovementFilter{
		Filter:       shared.DefaultFilter(),
		ProductID:    filter.ProductID,
		MovementType: inventory.MovementType(filter.MovementType),
		Reference:    filter.Reference,
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.From = filter.From
	if filter.To != nil {
		// the repository bound is exclusive; include the whole To day
		end := filter.To.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
		domainFilter.To = &end
	}

	movements, total, err := s.movementRepo.FindForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// ListAlerts returns low-stock alerts, newest first
func (s *StockService) ListAlerts(ctx context.Context, tenantID uuid.UUID, unreadOnly bool) ([]AlertResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	alerts, err := s.alertRepo.FindForTenant(ctx, tenantID, unreadOnly)
	if err != nil {
		return nil, err
	}
	return ToAlertResponses(alerts), nil
}

// MarkAlertsRead marks every unread alert as read and returns how many changed
func (s *StockService) MarkAlertsRead(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	return s.alertRepo.MarkAllRead(ctx, tenantID)
}

func (s *StockService) withProducts(ctx context.Context, tenantID uuid.UUID, stocks []inventory.Stock) ([]StockResponse, error) {
	ids := make([]uuid.UUID, len(stocks))
	for i, st := range stocks {
		ids[i] = st.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	out := make([]StockResponse, len(stocks))
	for i := range stocks {
		out[i] = ToStockResponse(&stocks[i], byID[stocks[i].ProductID])
	}
	return out, nil
}

// publishDomainEvents publishes pending stock events once the transaction has committed
func (s *StockService) publishDomainEvents(ctx context.Context, stock *inventory.Stock) {
	if s.eventPublisher == nil || stock == nil {
		return
	}
	events := stock.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	stock.ClearDomainEvents()
}
