package trade

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxRetries is how many times a create is attempted when it loses a
// document-number or serialization race
const DefaultMaxRetries = 3

// retryPolicy re-runs a whole transaction on retryable conflicts
type retryPolicy struct {
	maxRetries int
	logger     *zap.Logger
}

func newRetryPolicy() retryPolicy {
	return retryPolicy{maxRetries: DefaultMaxRetries, logger: zap.NewNop()}
}

// SetMaxRetries sets the attempt budget for racing creates
func (p *retryPolicy) SetMaxRetries(n int) {
	if n > 0 {
		p.maxRetries = n
	}
}

// SetLogger sets the logger used to report retries
func (p *retryPolicy) SetLogger(logger *zap.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

func (p *retryPolicy) run(ctx context.Context, operation string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		if err = fn(); err == nil || !shared.IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn("Retrying transaction",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return shared.NewDomainError(shared.CodeConflict,
		fmt.Sprintf("Could not %s after %d attempts: %s", operation, p.maxRetries, err.Error()))
}

// ActivityRecorder observes committed trade documents and payments
type ActivityRecorder interface {
	RecordDocument(ctx context.Context, kind string, grandTotal decimal.Decimal)
	RecordPayment(ctx context.Context, kind string, amount decimal.Decimal)
}

type activity struct {
	recorder ActivityRecorder
}

// SetRecorder sets the observer of committed sales, purchases and payments
func (a *activity) SetRecorder(recorder ActivityRecorder) {
	a.recorder = recorder
}

func (a *activity) document(ctx context.Context, kind string, grandTotal decimal.Decimal) {
	if a.recorder != nil {
		a.recorder.RecordDocument(ctx, kind, grandTotal)
	}
}

func (a *activity) payment(ctx context.Context, kind string, amount decimal.Decimal) {
	if a.recorder != nil {
		a.recorder.RecordPayment(ctx, kind, amount)
	}
}

type latestNumberFunc func(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)

// allocateNumber advances the day counter for kind inside the caller's
// transaction. The first use of a prefix is seeded from the highest number
// already stored under it.
func allocateNumber(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, kind trade.DocumentKind, txDate time.Time, latest latestNumberFunc) (string, error) {
	prefix := trade.NumberPrefix(kind, txDate)
	last, err := latest(ctx, tenantID, prefix)
	if err != nil {
		return "", fmt.Errorf("latest number: %w", err)
	}
	seed, _ := shared.ParseSequence(prefix, last)
	n, err := repos.SequenceRepo().Next(ctx, tenantID, prefix, seed)
	if err != nil {
		return "", fmt.Errorf("next number: %w", err)
	}
	return trade.FormatNumber(prefix, n), nil
}

// loadProducts returns the tenant's products by ID, failing with NotFound if
// any requested product does not exist.
func loadProducts(ctx context.Context, repo catalog.ProductRepository, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}
	products, err := repo.FindByIDs(ctx, tenantID, unique)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range unique {
		if _, ok := byID[id]; !ok {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Product "+id.String()+" not found")
		}
	}
	return byID, nil
}

// stockPosting is one line's effect on stock
type stockPosting struct {
	productID uuid.UUID
	quantity  decimal.Decimal
}

type stockApply func(stock *inventory.Stock, quantity decimal.Decimal, info inventory.MovementInfo) (*inventory.StockMovement, error)

// postStock locks and mutates the stock row of every posting and writes one
// movement per posting. Rows are locked in product ID order so two documents
// touching the same products cannot deadlock.
func postStock(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, postings []stockPosting, info inventory.MovementInfo, apply stockApply) ([]*inventory.Stock, error) {
	order := make([]int, len(postings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := postings[order[a]].productID, postings[order[b]].productID
		return bytes.Compare(pa[:], pb[:]) < 0
	})

	movements := make([]*inventory.StockMovement, len(postings))
	stocks := make([]*inventory.Stock, 0, len(postings))
	for _, i := range order {
		p := postings[i]
		stock, err := repos.StockRepo().GetOrCreateForUpdate(ctx, tenantID, p.productID)
		if err != nil {
			return nil, fmt.Errorf("lock stock: %w", err)
		}
		movement, err := apply(stock, p.quantity, info)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := repos.StockRepo().Save(ctx, stock); err != nil {
			return nil, fmt.Errorf("save stock: %w", err)
		}
		movements[i] = movement
		stocks = append(stocks, stock)
	}
	if err := repos.MovementRepo().CreateBatch(ctx, movements); err != nil {
		return nil, fmt.Errorf("record movements: %w", err)
	}
	return stocks, nil
}

// publishStockEvents publishes pending stock events once the transaction has committed
func publishStockEvents(ctx context.Context, publisher shared.EventPublisher, stocks []*inventory.Stock) {
	if publisher == nil {
		return
	}
	for _, stock := range stocks {
		events := stock.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		// Publish errors are logged by the event bus, not propagated
		_ = publisher.Publish(ctx, events...)
		stock.ClearDomainEvents()
	}
}

func sharedFilter(page, pageSize int, orderBy, orderDir, defaultOrder string) shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = defaultOrder
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}
