package trade

import (
	"context"

	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/trade"
)

// TransactionScope runs a purchase, sale or payment as one database transaction
type TransactionScope interface {
	// Execute runs fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction
type TransactionalRepositories interface {
	PurchaseRepo() trade.PurchaseRepository
	SaleRepo() trade.SaleRepository
	PaymentRepo() trade.PaymentRepository
	SequenceRepo() trade.SequenceRepository
	StockRepo() inventory.StockRepository
	MovementRepo() inventory.StockMovementRepository
}
