package catalog

import (
	"context"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
)

// TransactionScope runs product writes that also touch stock in one transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	StockRepo() inventory.StockRepository
	MovementRepo() inventory.StockMovementRepository
}
