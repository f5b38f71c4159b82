package trade

import (
	"context"
	"fmt"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
)

// PurchaseService records purchases from suppliers and payments against them
type PurchaseService struct {
	retryPolicy
	activity
	purchaseRepo   trade.PurchaseRepository
	paymentRepo    trade.PaymentRepository
	productRepo    catalog.ProductRepository
	supplierRepo   trade.SupplierRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo trade.PurchaseRepository,
	paymentRepo trade.PaymentRepository,
	productRepo catalog.ProductRepository,
	supplierRepo trade.SupplierRepository,
	txScope TransactionScope,
) *PurchaseService {
	return &PurchaseService{
		retryPolicy:  newRetryPolicy(),
		purchaseRepo: purchaseRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreatePurchase finalizes a purchase: it computes totals and settlement,
// assigns the next purchase number, adds every line to stock and stores the
// purchase, all in one transaction.
func (s *PurchaseService) CreatePurchase(ctx context.Context, tenantID, userID uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, *req.SupplierID); err != nil {
			return nil, err
		}
	}

	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.ProductID
	}
	products, err := loadProducts(ctx, s.productRepo, tenantID, ids)
	if err != nil {
		return nil, err
	}

	draft := trade.PurchaseDraft{
		SupplierID:    req.SupplierID,
		Discount:      req.Discount,
		ShippingCost:  req.ShippingCost,
		Tax:           req.Tax,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: trade.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	}
	if req.PurchaseDate != nil {
		draft.Date = *req.PurchaseDate
	}
	postings := make([]stockPosting, len(req.Items))
	for i, item := range req.Items {
		product := products[item.ProductID]
		unitPrice := product.BuyingPrice
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		draft.Lines = append(draft.Lines, trade.PurchaseLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
		})
		postings[i] = stockPosting{productID: product.ID, quantity: item.Quantity}
	}

	var purchase *trade.Purchase
	var stocks []*inventory.Stock
	err = s.run(ctx, "create purchase", func() error {
		var err error
		purchase, err = trade.NewPurchase(tenantID, userID, draft)
		if err != nil {
			return err
		}
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			number, err := allocateNumber(ctx, repos, tenantID, trade.DocumentKindPurchase, purchase.PurchaseDate, repos.PurchaseRepo().LatestNumber)
			if err != nil {
				return err
			}
			purchase.AssignNumber(number)
			if err := repos.PurchaseRepo().Create(ctx, purchase); err != nil {
				return err
			}
			info := inventory.MovementInfo{Reference: number, Notes: "purchase " + number, ActorID: userID}
			stocks, err = postStock(ctx, repos, tenantID, postings, info, (*inventory.Stock).Receive)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	publishStockEvents(ctx, s.eventPublisher, stocks)
	s.document(ctx, "purchase", purchase.GrandTotal)

	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// ApplyPayment records money paid to the supplier. Paying more than is due
// fails with OVERPAYMENT.
func (s *PurchaseService) ApplyPayment(ctx context.Context, tenantID, userID, purchaseID uuid.UUID, req ApplyPaymentRequest) (*PaymentResultResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	input := trade.PaymentInput{
		Amount:    req.Amount,
		Method:    trade.PaymentMethod(req.PaymentMethod),
		Reference: req.Reference,
		Notes:     req.Notes,
		ActorID:   userID,
	}
	if req.PaymentDate != nil {
		input.Date = *req.PaymentDate
	}

	var purchase *trade.Purchase
	var payment *trade.SupplierPayment
	err := s.run(ctx, "apply payment", func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			purchase, err = repos.PurchaseRepo().FindByIDForUpdate(ctx, tenantID, purchaseID)
			if err != nil {
				return err
			}
			payment, err = purchase.RecordPayment(input)
			if err != nil {
				return err
			}
			if err := repos.PaymentRepo().CreateSupplierPayment(ctx, payment); err != nil {
				return fmt.Errorf("record payment: %w", err)
			}
			return repos.PurchaseRepo().Save(ctx, purchase)
		})
	})
	if err != nil {
		return nil, err
	}

	s.payment(ctx, "purchase", payment.Amount)

	return &PaymentResultResponse{
		Payment:       ToSupplierPaymentResponse(payment),
		PaidAmount:    purchase.PaidAmount,
		DueAmount:     purchase.DueAmount,
		PaymentStatus: string(purchase.PaymentStatus),
	}, nil
}

// GetByID retrieves a purchase with its items
func (s *PurchaseService) GetByID(ctx context.Context, tenantID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// List retrieves a page of purchases, newest first
func (s *PurchaseService) List(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) ([]PurchaseResponse, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	purchases, total, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, toFilter(filter, "purchase_date"))
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseResponses(purchases), total, nil
}

// ListPayments returns the payments made against a purchase
func (s *PurchaseService) ListPayments(ctx context.Context, tenantID, purchaseID uuid.UUID) ([]PaymentResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	if _, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindByPurchase(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToSupplierPaymentResponse(&payments[i])
	}
	return out, nil
}
