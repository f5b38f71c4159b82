package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
)

// InvoiceDocument is everything printed on a sale invoice
type InvoiceDocument struct {
	Organization *identity.Organization
	Sale         *trade.Sale
	Customer     *trade.Customer
	Payments     []trade.Payment
	PrintedAt    time.Time
}

// InvoiceRenderer turns an invoice into a printable document, usually a PDF
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// SaleService records sales, their payments and invoices
type SaleService struct {
	retryPolicy
	activity
	saleRepo       trade.SaleRepository
	paymentRepo    trade.PaymentRepository
	productRepo    catalog.ProductRepository
	customerRepo   trade.CustomerRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	orgRepo        identity.OrganizationRepository
	renderer       InvoiceRenderer
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo trade.SaleRepository,
	paymentRepo trade.PaymentRepository,
	productRepo catalog.ProductRepository,
	customerRepo trade.CustomerRepository,
	txScope TransactionScope,
) *SaleService {
	return &SaleService{
		retryPolicy:  newRetryPolicy(),
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetInvoiceRenderer enables invoice printing
func (s *SaleService) SetInvoiceRenderer(orgRepo identity.OrganizationRepository, renderer InvoiceRenderer) {
	s.orgRepo = orgRepo
	s.renderer = renderer
}

// CreateSale finalizes a sale: it computes totals and settlement, assigns the
// next invoice number, takes every line out of stock and stores the sale, all
// in one transaction. Lost number races are retried with a fresh number.
func (s *SaleService) CreateSale(ctx context.Context, tenantID, userID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, *req.CustomerID); err != nil {
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

	draft := trade.SaleDraft{
		CustomerID:         req.CustomerID,
		Discount:           req.Discount,
		DiscountPercentage: req.DiscountPercentage,
		Tax:                req.Tax,
		PaidAmount:         req.PaidAmount,
		PaymentMethod:      trade.PaymentMethod(req.PaymentMethod),
		Notes:              req.Notes,
	}
	if req.SaleDate != nil {
		draft.Date = *req.SaleDate
	}
	postings := make([]stockPosting, len(req.Items))
	for i, item := range req.Items {
		product := products[item.ProductID]
		if !product.IsActive {
			return nil, shared.NewValidationError("INVALID_PRODUCT", "Product "+product.Name+" is not for sale")
		}
		unitPrice := product.SellingPrice
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		draft.Lines = append(draft.Lines, trade.SaleLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			Discount:    item.Discount,
			UnitCost:    product.BuyingPrice,
		})
		postings[i] = stockPosting{productID: product.ID, quantity: item.Quantity}
	}

	var sale *trade.Sale
	var stocks []*inventory.Stock
	err = s.run(ctx, "create sale", func() error {
		var err error
		sale, err = trade.NewSale(tenantID, userID, draft)
		if err != nil {
			return err
		}
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			number, err := allocateNumber(ctx, repos, tenantID, trade.DocumentKindSale, sale.SaleDate, repos.SaleRepo().LatestNumber)
			if err != nil {
				return err
			}
			sale.AssignNumber(number)
			if err := repos.SaleRepo().Create(ctx, sale); err != nil {
				return err
			}
			info := inventory.MovementInfo{Reference: number, Notes: "sale " + number, ActorID: userID}
			stocks, err = postStock(ctx, repos, tenantID, postings, info, (*inventory.Stock).Issue)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	publishStockEvents(ctx, s.eventPublisher, stocks)
	s.document(ctx, "sale", sale.GrandTotal)

	resp := ToSaleResponse(sale)
	return &resp, nil
}

// ApplyPayment records money received against a sale and re-derives its due
// amount, change and status. Payments beyond what is due become change.
func (s *SaleService) ApplyPayment(ctx context.Context, tenantID, userID, saleID uuid.UUID, req ApplyPaymentRequest) (*PaymentResultResponse, error) {
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

	var sale *trade.Sale
	var payment *trade.Payment
	err := s.run(ctx, "apply payment", func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			sale, err = repos.SaleRepo().FindByIDForUpdate(ctx, tenantID, saleID)
			if err != nil {
				return err
			}
			payment, err = sale.RecordPayment(input)
			if err != nil {
				return err
			}
			if err := repos.PaymentRepo().CreatePayment(ctx, payment); err != nil {
				return fmt.Errorf("record payment: %w", err)
			}
			return repos.SaleRepo().Save(ctx, sale)
		})
	})
	if err != nil {
		return nil, err
	}

	s.payment(ctx, "sale", payment.Amount)

	return &PaymentResultResponse{
		Payment:       ToPaymentResponse(payment),
		PaidAmount:    sale.PaidAmount,
		DueAmount:     sale.DueAmount,
		ChangeAmount:  sale.ChangeAmount,
		PaymentStatus: string(sale.PaymentStatus),
	}, nil
}

// GetByID retrieves a sale with its items
func (s *SaleService) GetByID(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// List retrieves a page of sales, newest first
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) ([]SaleResponse, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	sales, total, err := s.saleRepo.FindAllForTenant(ctx, tenantID, toFilter(filter, "sale_date"))
	if err != nil {
		return nil, 0, err
	}
	return ToSaleResponses(sales), total, nil
}

// ListPayments returns the payments received against a sale
func (s *SaleService) ListPayments(ctx context.Context, tenantID, saleID uuid.UUID) ([]PaymentResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	if _, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindBySale(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out, nil
}

// RenderInvoice prints a sale invoice
func (s *SaleService) RenderInvoice(ctx context.Context, tenantID, saleID uuid.UUID) ([]byte, error) {
	if s.renderer == nil || s.orgRepo == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Invoice printing is not configured")
	}
	ctx = shared.WithTenantID(ctx, tenantID)

	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	doc := &InvoiceDocument{Organization: org, Sale: sale, PrintedAt: time.Now().UTC()}
	if sale.CustomerID != nil {
		customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, *sale.CustomerID)
		if err != nil && !shared.IsNotFound(err) {
			return nil, err
		}
		doc.Customer = customer
	}
	if doc.Payments, err = s.paymentRepo.FindBySale(ctx, tenantID, saleID); err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderInvoice(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", sale.InvoiceNumber, err)
	}
	return pdf, nil
}
