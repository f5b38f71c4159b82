package trade

import (
	"context"

	"github.com/dokan/papershop/internal/domain/report"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
)

// CustomerSummaryReader totals a customer's sales
type CustomerSummaryReader interface {
	CustomerSummary(ctx context.Context, tenantID, customerID uuid.UUID) (report.CustomerSummary, error)
}

// PartyService manages customers and suppliers
type PartyService struct {
	customerRepo trade.CustomerRepository
	supplierRepo trade.SupplierRepository
	summaries    CustomerSummaryReader
}

// NewPartyService creates a new PartyService
func NewPartyService(customerRepo trade.CustomerRepository, supplierRepo trade.SupplierRepository, summaries CustomerSummaryReader) *PartyService {
	return &PartyService{
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		summaries:    summaries,
	}
}

func (r CreatePartyRequest) contact() trade.Contact {
	return trade.Contact{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
		Company: r.Company,
		Notes:   r.Notes,
	}
}

func (f PartyListFilter) domain() shared.Filter {
	filter := sharedFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir, "name")
	if f.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	filter.Search = f.Search
	if f.ActiveOnly {
		filter.Filters["is_active"] = true
	}
	return filter
}

// CreateCustomer creates a customer
func (s *PartyService) CreateCustomer(ctx context.Context, tenantID uuid.UUID, req CreatePartyRequest) (*PartyResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	customer, err := trade.NewCustomer(tenantID, req.contact())
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetCustomer returns a customer with their total purchases and total due
func (s *PartyService) GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerDetailResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summaries.CustomerSummary(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerDetailResponse{
		PartyResponse:  ToCustomerResponse(customer),
		SaleCount:      summary.SaleCount,
		TotalPurchases: summary.TotalPurchases,
		TotalDue:       summary.TotalDue,
	}, nil
}

// ListCustomers returns a page of customers by name
func (s *PartyService) ListCustomers(ctx context.Context, tenantID uuid.UUID, filter PartyListFilter) ([]PartyResponse, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	customers, total, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter.domain())
	if err != nil {
		return nil, 0, err
	}
	out := make([]PartyResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out, total, nil
}

// CreateSupplier creates a supplier
func (s *PartyService) CreateSupplier(ctx context.Context, tenantID uuid.UUID, req CreatePartyRequest) (*PartyResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	supplier, err := trade.NewSupplier(tenantID, req.contact())
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetSupplier returns a supplier
func (s *PartyService) GetSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*PartyResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// ListSuppliers returns a page of suppliers by name
func (s *PartyService) ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter PartyListFilter) ([]PartyResponse, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	suppliers, total, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter.domain())
	if err != nil {
		return nil, 0, err
	}
	out := make([]PartyResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out, total, nil
}
