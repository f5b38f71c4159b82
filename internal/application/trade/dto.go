package trade

import (
	"time"

	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Requests =====================

// PurchaseLineInput is one product line of a purchase request. A missing unit
// price defaults to the product's buying price.
type PurchaseLineInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
}

// CreatePurchaseRequest represents a request to record a purchase
type CreatePurchaseRequest struct {
	SupplierID    *uuid.UUID          `json:"supplier_id"`
	Items         []PurchaseLineInput `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal     `json:"discount" binding:"gte=0"`
	ShippingCost  decimal.Decimal     `json:"shipping_cost" binding:"gte=0"`
	Tax           decimal.Decimal     `json:"tax" binding:"gte=0"`
	PaidAmount    decimal.Decimal     `json:"paid_amount" binding:"gte=0"`
	PaymentMethod string              `json:"payment_method" binding:"omitempty,oneof=cash card mobile bank credit"`
	Notes         string              `json:"notes" binding:"max=2000"`
	PurchaseDate  *time.Time          `json:"purchase_date"`
}

// SaleLineInput is one product line of a sale request. A missing unit price
// defaults to the product's selling price.
type SaleLineInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
	Discount  decimal.Decimal  `json:"discount" binding:"gte=0"`
}

// CreateSaleRequest represents a request to record a sale
type CreateSaleRequest struct {
	CustomerID         *uuid.UUID      `json:"customer_id"`
	Items              []SaleLineInput `json:"items" binding:"required,min=1,dive"`
	Discount           decimal.Decimal `json:"discount" binding:"gte=0"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" binding:"gte=0,lte=100"`
	Tax                decimal.Decimal `json:"tax" binding:"gte=0"`
	PaidAmount         decimal.Decimal `json:"paid_amount" binding:"gte=0"`
	PaymentMethod      string          `json:"payment_method" binding:"omitempty,oneof=cash card mobile bank credit"`
	Notes              string          `json:"notes" binding:"max=2000"`
	SaleDate           *time.Time      `json:"sale_date"`
}

// ApplyPaymentRequest represents a payment against a sale or purchase
type ApplyPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"gt=0"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=cash card mobile bank credit"`
	Reference     string          `json:"reference" binding:"max=100"`
	Notes         string          `json:"notes" binding:"max=2000"`
	PaymentDate   *time.Time      `json:"payment_date"`
}

// TransactionListFilter represents filter options for sale and purchase lists
type TransactionListFilter struct {
	Search        string     `form:"search"`
	PartyID       *uuid.UUID `form:"party_id"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=paid partial unpaid"`
	DueOnly       bool       `form:"due_only"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"min=0"`
	PageSize      int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreatePartyRequest represents a request to create a customer or supplier
type CreatePartyRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Address string `json:"address" binding:"max=2000"`
	Company string `json:"company" binding:"max=200"`
	Notes   string `json:"notes" binding:"max=2000"`
}

// PartyListFilter represents filter options for customer and supplier lists
type PartyListFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ===================== Responses =====================

// PurchaseItemResponse represents a purchase line in API responses
type PurchaseItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID             uuid.UUID              `json:"id"`
	PurchaseNumber string                 `json:"purchase_number"`
	SupplierID     *uuid.UUID             `json:"supplier_id"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	TaxAmount      decimal.Decimal        `json:"tax_amount"`
	ShippingCost   decimal.Decimal        `json:"shipping_cost"`
	GrandTotal     decimal.Decimal        `json:"grand_total"`
	PaidAmount     decimal.Decimal        `json:"paid_amount"`
	DueAmount      decimal.Decimal        `json:"due_amount"`
	PaymentStatus  string                 `json:"payment_status"`
	PaymentMethod  string                 `json:"payment_method"`
	Notes          string                 `json:"notes"`
	PurchaseDate   time.Time              `json:"purchase_date"`
	Items          []PurchaseItemResponse `json:"items,omitempty"`
	CreatedBy      *uuid.UUID             `json:"created_by,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	Version        int                    `json:"version"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID                 uuid.UUID          `json:"id"`
	InvoiceNumber      string             `json:"invoice_number"`
	CustomerID         *uuid.UUID         `json:"customer_id"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	TaxAmount          decimal.Decimal    `json:"tax_amount"`
	GrandTotal         decimal.Decimal    `json:"grand_total"`
	PaidAmount         decimal.Decimal    `json:"paid_amount"`
	DueAmount          decimal.Decimal    `json:"due_amount"`
	ChangeAmount       decimal.Decimal    `json:"change_amount"`
	PaymentStatus      string             `json:"payment_status"`
	PaymentMethod      string             `json:"payment_method"`
	Notes              string             `json:"notes"`
	SaleDate           time.Time          `json:"sale_date"`
	Items              []SaleItemResponse `json:"items,omitempty"`
	CreatedBy          *uuid.UUID         `json:"created_by,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	Version            int                `json:"version"`
}

// PaymentResponse represents one payment record in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes"`
	RecordedBy    *uuid.UUID      `json:"recorded_by,omitempty"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// PaymentResultResponse is the outcome of apply-payment: the payment record
// and the re-derived settlement of its parent.
type PaymentResultResponse struct {
	Payment       PaymentResponse `json:"payment"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	ChangeAmount  decimal.Decimal `json:"change_amount"`
	PaymentStatus string          `json:"payment_status"`
}

// PartyResponse represents a customer or supplier in API responses
type PartyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Company   string    `json:"company"`
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerDetailResponse is a customer with their lifetime totals
type CustomerDetailResponse struct {
	PartyResponse
	SaleCount      int64           `json:"sale_count"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalDue       decimal.Decimal `json:"total_due"`
}

// ===================== Converters =====================

// ToPurchaseResponse converts a domain Purchase to PurchaseResponse
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:             p.ID,
		PurchaseNumber: p.PurchaseNumber,
		SupplierID:     p.SupplierID,
		Subtotal:       p.Subtotal,
		DiscountAmount: p.DiscountAmount,
		TaxAmount:      p.TaxAmount,
		ShippingCost:   p.ShippingCost,
		GrandTotal:     p.GrandTotal,
		PaidAmount:     p.PaidAmount,
		DueAmount:      p.DueAmount,
		PaymentStatus:  string(p.PaymentStatus),
		PaymentMethod:  string(p.PaymentMethod),
		Notes:          p.Notes,
		PurchaseDate:   p.PurchaseDate,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		Version:        p.Version,
	}
	for _, item := range p.Items {
		resp.Items = append(resp.Items, PurchaseItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}
	return resp
}

// ToPurchaseResponses converts a slice of purchases
func ToPurchaseResponses(purchases []trade.Purchase) []PurchaseResponse {
	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *trade.Sale) SaleResponse {
	resp := SaleResponse{
		ID:                 s.ID,
		InvoiceNumber:      s.InvoiceNumber,
		CustomerID:         s.CustomerID,
		Subtotal:           s.Subtotal,
		DiscountAmount:     s.DiscountAmount,
		DiscountPercentage: s.DiscountPercentage,
		TaxAmount:          s.TaxAmount,
		GrandTotal:         s.GrandTotal,
		PaidAmount:         s.PaidAmount,
		DueAmount:          s.DueAmount,
		ChangeAmount:       s.ChangeAmount,
		PaymentStatus:      string(s.PaymentStatus),
		PaymentMethod:      string(s.PaymentMethod),
		Notes:              s.Notes,
		SaleDate:           s.SaleDate,
		CreatedBy:          s.CreatedBy,
		CreatedAt:          s.CreatedAt,
		Version:            s.Version,
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			UnitCost:    item.UnitCost,
			Total:       item.Total,
		})
	}
	return resp
}

// ToSaleResponses converts a slice of sales
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}

// ToPaymentResponse converts a customer payment
func ToPaymentResponse(p *trade.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TransactionID: p.SaleID,
		Amount:        p.Amount,
		PaymentMethod: string(p.PaymentMethod),
		Reference:     p.Reference,
		Notes:         p.Notes,
		RecordedBy:    p.ReceivedBy,
		PaymentDate:   p.PaymentDate,
	}
}

// ToSupplierPaymentResponse converts a supplier payment
func ToSupplierPaymentResponse(p *trade.SupplierPayment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TransactionID: p.PurchaseID,
		Amount:        p.Amount,
		PaymentMethod: string(p.PaymentMethod),
		Reference:     p.Reference,
		Notes:         p.Notes,
		RecordedBy:    p.PaidBy,
		PaymentDate:   p.PaymentDate,
	}
}

func toPartyResponse(id uuid.UUID, c trade.Contact, active bool, createdAt time.Time) PartyResponse {
	return PartyResponse{
		ID:        id,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Company:   c.Company,
		Notes:     c.Notes,
		IsActive:  active,
		CreatedAt: createdAt,
	}
}

// ToCustomerResponse converts a domain Customer
func ToCustomerResponse(c *trade.Customer) PartyResponse {
	return toPartyResponse(c.ID, c.Contact, c.IsActive, c.CreatedAt)
}

// ToSupplierResponse converts a domain Supplier
func ToSupplierResponse(s *trade.Supplier) PartyResponse {
	return toPartyResponse(s.ID, s.Contact, s.IsActive, s.CreatedAt)
}

func toFilter(f TransactionListFilter, defaultOrder string) trade.TransactionFilter {
	filter := trade.TransactionFilter{
		Filter:        sharedFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir, defaultOrder),
		PartyID:       f.PartyID,
		PaymentStatus: trade.PaymentStatus(f.PaymentStatus),
		DueOnly:       f.DueOnly,
	}
	filter.Search = f.Search
	filter.From = f.From
	if f.To != nil {
		// include the whole To day
		end := f.To.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
		filter.To = &end
	}
	return filter
}
