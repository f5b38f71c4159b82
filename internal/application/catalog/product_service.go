package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// skuAttempts bounds the retries of a generated SKU that lost a race
const skuAttempts = 3

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	txScope      TransactionScope
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	txScope TransactionScope,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		txScope:      txScope,
	}
}

// Create creates a product together with its stock row. A blank SKU is
// generated as the next number under the category prefix; a positive initial
// stock is recorded as an inbound movement.
func (s *ProductService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	if req.InitialStock.IsNegative() {
		return nil, shared.NewValidationError(shared.CodeInvalidQuantity, "Initial stock cannot be negative")
	}
	reorderLevel := inventory.DefaultReorderLevel
	if req.ReorderLevel != nil {
		reorderLevel = *req.ReorderLevel
	}

	prefix := catalog.DefaultSKUPrefix
	if req.CategoryID != nil {
		category, err := s.lookupCategory(ctx, tenantID, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		prefix = category.SKUPrefix()
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.BuyingPrice, req.SellingPrice)
	if err != nil {
		return nil, err
	}
	if err := product.UpdateDetails(req.Name, req.Description, req.Barcode); err != nil {
		return nil, err
	}
	product.SetCategory(req.CategoryID)
	product.SetPaperSpec(req.UnitID, req.GSMTypeID, req.PaperSizeID)

	generated := req.SKU == ""
	if !generated {
		if err := product.AssignSKU(req.SKU); err != nil {
			return nil, err
		}
		exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, product.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "SKU already in use")
		}
	}

	attempts := 1
	if generated {
		attempts = skuAttempts
	}
	for attempt := 1; ; attempt++ {
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			if generated {
				last, err := repos.ProductRepo().LatestSKU(ctx, tenantID, prefix)
				if err != nil {
					return fmt.Errorf("latest sku: %w", err)
				}
				if err := product.AssignSKU(catalog.NextSKU(prefix, last)); err != nil {
					return err
				}
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
			return s.openStock(ctx, repos, product, userID, req.InitialStock, reorderLevel)
		})
		if err == nil || attempt >= attempts || shared.CodeOf(err) != shared.CodeAlreadyExists {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) openStock(ctx context.Context, repos TransactionalRepositories, product *catalog.Product, userID uuid.UUID, initial, reorderLevel decimal.Decimal) error {
	stock, err := inventory.NewStock(product.TenantID, product.ID, reorderLevel)
	if err != nil {
		return err
	}
	var movement *inventory.StockMovement
	if initial.IsPositive() {
		movement, err = stock.Receive(initial, inventory.MovementInfo{Reference: "initial stock", ActorID: userID})
		if err != nil {
			return err
		}
	}
	stock.ClearDomainEvents()
	if err := repos.StockRepo().Save(ctx, stock); err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	if movement == nil {
		return nil
	}
	return repos.MovementRepo().Create(ctx, movement)
}

// Update changes the given fields of a product
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Barcode != nil {
		name, description, barcode := product.Name, product.Description, product.Barcode
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Barcode != nil {
			barcode = *req.Barcode
		}
		if err := product.UpdateDetails(name, description, barcode); err != nil {
			return nil, err
		}
	}

	if req.BuyingPrice != nil || req.SellingPrice != nil {
		buying, selling := product.BuyingPrice, product.SellingPrice
		if req.BuyingPrice != nil {
			buying = *req.BuyingPrice
		}
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		if err := product.SetPrices(buying, selling); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.lookupCategory(ctx, tenantID, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.UnitID != nil || req.GSMTypeID != nil || req.PaperSizeID != nil {
		unitID, gsmID, sizeID := product.UnitID, product.GSMTypeID, product.PaperSizeID
		if req.UnitID != nil {
			unitID = req.UnitID
		}
		if req.GSMTypeID != nil {
			gsmID = req.GSMTypeID
		}
		if req.PaperSizeID != nil {
			sizeID = req.PaperSizeID
		}
		product.SetPaperSpec(unitID, gsmID, sizeID)
	}

	product.IncrementVersion()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Deactivate hides a product from sale. Its history is kept.
func (s *ProductService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID) error {
	ctx = shared.WithTenantID(ctx, tenantID)

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return nil
	}
	product.Deactivate()
	product.IncrementVersion()
	return s.productRepo.Save(ctx, product)
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	domainFilter.Search = filter.Search
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
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.ActiveOnly {
		domainFilter.Filters["is_active"] = true
	}

	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

func (s *ProductService) lookupCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("INVALID_CATEGORY", "Category not found")
		}
		return nil, err
	}
	return category, nil
}
