package catalog

import (
	"context"
	"strings"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category. Names are unique per shop, ignoring case.
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	existing, err := s.categoryRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if strings.EqualFold(existing[i].Name, strings.TrimSpace(req.Name)) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Category with this name already exists")
		}
	}

	category, err := catalog.NewCategory(tenantID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, tenantID, categoryID uuid.UUID) (*CategoryResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List returns every category of the shop by name
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID) ([]CategoryResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}
