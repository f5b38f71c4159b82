package catalog

import (
	"context"
	"strings"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
)

// ReferenceService serves units, GSM grades and paper sizes. Reads return the
// global rows plus the shop's own; writes always create shop-scoped rows.
type ReferenceService struct {
	repo catalog.ReferenceDataRepository
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(repo catalog.ReferenceDataRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

// GetAll returns the three reference lists at once
func (s *ReferenceService) GetAll(ctx context.Context, tenantID uuid.UUID) (*ReferenceDataResponse, error) {
	units, err := s.ListUnits(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	grades, err := s.ListGSMTypes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sizes, err := s.ListPaperSizes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &ReferenceDataResponse{Units: units, GSMTypes: grades, PaperSizes: sizes}, nil
}

// ListUnits returns the units visible to the shop
func (s *ReferenceService) ListUnits(ctx context.Context, tenantID uuid.UUID) ([]ReferenceResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	units, err := s.repo.ListUnits(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]ReferenceResponse, len(units))
	for i := range units {
		out[i] = unitResponse(&units[i])
	}
	return out, nil
}

// ListGSMTypes returns the GSM grades visible to the shop
func (s *ReferenceService) ListGSMTypes(ctx context.Context, tenantID uuid.UUID) ([]ReferenceResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	grades, err := s.repo.ListGSMTypes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]ReferenceResponse, len(grades))
	for i := range grades {
		out[i] = gsmResponse(&grades[i])
	}
	return out, nil
}

// ListPaperSizes returns the paper sizes visible to the shop
func (s *ReferenceService) ListPaperSizes(ctx context.Context, tenantID uuid.UUID) ([]ReferenceResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	sizes, err := s.repo.ListPaperSizes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]ReferenceResponse, len(sizes))
	for i := range sizes {
		out[i] = paperSizeResponse(&sizes[i])
	}
	return out, nil
}

// CreateUnit adds a unit owned by the shop
func (s *ReferenceService) CreateUnit(ctx context.Context, tenantID uuid.UUID, req CreateUnitRequest) (*ReferenceResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	unit, err := catalog.NewUnit(shared.ScopedTo(tenantID), strings.TrimSpace(req.Name), strings.TrimSpace(req.ShortName))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveUnit(ctx, unit); err != nil {
		return nil, err
	}
	resp := unitResponse(unit)
	return &resp, nil
}

// CreateGSMType adds a GSM grade owned by the shop
func (s *ReferenceService) CreateGSMType(ctx context.Context, tenantID uuid.UUID, req CreateGSMTypeRequest) (*ReferenceResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	grade, err := catalog.NewGSMType(shared.ScopedTo(tenantID), req.Value, strings.TrimSpace(req.Description))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveGSMType(ctx, grade); err != nil {
		return nil, err
	}
	resp := gsmResponse(grade)
	return &resp, nil
}

// CreatePaperSize adds a paper size owned by the shop
func (s *ReferenceService) CreatePaperSize(ctx context.Context, tenantID uuid.UUID, req CreatePaperSizeRequest) (*ReferenceResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	size, err := catalog.NewPaperSize(shared.ScopedTo(tenantID), strings.TrimSpace(req.Name), req.WidthMM, req.HeightMM)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SavePaperSize(ctx, size); err != nil {
		return nil, err
	}
	resp := paperSizeResponse(size)
	return &resp, nil
}
