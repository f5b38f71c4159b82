package identity

import (
	"context"

	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrganizationService reads and edits the caller's shop profile
type OrganizationService struct {
	orgRepo identity.OrganizationRepository
	logger  *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo identity.OrganizationRepository, logger *zap.Logger) *OrganizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationService{orgRepo: orgRepo, logger: logger}
}

// Get returns the shop profile
func (s *OrganizationService) Get(ctx context.Context, tenantID uuid.UUID) (*OrganizationResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// Update changes the shop's name and contact details. Nil fields keep their
// current value; the slug never changes.
func (s *OrganizationService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !org.IsActive {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Organization has been deactivated")
	}

	if req.Name != nil {
		if err := org.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	owner, email, phone, address := org.OwnerName, org.Email, org.Phone, org.Address
	if req.OwnerName != nil {
		owner = *req.OwnerName
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := org.SetContact(owner, email, phone, address); err != nil {
		return nil, err
	}
	org.IncrementVersion()
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	s.logger.Info("Organization settings updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("name", org.Name))

	resp := ToOrganizationResponse(org)
	return &resp, nil
}
