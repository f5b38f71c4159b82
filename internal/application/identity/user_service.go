package identity

import (
	"context"

	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages the users of one organization
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{userRepo: userRepo, logger: logger}
}

// Create adds a user to the organization
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)

	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Username already in use")
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(req.Email); err != nil {
		return nil, err
	}
	user.SetFullName(req.FullName)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns the organization's users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID) ([]UserResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	users, err := s.userRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, nil
}

// ChangeRole assigns a new role. Admins cannot demote themselves.
func (s *UserService) ChangeRole(ctx context.Context, tenantID, actorID, userID uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	if actorID == userID && identity.Role(req.Role) != identity.RoleAdmin {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "You cannot change your own role")
	}
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := user.ChangeRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Deactivate blocks a user from signing in
func (s *UserService) Deactivate(ctx context.Context, tenantID, actorID, userID uuid.UUID) error {
	ctx = shared.WithTenantID(ctx, tenantID)
	if actorID == userID {
		return shared.NewDomainError(shared.CodeInvalidState, "You cannot deactivate yourself")
	}
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("User deactivated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()))
	return nil
}
