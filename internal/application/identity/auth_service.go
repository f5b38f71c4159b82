package identity

import (
	"context"
	"errors"

	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password")

// AuthService handles registration and authentication
type AuthService struct {
	orgRepo    identity.OrganizationRepository
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// in which case logout only succeeds client-side.
func NewAuthService(
	orgRepo identity.OrganizationRepository,
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// RegisterOrganization creates a shop and its admin user, then signs the admin in
func (s *AuthService) RegisterOrganization(ctx context.Context, req RegisterOrganizationRequest) (*LoginResponse, error) {
	org, err := identity.NewOrganization(req.ShopName, req.Slug)
	if err != nil {
		return nil, err
	}
	if err := org.SetContact(req.OwnerName, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}

	taken, err := s.orgRepo.ExistsBySlug(ctx, org.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Organization slug already in use")
	}
	taken, err = s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Username already in use")
	}

	admin, err := identity.NewUser(org.ID, req.Username, req.Password, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := admin.SetEmail(req.Email); err != nil {
		return nil, err
	}
	admin.SetFullName(req.FullName)

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(shared.WithTenantID(ctx, org.ID), admin); err != nil {
		return nil, err
	}

	s.logger.Info("Organization registered",
		zap.String("tenant_id", org.ID.String()),
		zap.String("slug", org.Slug),
		zap.String("admin", admin.Username))

	resp, err := s.issue(admin)
	if err != nil {
		return nil, err
	}
	orgResp := ToOrganizationResponse(org)
	resp.Organization = &orgResp
	return resp, nil
}

// Login authenticates a user by username and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Login for unknown user", zap.String("username", req.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", req.Username))
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", req.Username))
		return nil, shared.NewDomainError(shared.CodeForbidden, "Account has been deactivated")
	}

	org, err := s.orgRepo.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if !org.IsActive {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Organization has been deactivated")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(shared.WithTenantID(ctx, user.TenantID), user); err != nil {
		// Login still succeeds
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	orgResp := ToOrganizationResponse(org)
	resp.Organization = &orgResp
	return resp, nil
}

// Refresh rotates a token pair. The user is reloaded so role changes and
// deactivation take effect, and the spent refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}

	user, err := s.userRepo.FindByID(shared.WithTenantID(ctx, tenantID), tenantID, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, tokenError(auth.ErrInvalidToken)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Account has been deactivated")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Username, string(user.Role))
	if err != nil {
		return nil, tokenError(err)
	}
	s.revoke(ctx, claims.ID, claims)

	resp := toTokenResponse(pair)
	return &resp, nil
}

// Logout revokes the caller's access token and, when given, its refresh token
func (s *AuthService) Logout(ctx context.Context, req LogoutRequest) error {
	if s.blacklist == nil {
		return nil
	}
	if req.AccessJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, req.AccessJTI, req.AccessTTL); err != nil {
			return err
		}
	}
	if req.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err != nil {
			return nil
		}
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}
	return nil
}

// IsRevoked reports whether a token ID was revoked by logout or rotation
func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.blacklist == nil || jti == "" {
		return false, nil
	}
	return s.blacklist.IsBlacklisted(ctx, jti)
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) issue(user *identity.User) (*LoginResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	return &LoginResponse{
		Token: toTokenResponse(pair),
		User:  ToUserResponse(user),
	}, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, jti string) error {
	revoked, err := s.IsRevoked(ctx, jti)
	if err != nil {
		return err
	}
	if revoked {
		return tokenError(auth.ErrTokenRevoked)
	}
	return nil
}

func (s *AuthService) revoke(ctx context.Context, jti string, claims *auth.Claims) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddToBlacklist(ctx, jti, claims.GetRemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke rotated refresh token", zap.Error(err))
	}
}

// tokenError maps JWT failures onto UNAUTHORIZED domain errors
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError(shared.CodeUnauthorized, "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(shared.CodeUnauthorized, "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenRevoked):
		return shared.NewDomainError(shared.CodeUnauthorized, "Token has been revoked")
	default:
		return shared.NewDomainError(shared.CodeUnauthorized, "Invalid token")
	}
}
