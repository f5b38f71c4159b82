package identity

import (
	"time"

	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// RegisterOrganizationRequest opens a new shop account with its first admin
type RegisterOrganizationRequest struct {
	ShopName  string `json:"shop_name" binding:"required,min=1,max=200"`
	Slug      string `json:"slug" binding:"omitempty,max=100"`
	OwnerName string `json:"owner_name" binding:"omitempty,max=200"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=50"`
	Address   string `json:"address"`
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FullName  string `json:"full_name" binding:"omitempty,max=200"`
}

// LoginRequest carries user credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token to rotate
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest identifies the tokens to revoke. RefreshToken is optional.
type LogoutRequest struct {
	AccessJTI    string        `json:"-"`
	AccessTTL    time.Duration `json:"-"`
	RefreshToken string        `json:"refresh_token"`
}

// CreateUserRequest adds a user to the caller's organization
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Email    string `json:"email" binding:"omitempty,email"`
	FullName string `json:"full_name" binding:"omitempty,max=200"`
	Role     string `json:"role" binding:"required,oneof=admin manager staff accountant"`
}

// ChangeRoleRequest assigns a new role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin manager staff accountant"`
}

// UpdateOrganizationRequest edits the shop profile. Nil fields keep their
// current value.
type UpdateOrganizationRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	OwnerName *string `json:"owner_name" binding:"omitempty,max=200"`
	Email     *string `json:"email" binding:"omitempty,max=200"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Address   *string `json:"address" binding:"omitempty,max=2000"`
}

// TokenResponse is an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

// UserResponse describes a user and what their role may reach
type UserResponse struct {
	ID          uuid.UUID         `json:"id"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	Username    string            `json:"username"`
	Email       string            `json:"email,omitempty"`
	FullName    string            `json:"full_name,omitempty"`
	Role        string            `json:"role"`
	IsActive    bool              `json:"is_active"`
	LastLoginAt *time.Time        `json:"last_login_at,omitempty"`
	Modules     map[string]string `json:"modules"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	modules := make(map[string]string)
	for _, m := range identity.AllModules {
		if access := u.Role.AccessTo(m); access != identity.AccessNone {
			modules[string(m)] = access.String()
		}
	}
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		Modules:     modules,
		CreatedAt:   u.CreatedAt,
	}
}

// OrganizationResponse describes a shop account
type OrganizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerName string    `json:"owner_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToOrganizationResponse converts a domain organization
func ToOrganizationResponse(o *identity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		OwnerName: o.OwnerName,
		Email:     o.Email,
		Phone:     o.Phone,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// LoginResponse is returned by login and registration
type LoginResponse struct {
	Token        TokenResponse         `json:"token"`
	User         UserResponse          `json:"user"`
	Organization *OrganizationResponse `json:"organization,omitempty"`
}
