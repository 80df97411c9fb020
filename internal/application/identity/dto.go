package identity

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoginRequest represents a login attempt against one organization
type LoginRequest struct {
	OrgSlug  string `json:"org_slug" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued tokens and the authenticated user
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshTokenRequest represents a token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse carries a freshly issued token pair
type RefreshTokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ChangePasswordRequest represents a self-service password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// RegisterOrganizationRequest signs up a new shop with its owner account
type RegisterOrganizationRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Slug         string `json:"slug" binding:"required,min=3,max=64"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	OwnerEmail   string `json:"owner_email" binding:"required,email"`
	OwnerName    string `json:"owner_name" binding:"max=200"`
	Password     string `json:"password" binding:"required,min=8,max=128"`
}

// UpdateOrganizationRequest updates shop settings
type UpdateOrganizationRequest struct {
	Name         *string          `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	ContactEmail *string          `json:"contact_email,omitempty" binding:"omitempty,email"`
	Phone        *string          `json:"phone,omitempty" binding:"omitempty,max=50"`
	Address      *string          `json:"address,omitempty" binding:"omitempty,max=500"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
	StoreEnabled *bool            `json:"store_enabled,omitempty"`
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	ContactEmail string          `json:"contact_email"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	Status       string          `json:"status"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Currency     string          `json:"currency"`
	StoreEnabled bool            `json:"store_enabled"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToOrganizationResponse converts a domain organization to a response
func ToOrganizationResponse(org *identity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:           org.ID,
		Name:         org.Name,
		Slug:         org.Slug,
		ContactEmail: org.ContactEmail,
		Phone:        org.Phone,
		Address:      org.Address,
		Status:       string(org.Status),
		TaxRate:      org.TaxRate,
		Currency:     org.Currency,
		StoreEnabled: org.StoreEnabled,
		CreatedAt:    org.CreatedAt,
	}
}

// CreateUserRequest creates a staff or owner account within the organization
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Role        string `json:"role" binding:"required,oneof=owner staff"`
}

// UpdateUserRequest updates a user account
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,max=200"`
}

// UserListFilter represents filtering options for user lists
type UserListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Role     string `form:"role"`
	Status   string `form:"status"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	ProviderID  *uuid.UUID `json:"provider_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		Status:      string(user.Status),
		ProviderID:  user.ProviderID,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users to responses
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
