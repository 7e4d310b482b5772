package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Principal roles and statuses
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// UserAccount represents a registered principal
type UserAccount struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Email       string     `db:"email" json:"email"`
	DisplayName string     `db:"display_name" json:"displayName"`
	Password    []byte     `db:"password" json:"-"`
	Role        string     `db:"role" json:"role"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	LastLogin   *time.Time `db:"last_login" json:"lastLogin,omitempty"`
}

// IsActive reports whether the account may authenticate
func (u *UserAccount) IsActive() bool {
	return u.Status == StatusActive
}

// SignupRequest represents the signup payload
type SignupRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the minted access token and the authenticated profile
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   int64        `json:"expiresAt"`
	User        *UserAccount `json:"user"`
}
