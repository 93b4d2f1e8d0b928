package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the privilege level of an account.
type UserRole string

const (
	RoleUser    UserRole = "USER"
	RoleSeller  UserRole = "SELLER"
	RoleSupport UserRole = "SUPPORT"
	RoleBlocked UserRole = "BLOCKED"
)

// User represents a platform account holding an in-platform balance.
// Balance is in minor currency units and is mutated only by the Ledger.
type User struct {
	ID           uuid.UUID `json:"id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose
	Role         UserRole  `json:"role"`
	Balance      int64     `json:"balance"`
	Rate         float64   `json:"rate"`
	Description  *string   `json:"description,omitempty"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsBlocked returns true if the account is blocked.
func (u *User) IsBlocked() bool {
	return u.Role == RoleBlocked
}

// CanModerate returns true for accounts with support privileges.
func (u *User) CanModerate() bool {
	return u.Role == RoleSupport
}
