// Package models holds the server-side data model: the account credential
// record, its co-created profile record, and the transport-safe views.
package models

import "time"

// Roles an account can hold. Closed set; extend here only.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Account lifecycle statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusBanned    = "banned"
)

// Account is the credential record: login identity, password hash, role,
// status and the single refresh-token slot. RefreshToken is nil unless the
// account has a live session.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	IsVerified   bool
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountView is the projection exposed to transport. The password hash and
// refresh token never appear here.
type AccountView struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// View returns the transport-safe projection of the account.
func (a *Account) View() *AccountView {
	return &AccountView{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Role:       a.Role,
		Status:     a.Status,
		IsVerified: a.IsVerified,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountPatch is a partial update of the credential record. Nil fields are
// left untouched. The password arrives here already hashed; plaintext is
// handled one layer up.
type AccountPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *string
	Status       *string
	IsVerified   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p *AccountPatch) IsEmpty() bool {
	return p == nil ||
		(p.Username == nil && p.Email == nil && p.PasswordHash == nil &&
			p.Role == nil && p.Status == nil && p.IsVerified == nil)
}
