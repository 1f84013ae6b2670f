package models

import "time"

// Account is a registered user. PasswordHash is empty for directory-only
// profiles created through the users resource.
type Account struct {
	ID           string    `json:"id" sql:"id"`
	Name         string    `json:"name" sql:"name"`
	Email        string    `json:"email" sql:"email"`
	PasswordHash string    `json:"-" sql:"password_hash"`
	Phone        string    `json:"phone,omitempty" sql:"phone"`
	IsReferred   bool      `json:"isReferred" sql:"is_referred"`
	ReferredBy   string    `json:"referredBy,omitempty" sql:"referred_by"`
	CreatedAt    time.Time `json:"createdAt" sql:"created_at"`
}

// HasPassword reports whether the account can log in.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// CreateUserRequest creates a directory profile without credentials
type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	IsReferred bool   `json:"isReferred"`
	ReferredBy string `json:"referredBy"`
}
