package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is the persistent entity. PasswordHash never leaves the server;
// outward serialization always goes through AccountView.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountView is the public projection of an Account.
type AccountView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// Claims is the decoded payload of an identity token.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	TokenID string `json:"jti"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateAccountRequest is a sparse patch. Pointer fields distinguish
// "absent" from "set to zero value"; absent fields are left untouched.
type UpdateAccountRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// AccountPatch is the storage-level form of an update: the password has
// already been hashed and only present fields become SET clauses.
type AccountPatch struct {
	Email        *string
	PasswordHash *string
	Name         *string
	Role         *string
	IsActive     *bool
}

func (p AccountPatch) IsEmpty() bool {
	return p.Email == nil && p.PasswordHash == nil && p.Name == nil &&
		p.Role == nil && p.IsActive == nil
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token   string      `json:"token"`
	Account AccountView `json:"account"`
}

type AccountList struct {
	Accounts []AccountView `json:"accounts"`
}
