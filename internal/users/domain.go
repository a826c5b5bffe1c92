package users

import "time"

// User is the account view exposed to administrators and to the
// account's own profile endpoint. Password hashes never leave postgres.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateRoleRequest promotes or demotes an account.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
