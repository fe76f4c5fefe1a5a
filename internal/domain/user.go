package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role values recognised by the authorization checks
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// User holds the identity and contact details attached to orders.
// Accounts are managed by the external auth service; this backend only
// reads them to resolve display fields.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
