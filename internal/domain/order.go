package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses returns every valid order status
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusPreparing,
		StatusReady,
		StatusDelivered,
		StatusCancelled,
	}
}

// IsValidStatus reports whether s is one of the enumerated statuses
func IsValidStatus(s Status) bool {
	for _, valid := range Statuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// PaymentMethod identifies how an order is paid for
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
)

// PaymentStatus tracks whether an order has been paid
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// DerivePaymentStatus returns the payment status for a payment method.
// Cash orders are settled on delivery, everything else is charged up front.
func DerivePaymentStatus(method PaymentMethod) PaymentStatus {
	if method == PaymentMethodCash {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

// OrderItem is one line of an order. Name and Price are frozen copies of
// the product at order time, so later catalog edits never change what the
// customer agreed to pay.
type OrderItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OrderID      uuid.UUID `json:"order_id" db:"order_id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	Name         string    `json:"name" db:"name"`
	Price        float64   `json:"price" db:"price"`
	Quantity     int       `json:"quantity" db:"quantity"`
	ProductImage string    `json:"product_image,omitempty" db:"-"`
}

// Order represents a customer order
type Order struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	UserID          uuid.UUID     `json:"user_id" db:"user_id"`
	Items           []OrderItem   `json:"items"`
	TotalAmount     float64       `json:"total_amount" db:"total_amount"`
	PaymentMethod   PaymentMethod `json:"payment_method" db:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	DeliveryAddress string        `json:"delivery_address" db:"delivery_address"`
	Notes           string        `json:"notes,omitempty" db:"notes"`
	Status          Status        `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`

	// Customer contact details, resolved from the users table for display
	Customer *User `json:"customer,omitempty" db:"-"`
}

// DateRange is an optional inclusive filter on order creation time
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// OrderFilter narrows order listings for staff views
type OrderFilter struct {
	Status    *Status
	DateRange DateRange
}
