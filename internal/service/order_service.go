package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prime-pizza/internal/domain"
	"prime-pizza/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder         = errors.New("no items in order")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrProductUnavailable = errors.New("is not available")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrNotOrderOwner      = errors.New("not authorized to cancel this order")
	ErrOrderAccessDenied  = errors.New("not authorized to view this order")
	ErrNotCancellable     = errors.New("can only cancel pending orders")
)

// Requester is the authenticated identity performing an order operation
type Requester struct {
	ID   uuid.UUID
	Role string
}

// HasRole reports whether the requester holds one of the given roles
func (req Requester) HasRole(roles ...string) bool {
	for _, role := range roles {
		if req.Role == role {
			return true
		}
	}
	return false
}

// canAccessOrder reports whether the requester may read the order:
// the owner always can, staff and admins can read any order.
func canAccessOrder(requester Requester, order *domain.Order) bool {
	if requester.ID == order.UserID {
		return true
	}
	return requester.HasRole(domain.RoleAdmin, domain.RoleStaff)
}

// RequestedItem is one product/quantity pair in a checkout request
type RequestedItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderService defines the interface for the order lifecycle
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, items []RequestedItem, paymentMethod domain.PaymentMethod, deliveryAddress, notes string) (*domain.Order, error)
	Get(ctx context.Context, orderID uuid.UUID, requester Requester) (*domain.Order, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.Status) (*domain.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID, requester Requester) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// buildLineItems resolves each requested item against the catalog and
// freezes the product name and price into the line item. The price a
// customer sees at checkout is the price they pay, whatever happens to the
// catalog afterwards. Read-only; any failure aborts the whole order.
func (s *orderService) buildLineItems(ctx context.Context, requested []RequestedItem) ([]domain.OrderItem, float64, error) {
	items := make([]domain.OrderItem, 0, len(requested))
	totalAmount := 0.0

	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, 0, ErrInvalidQuantity
		}

		product, err := s.productRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, 0, fmt.Errorf("%w: %s", repository.ErrProductNotFound, req.ProductID)
			}
			return nil, 0, fmt.Errorf("failed to resolve product: %w", err)
		}

		if !product.Available {
			return nil, 0, fmt.Errorf("%s %w", product.Name, ErrProductUnavailable)
		}

		items = append(items, domain.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  req.Quantity,
		})

		totalAmount += product.Price * float64(req.Quantity)
	}

	return items, totalAmount, nil
}

// Create places a new order with a frozen pricing snapshot
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, requested []RequestedItem, paymentMethod domain.PaymentMethod, deliveryAddress, notes string) (*domain.Order, error) {
	if len(requested) == 0 {
		return nil, ErrEmptyOrder
	}

	items, totalAmount, err := s.buildLineItems(ctx, requested)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     totalAmount,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.DerivePaymentStatus(paymentMethod),
		DeliveryAddress: deliveryAddress,
		Notes:           notes,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return s.resolve(ctx, order.ID)
}

// Get retrieves a single order, enforcing owner/staff access
func (s *orderService) Get(ctx context.Context, orderID uuid.UUID, requester Requester) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !canAccessOrder(requester, order) {
		return nil, ErrOrderAccessDenied
	}

	return s.attachCustomer(ctx, order)
}

// ListMine retrieves the requester's own orders, newest first
func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll retrieves all orders for staff views, newest first, with
// customer contact details attached
func (s *orderService) ListAll(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for _, order := range orders {
		if _, err := s.attachCustomer(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// UpdateStatus sets an order's status. Staff may set any of the five
// statuses directly; there is deliberately no adjacency restriction.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.Status) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return s.resolve(ctx, order.ID)
}

// Cancel lets a customer cancel their own order while it is still pending.
// Orders are never deleted, only marked cancelled.
func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID, requester Requester) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requester.ID {
		return nil, ErrNotOrderOwner
	}

	if order.Status != domain.StatusPending {
		return nil, ErrNotCancellable
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, domain.StatusCancelled, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	return s.resolve(ctx, order.ID)
}

// resolve re-reads an order after a write so the caller sees the persisted
// state with display fields attached
func (s *orderService) resolve(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return s.attachCustomer(ctx, order)
}

// attachCustomer resolves the owning user's contact details for display.
// A missing user record is not an error; the order stands on its own.
func (s *orderService) attachCustomer(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return order, nil
		}
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	order.Customer = user
	return order, nil
}
