package transport

import (
	"net/http"

	"prime-pizza/internal/domain"
	"prime-pizza/internal/middleware"
	"prime-pizza/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemRequest is one product/quantity pair in a checkout request
type OrderItemRequest struct {
	Product  string `json:"product" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderRequest represents the checkout request payload
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=cash card online"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	Notes           string             `json:"notes"`
}

// UpdateStatusRequest represents the staff status-change payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	statsService service.StatsService
	logger       *zap.Logger
	devMode      bool
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, statsService service.StatsService, logger *zap.Logger, devMode bool) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		statsService: statsService,
		logger:       logger,
		devMode:      devMode,
	}
}

// RegisterRoutes registers all order routes. Every route requires an
// authenticated identity; role gates follow per route.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		// Customer routes
		r.Post("/", h.Create)
		r.With(middleware.RequireRole([]string{domain.RoleCustomer}, h.logger)).
			Get("/myorders", h.ListMine)
		r.Get("/{id}", h.Get)
		r.With(middleware.RequireRole([]string{domain.RoleCustomer}, h.logger)).
			Put("/{id}/cancel", h.Cancel)

		// Admin/Staff routes
		r.With(middleware.RequireRole([]string{domain.RoleAdmin, domain.RoleStaff}, h.logger)).
			Get("/", h.ListAll)
		r.With(middleware.RequireRole([]string{domain.RoleAdmin, domain.RoleStaff}, h.logger)).
			Put("/{id}/status", h.UpdateStatus)
		r.With(middleware.RequireAdmin(h.logger)).
			Get("/stats/all", h.Stats)
	})
}

// Create handles order placement
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.RequestedItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.Product)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id: "+item.Product)
			return
		}
		items = append(items, service.RequestedItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.Create(
		r.Context(),
		requester.ID,
		items,
		domain.PaymentMethod(req.PaymentMethod),
		req.DeliveryAddress,
		req.Notes,
	)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", requester.ID.String()),
		zap.Float64("total_amount", order.TotalAmount),
	)
	middleware.RespondWithData(w, http.StatusCreated, order)
}

// ListMine handles a customer listing their own orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.ListMine(r.Context(), requester.ID)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithList(w, http.StatusOK, orders, len(orders))
}

// Get handles fetching a single order
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.Get(r.Context(), orderID, requester)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, order)
}

// ListAll handles the staff view over all orders with optional filters
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	dateRange, err := dateRangeFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid date filter")
		return
	}

	filter := domain.OrderFilter{DateRange: dateRange}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.Status(raw)
		if !domain.IsValidStatus(status) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = &status
	}

	orders, err := h.orderService.ListAll(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithList(w, http.StatusOK, orders, len(orders))
}

// UpdateStatus handles staff status changes
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, domain.Status(req.Status))
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithData(w, http.StatusOK, order)
}

// Cancel handles a customer cancelling their own pending order
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.Cancel(r.Context(), orderID, requester)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	h.logger.Info("Order cancelled", zap.String("order_id", order.ID.String()))
	middleware.RespondWithData(w, http.StatusOK, order)
}

// Stats handles the admin sales report
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	dateRange, err := dateRangeFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid date filter")
		return
	}

	report, err := h.statsService.ComputeStats(r.Context(), dateRange)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, report)
}
