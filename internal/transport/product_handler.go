package transport

import (
	"net/http"
	"strings"

	"prime-pizza/internal/domain"
	"prime-pizza/internal/middleware"
	"prime-pizza/internal/repository"
	"prime-pizza/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRequest represents the catalog create/update payload
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=500"`
	Category    string  `json:"category" validate:"required,oneof=pizza burger drink deal side dessert"`
	Price       float64 `json:"price" validate:"gte=0"`
	Image       string  `json:"image" validate:"omitempty,url"`
	Available   *bool   `json:"available"`
}

func (req *ProductRequest) toDomain() *domain.Product {
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.Category(strings.ToLower(req.Category)),
		Price:       req.Price,
		Image:       req.Image,
		Available:   available,
	}
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
	devMode        bool
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger, devMode bool) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
		devMode:        devMode,
	}
}

// RegisterRoutes registers all catalog routes. Reads are public; writes
// require an authenticated admin.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/categories", h.Categories)
		r.Get("/{id}", h.Get)

		// Seed route (for demo purposes)
		r.Post("/seed", h.Seed)

		// Protected routes (admin only)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles catalog browsing with optional filters
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Search: r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		category := domain.Category(strings.ToLower(raw))
		filter.Category = &category
	}

	if raw := r.URL.Query().Get("available"); raw != "" {
		available := raw == "true"
		filter.Available = &available
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithList(w, http.StatusOK, products, len(products))
}

// Get handles fetching a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, product)
}

// Categories handles listing the distinct catalog categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.Categories(r.Context())
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, categories)
}

// Create handles adding a product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	middleware.RespondWithData(w, http.StatusCreated, product)
}

// Update handles replacing a product's fields
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := req.toDomain()
	product.ID = id

	updated, err := h.productService.Update(r.Context(), product)
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, updated)
}

// Delete handles removing a product from the catalog
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	middleware.RespondWithMessage(w, http.StatusOK, "Product deleted successfully")
}

// Seed handles replacing the catalog with demo data
func (h *ProductHandler) Seed(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.Seed(r.Context())
	if err != nil {
		respondServiceError(w, err, h.devMode, h.logger)
		return
	}

	h.logger.Info("Catalog seeded", zap.Int("count", len(products)))
	middleware.RespondWithList(w, http.StatusCreated, products, len(products))
}
