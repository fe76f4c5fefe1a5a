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
	ErrInvalidCategory = errors.New("invalid category")
)

// ProductService defines the interface for catalog business logic
type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]domain.Category, error)
	Seed(ctx context.Context) ([]*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// List retrieves catalog products with optional filters
func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get retrieves a single product
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create adds a product to the catalog
func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if !domain.IsValidCategory(product.Category) {
		return nil, ErrInvalidCategory
	}

	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	if product.Image == "" {
		product.Image = domain.DefaultProductImage
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update replaces a product's mutable fields
func (s *productService) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if !domain.IsValidCategory(product.Category) {
		return nil, ErrInvalidCategory
	}

	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	if product.Image == "" {
		product.Image = existing.Image
	}
	product.CreatedAt = existing.CreatedAt

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product from the catalog. There is no soft delete:
// historical orders keep their own name/price snapshots.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// Categories returns the distinct categories present in the catalog
func (s *productService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Seed replaces the catalog with a small demo menu
func (s *productService) Seed(ctx context.Context) ([]*domain.Product, error) {
	samples := sampleProducts()
	if err := s.productRepo.ReplaceAll(ctx, samples); err != nil {
		return nil, fmt.Errorf("failed to seed products: %w", err)
	}
	return samples, nil
}

func sampleProducts() []*domain.Product {
	now := time.Now()

	samples := []struct {
		name        string
		description string
		category    domain.Category
		price       float64
		image       string
	}{
		{"Margherita Classic", "Classic Italian pizza with fresh mozzarella, tomatoes, and basil", domain.CategoryPizza, 12.99, "https://images.unsplash.com/photo-1574071318508-1cdbab80d002?w=400"},
		{"Pepperoni Feast", "Loaded with pepperoni slices and melted cheese", domain.CategoryPizza, 14.99, "https://images.unsplash.com/photo-1628840042765-356cda07504e?w=400"},
		{"Classic Cheeseburger", "Juicy beef patty with cheddar cheese, lettuce, tomato, and special sauce", domain.CategoryBurger, 9.99, "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400"},
		{"Coca Cola", "330ml can", domain.CategoryDrink, 1.99, "https://images.unsplash.com/photo-1581636625402-29b2a704ef13?w=400"},
		{"Family Pizza Deal", "2 Large pizzas, 1.5L drink, and garlic bread", domain.CategoryDeal, 39.99, "https://images.unsplash.com/photo-1594007654729-407eedc4be65?w=400"},
		{"Garlic Bread", "Crispy bread with garlic butter and herbs", domain.CategorySide, 4.99, "https://images.unsplash.com/photo-1619535860434-ba1d8fa12536?w=400"},
		{"Chocolate Lava Cake", "Warm chocolate cake with molten center", domain.CategoryDessert, 5.99, "https://images.unsplash.com/photo-1624353365286-3f8d62daad51?w=400"},
	}

	products := make([]*domain.Product, 0, len(samples))
	for _, sample := range samples {
		products = append(products, &domain.Product{
			ID:          uuid.New(),
			Name:        sample.name,
			Description: sample.description,
			Category:    sample.category,
			Price:       sample.price,
			Image:       sample.image,
			Available:   true,
			CreatedAt:   now,
		})
	}

	return products
}
