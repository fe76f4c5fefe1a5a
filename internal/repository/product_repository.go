package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prime-pizza/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter narrows catalog listings
type ProductFilter struct {
	Category  *domain.Category
	Search    string
	Available *bool
}

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	ReplaceAll(ctx context.Context, products []*domain.Product) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the catalog
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, category, price, image, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Category,
		product.Price,
		product.Image,
		product.Available,
		product.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category = $4, price = $5, image = $6, available = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Category,
		product.Price,
		product.Image,
		product.Available,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the catalog
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, description, category, price, image, available, created_at
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Price,
		&product.Image,
		&product.Available,
		&product.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products newest-first with optional category, name search
// and availability filters
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	addCondition := func(condition string, value interface{}) {
		if whereClause == "" {
			whereClause = "WHERE "
		} else {
			whereClause += " AND "
		}
		whereClause += fmt.Sprintf(condition, argIndex)
		args = append(args, value)
		argIndex++
	}

	if filter.Category != nil {
		addCondition("category = $%d", *filter.Category)
	}
	if filter.Search != "" {
		addCondition("name ILIKE $%d", "%"+filter.Search+"%")
	}
	if filter.Available != nil {
		addCondition("available = $%d", *filter.Available)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, category, price, image, available, created_at
		FROM products
		%s
		ORDER BY created_at DESC
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Category,
			&product.Price,
			&product.Image,
			&product.Available,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Categories returns the distinct categories present in the catalog
func (r *productRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT DISTINCT category FROM products ORDER BY category ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// ReplaceAll swaps the whole catalog for the given products in one
// transaction. Used by the demo seed endpoint.
func (r *productRepository) ReplaceAll(ctx context.Context, products []*domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, category, price, image, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, product := range products {
		_, err := tx.ExecContext(
			ctx,
			query,
			product.ID,
			product.Name,
			product.Description,
			product.Category,
			product.Price,
			product.Image,
			product.Available,
			product.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %q: %w", product.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return nil
}
