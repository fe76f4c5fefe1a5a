package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prime-pizza/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access, including
// the sales aggregation queries
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, updatedAt time.Time) error

	TotalSales(ctx context.Context, dateRange domain.DateRange) (domain.SalesTotal, error)
	CountByStatus(ctx context.Context, dateRange domain.DateRange) ([]domain.StatusCount, error)
	DailySales(ctx context.Context, since time.Time) ([]domain.PeriodSales, error)
	MonthlySales(ctx context.Context, limit int) ([]domain.PeriodSales, error)
	TopProducts(ctx context.Context, dateRange domain.DateRange, limit int) ([]domain.ProductSales, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists an order and its line items in one transaction. The order
// is the sole write of the checkout flow, so a failure here leaves no
// partial state behind.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, user_id, total_amount, payment_method, payment_status,
		                    delivery_address, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(
		ctx,
		orderQuery,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.PaymentMethod,
		order.PaymentStatus,
		order.DeliveryAddress,
		order.Notes,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		_, err := tx.ExecContext(
			ctx,
			itemQuery,
			order.Items[i].ID,
			order.Items[i].OrderID,
			order.Items[i].ProductID,
			order.Items[i].Name,
			order.Items[i].Price,
			order.Items[i].Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// FindByID retrieves an order with its line items
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, user_id, total_amount, payment_method, payment_status,
		       delivery_address, notes, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.DeliveryAddress,
		&order.Notes,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByUser retrieves a customer's orders newest-first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, total_amount, payment_method, payment_status,
		       delivery_address, notes, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by user: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows)
}

// List retrieves all orders newest-first with optional status and
// creation-date filters
func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
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

	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.DateRange.Start != nil {
		addCondition("created_at >= $%d", *filter.DateRange.Start)
	}
	if filter.DateRange.End != nil {
		addCondition("created_at <= $%d", *filter.DateRange.End)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, total_amount, payment_method, payment_status,
		       delivery_address, notes, status, created_at, updated_at
		FROM orders
		%s
		ORDER BY created_at DESC
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows)
}

// UpdateStatus sets an order's status and refreshes its update timestamp
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TotalAmount,
			&order.PaymentMethod,
			&order.PaymentStatus,
			&order.DeliveryAddress,
			&order.Notes,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// loadItems fetches an order's line items with the current product image
// attached for display. Name and price come from the stored snapshot, not
// the catalog.
func (r *orderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.name, oi.price, oi.quantity,
		       COALESCE(p.image, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.ProductImage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// dateRangeClause appends inclusive created_at bounds to a WHERE fragment.
// The returned clause starts with AND so it can follow an existing condition.
func dateRangeClause(dateRange domain.DateRange, args []interface{}) (string, []interface{}) {
	clause := ""
	if dateRange.Start != nil {
		args = append(args, *dateRange.Start)
		clause += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if dateRange.End != nil {
		args = append(args, *dateRange.End)
		clause += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return clause, args
}

// TotalSales sums revenue and counts orders, excluding cancelled ones
func (r *orderRepository) TotalSales(ctx context.Context, dateRange domain.DateRange) (domain.SalesTotal, error) {
	args := []interface{}{}
	clause, args := dateRangeClause(dateRange, args)

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE status <> 'cancelled'%s
	`, clause)

	total := domain.SalesTotal{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total.Total, &total.Count)
	if err != nil {
		return domain.SalesTotal{}, fmt.Errorf("failed to compute total sales: %w", err)
	}

	return total, nil
}

// CountByStatus counts orders grouped by status, cancelled included
func (r *orderRepository) CountByStatus(ctx context.Context, dateRange domain.DateRange) ([]domain.StatusCount, error) {
	args := []interface{}{}
	clause, args := dateRangeClause(dateRange, args)

	query := fmt.Sprintf(`
		SELECT status, COUNT(*)
		FROM orders
		WHERE TRUE%s
		GROUP BY status
		ORDER BY status
	`, clause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer rows.Close()

	counts := []domain.StatusCount{}
	for rows.Next() {
		var count domain.StatusCount
		if err := rows.Scan(&count.Status, &count.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	return counts, nil
}

// DailySales sums non-cancelled orders per calendar day since the given
// time, oldest day first
func (r *orderRepository) DailySales(ctx context.Context, since time.Time) ([]domain.PeriodSales, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day,
		       COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE status <> 'cancelled' AND created_at >= $1
		GROUP BY day
		ORDER BY day ASC
	`

	return r.collectPeriodSales(ctx, query, since)
}

// MonthlySales sums non-cancelled orders per calendar month across all
// time, most recent month first, capped to limit months with data
func (r *orderRepository) MonthlySales(ctx context.Context, limit int) ([]domain.PeriodSales, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE status <> 'cancelled'
		GROUP BY month
		ORDER BY month DESC
		LIMIT $1
	`

	return r.collectPeriodSales(ctx, query, limit)
}

func (r *orderRepository) collectPeriodSales(ctx context.Context, query string, args ...interface{}) ([]domain.PeriodSales, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute period sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.PeriodSales{}
	for rows.Next() {
		var period domain.PeriodSales
		if err := rows.Scan(&period.Period, &period.Total, &period.Count); err != nil {
			return nil, fmt.Errorf("failed to scan period sales: %w", err)
		}
		sales = append(sales, period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period sales: %w", err)
	}

	return sales, nil
}

// TopProducts expands line items across orders in the date range and ranks
// products by revenue
func (r *orderRepository) TopProducts(ctx context.Context, dateRange domain.DateRange, limit int) ([]domain.ProductSales, error) {
	args := []interface{}{}
	clause := ""
	if dateRange.Start != nil {
		args = append(args, *dateRange.Start)
		clause += fmt.Sprintf(" AND o.created_at >= $%d", len(args))
	}
	if dateRange.End != nil {
		args = append(args, *dateRange.End)
		clause += fmt.Sprintf(" AND o.created_at <= $%d", len(args))
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT oi.product_id,
		       MIN(oi.name) AS name,
		       SUM(oi.quantity),
		       SUM(oi.price * oi.quantity) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE TRUE%s
		GROUP BY oi.product_id
		ORDER BY revenue DESC
		LIMIT $%d
	`, clause, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute top products: %w", err)
	}
	defer rows.Close()

	products := []domain.ProductSales{}
	for rows.Next() {
		var product domain.ProductSales
		err := rows.Scan(
			&product.ProductID,
			&product.Name,
			&product.TotalQuantity,
			&product.TotalRevenue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product sales: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product sales: %w", err)
	}

	return products, nil
}
