package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"prime-pizza/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func insertTestOrder(t *testing.T, repo OrderRepository, status domain.Status, total float64, createdAt time.Time, items ...domain.OrderItem) *domain.Order {
	t.Helper()

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Items:           items,
		TotalAmount:     total,
		PaymentMethod:   domain.PaymentMethodCard,
		PaymentStatus:   domain.PaymentStatusPaid,
		DeliveryAddress: "1 Test Street",
		Status:          status,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}
	return order
}

func lineItem(name string, price float64, quantity int) domain.OrderItem {
	return domain.OrderItem{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Name:      name,
		Price:     price,
		Quantity:  quantity,
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	created := insertTestOrder(t, repo, domain.StatusPending, 35.97, time.Now(),
		lineItem("Margherita", 12.99, 2),
		lineItem("Coca Cola", 1.99, 5))

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if found.UserID != created.UserID {
		t.Errorf("user mismatch: %s vs %s", found.UserID, created.UserID)
	}
	if math.Abs(found.TotalAmount-35.97) > 0.001 {
		t.Errorf("expected total 35.97, got %f", found.TotalAmount)
	}
	if found.Status != domain.StatusPending {
		t.Errorf("expected status pending, got %s", found.Status)
	}
	if len(found.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(found.Items))
	}

	byName := map[string]domain.OrderItem{}
	for _, item := range found.Items {
		byName[item.Name] = item
	}
	if item := byName["Margherita"]; item.Quantity != 2 || math.Abs(item.Price-12.99) > 0.001 {
		t.Errorf("snapshot mismatch for Margherita: %+v", item)
	}
	if item := byName["Coca Cola"]; item.Quantity != 5 || math.Abs(item.Price-1.99) > 0.001 {
		t.Errorf("snapshot mismatch for Coca Cola: %+v", item)
	}
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

// The line items keep their own name and price; the products row only
// contributes the display image, and an order survives the product's
// deletion entirely.
func TestOrderRepository_SnapshotOutlivesProduct(t *testing.T) {
	clearTables(t)
	orderRepo := NewOrderRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	product := &domain.Product{
		ID:        uuid.New(),
		Name:      "Margherita",
		Category:  domain.CategoryPizza,
		Price:     12.99,
		Image:     "https://cdn.example.com/margherita.jpg",
		Available: true,
		CreatedAt: time.Now(),
	}
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	item := lineItem("Margherita", 12.99, 1)
	item.ProductID = product.ID
	order := insertTestOrder(t, orderRepo, domain.StatusPending, 12.99, time.Now(), item)

	found, err := orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Items[0].ProductImage != product.Image {
		t.Errorf("expected product image attached, got %q", found.Items[0].ProductImage)
	}

	if err := productRepo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}

	found, err = orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID after product delete failed: %v", err)
	}
	if found.Items[0].Name != "Margherita" || math.Abs(found.Items[0].Price-12.99) > 0.001 {
		t.Errorf("snapshot lost after product delete: %+v", found.Items[0])
	}
	if found.Items[0].ProductImage != "" {
		t.Errorf("expected empty image for deleted product, got %q", found.Items[0].ProductImage)
	}
}

func TestOrderRepository_ListByUser_NewestFirst(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	userID := uuid.New()
	now := time.Now()

	older := &domain.Order{
		ID: uuid.New(), UserID: userID, TotalAmount: 10,
		PaymentMethod: domain.PaymentMethodCash, PaymentStatus: domain.PaymentStatusPending,
		DeliveryAddress: "1 Test Street", Status: domain.StatusPending,
		CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
	}
	newer := &domain.Order{
		ID: uuid.New(), UserID: userID, TotalAmount: 20,
		PaymentMethod: domain.PaymentMethodCash, PaymentStatus: domain.PaymentStatusPending,
		DeliveryAddress: "1 Test Street", Status: domain.StatusPending,
		CreatedAt: now, UpdatedAt: now,
	}
	for _, order := range []*domain.Order{older, newer} {
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("failed to insert order: %v", err)
		}
	}
	// An order belonging to someone else
	insertTestOrder(t, repo, domain.StatusPending, 99, now)

	orders, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != newer.ID || orders[1].ID != older.ID {
		t.Errorf("orders not newest-first")
	}
}

func TestOrderRepository_ListFilters(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	now := time.Now()

	insertTestOrder(t, repo, domain.StatusPending, 10, now.AddDate(0, 0, -10))
	insertTestOrder(t, repo, domain.StatusDelivered, 20, now.AddDate(0, 0, -5))
	insertTestOrder(t, repo, domain.StatusDelivered, 30, now)

	delivered := domain.StatusDelivered
	orders, err := repo.List(ctx, domain.OrderFilter{Status: &delivered})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 delivered orders, got %d", len(orders))
	}

	start := now.AddDate(0, 0, -7)
	orders, err = repo.List(ctx, domain.OrderFilter{
		Status:    &delivered,
		DateRange: domain.DateRange{Start: &start},
	})
	if err != nil {
		t.Fatalf("List with date range failed: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 orders inside range, got %d", len(orders))
	}

	end := now.AddDate(0, 0, -3)
	orders, err = repo.List(ctx, domain.OrderFilter{
		DateRange: domain.DateRange{Start: &start, End: &end},
	})
	if err != nil {
		t.Fatalf("List with bounded range failed: %v", err)
	}
	if len(orders) != 1 || math.Abs(orders[0].TotalAmount-20) > 0.001 {
		t.Errorf("expected only the middle order, got %d", len(orders))
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := insertTestOrder(t, repo, domain.StatusPending, 15, time.Now())

	if err := repo.UpdateStatus(ctx, order.ID, domain.StatusReady, time.Now()); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	found, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Status != domain.StatusReady {
		t.Errorf("expected status ready, got %s", found.Status)
	}
	if !found.UpdatedAt.After(found.CreatedAt) {
		t.Errorf("updated_at not refreshed")
	}

	err = repo.UpdateStatus(ctx, uuid.New(), domain.StatusReady, time.Now())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for unknown order, got %v", err)
	}
}

func TestOrderRepository_TotalSalesExcludesCancelled(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	now := time.Now()

	insertTestOrder(t, repo, domain.StatusCancelled, 20, now)
	insertTestOrder(t, repo, domain.StatusDelivered, 30, now)

	total, err := repo.TotalSales(ctx, domain.DateRange{})
	if err != nil {
		t.Fatalf("TotalSales failed: %v", err)
	}
	if math.Abs(total.Total-30) > 0.001 {
		t.Errorf("expected total 30, got %f", total.Total)
	}
	if total.Count != 1 {
		t.Errorf("expected count 1, got %d", total.Count)
	}
}

func TestOrderRepository_TotalSalesEmpty(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)

	total, err := repo.TotalSales(context.Background(), domain.DateRange{})
	if err != nil {
		t.Fatalf("TotalSales failed: %v", err)
	}
	if total.Total != 0 || total.Count != 0 {
		t.Errorf("expected zero totals, got %+v", total)
	}
}

func TestOrderRepository_CountByStatusIncludesCancelled(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	now := time.Now()

	insertTestOrder(t, repo, domain.StatusCancelled, 20, now)
	insertTestOrder(t, repo, domain.StatusDelivered, 30, now)
	insertTestOrder(t, repo, domain.StatusDelivered, 40, now)

	counts, err := repo.CountByStatus(ctx, domain.DateRange{})
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}

	byStatus := map[domain.Status]int{}
	for _, count := range counts {
		byStatus[count.Status] = count.Count
	}
	if byStatus[domain.StatusCancelled] != 1 {
		t.Errorf("expected 1 cancelled, got %d", byStatus[domain.StatusCancelled])
	}
	if byStatus[domain.StatusDelivered] != 2 {
		t.Errorf("expected 2 delivered, got %d", byStatus[domain.StatusDelivered])
	}
}

func TestOrderRepository_DailySales(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	now := time.Now()

	insertTestOrder(t, repo, domain.StatusDelivered, 10, now.AddDate(0, 0, -45))
	insertTestOrder(t, repo, domain.StatusDelivered, 12, now.AddDate(0, 0, -2))
	insertTestOrder(t, repo, domain.StatusDelivered, 18, now.AddDate(0, 0, -2))
	insertTestOrder(t, repo, domain.StatusDelivered, 25, now.AddDate(0, 0, -1))
	insertTestOrder(t, repo, domain.StatusCancelled, 99, now.AddDate(0, 0, -1))

	sales, err := repo.DailySales(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("DailySales failed: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 days, got %d", len(sales))
	}
	if sales[0].Period >= sales[1].Period {
		t.Errorf("daily series not ascending")
	}
	if math.Abs(sales[0].Total-30) > 0.001 || sales[0].Count != 2 {
		t.Errorf("expected day with two orders totalling 30, got %+v", sales[0])
	}
	if math.Abs(sales[1].Total-25) > 0.001 || sales[1].Count != 1 {
		t.Errorf("expected day with one order of 25, got %+v", sales[1])
	}
}

func TestOrderRepository_MonthlySales(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	now := time.Now()

	insertTestOrder(t, repo, domain.StatusDelivered, 10, now.AddDate(0, -2, 0))
	insertTestOrder(t, repo, domain.StatusDelivered, 20, now.AddDate(0, -1, 0))
	insertTestOrder(t, repo, domain.StatusDelivered, 30, now)
	insertTestOrder(t, repo, domain.StatusCancelled, 99, now)

	sales, err := repo.MonthlySales(ctx, 12)
	if err != nil {
		t.Fatalf("MonthlySales failed: %v", err)
	}
	if len(sales) != 3 {
		t.Fatalf("expected 3 months, got %d", len(sales))
	}
	for i := 1; i < len(sales); i++ {
		if sales[i-1].Period <= sales[i].Period {
			t.Errorf("monthly series not descending at index %d", i)
		}
	}
	if math.Abs(sales[0].Total-30) > 0.001 {
		t.Errorf("expected current month total 30, got %f", sales[0].Total)
	}

	capped, err := repo.MonthlySales(ctx, 2)
	if err != nil {
		t.Fatalf("MonthlySales with limit failed: %v", err)
	}
	if len(capped) != 2 {
		t.Errorf("expected limit of 2 months, got %d", len(capped))
	}
}

func TestOrderRepository_TopProducts(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	now := time.Now()

	cheap := lineItem("Garlic Bread", 5, 10)
	pricey := lineItem("Meat Feast", 20, 3)
	insertTestOrder(t, repo, domain.StatusDelivered, 50, now, cheap)
	insertTestOrder(t, repo, domain.StatusDelivered, 60, now, pricey)

	// Same product again in a second order; quantities and revenue accumulate
	again := lineItem("Garlic Bread", 5, 4)
	again.ProductID = cheap.ProductID
	insertTestOrder(t, repo, domain.StatusDelivered, 20, now, again)

	products, err := repo.TopProducts(ctx, domain.DateRange{}, 10)
	if err != nil {
		t.Fatalf("TopProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	if products[0].ProductID != cheap.ProductID {
		t.Errorf("expected Garlic Bread ranked first by revenue, got %s", products[0].Name)
	}
	if math.Abs(products[0].TotalRevenue-70) > 0.001 || products[0].TotalQuantity != 14 {
		t.Errorf("expected accumulated revenue 70 over 14 units, got %+v", products[0])
	}
	if math.Abs(products[1].TotalRevenue-60) > 0.001 {
		t.Errorf("expected revenue 60 for Meat Feast, got %f", products[1].TotalRevenue)
	}

	capped, err := repo.TopProducts(ctx, domain.DateRange{}, 1)
	if err != nil {
		t.Fatalf("TopProducts with limit failed: %v", err)
	}
	if len(capped) != 1 {
		t.Errorf("expected limit of 1 product, got %d", len(capped))
	}
}

func TestProperty_OrderRoundTripPreservesTotals(t *testing.T) {
	clearTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("storing and reloading an order preserves its total and line items", prop.ForAll(
		func(rawPrice float64, quantity int) bool {
			price := math.Round(rawPrice*100) / 100
			total := price * float64(quantity)

			order := insertTestOrder(t, repo, domain.StatusPending, total, time.Now(),
				lineItem("Round Trip Special", price, quantity))

			found, err := repo.FindByID(ctx, order.ID)
			if err != nil {
				t.Logf("FAIL: FindByID returned error: %v", err)
				return false
			}

			if math.Abs(found.TotalAmount-total) > 0.001 {
				t.Logf("FAIL: total %f, expected %f", found.TotalAmount, total)
				return false
			}
			if len(found.Items) != 1 {
				t.Logf("FAIL: expected 1 item, got %d", len(found.Items))
				return false
			}
			if found.Items[0].Quantity != quantity {
				t.Logf("FAIL: quantity %d, expected %d", found.Items[0].Quantity, quantity)
				return false
			}
			return math.Abs(found.Items[0].Price-price) <= 0.001
		},
		gen.Float64Range(0, 500),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
