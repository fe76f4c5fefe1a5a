package transport

import (
	"net/http"
	"testing"

	"prime-pizza/internal/domain"
	"prime-pizza/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type productHandlerFixture struct {
	handler     *ProductHandler
	productRepo *mockProductRepository
}

func newProductHandlerFixture() *productHandlerFixture {
	productRepo := newMockProductRepository()
	logger, _ := zap.NewDevelopment()

	return &productHandlerFixture{
		handler:     NewProductHandler(service.NewProductService(productRepo), logger, true),
		productRepo: productRepo,
	}
}

func (f *productHandlerFixture) router(userID uuid.UUID, role string) chi.Router {
	r := chi.NewRouter()
	f.handler.RegisterRoutes(r, stubAuth(userID, role))
	return r
}

func TestProductHandler_CreateAndGet(t *testing.T) {
	fixture := newProductHandlerFixture()
	adminRouter := fixture.router(uuid.New(), domain.RoleAdmin)

	w, resp := doJSON(t, adminRouter, http.MethodPost, "/api/products", ProductRequest{
		Name:        "Margherita",
		Description: "Classic pizza",
		Category:    "pizza",
		Price:       12.99,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, resp.Message)
	}

	var created domain.Product
	if err := unmarshalData(resp, &created); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}
	if created.Image != domain.DefaultProductImage {
		t.Errorf("expected placeholder image applied, got %s", created.Image)
	}
	if !created.Available {
		t.Error("expected availability to default to true")
	}

	w, resp = doJSON(t, adminRouter, http.MethodGet, "/api/products/"+created.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var found domain.Product
	if err := unmarshalData(resp, &found); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}
	if found.Name != "Margherita" {
		t.Errorf("unexpected product: %+v", found)
	}
}

func TestProductHandler_Create_Validation(t *testing.T) {
	fixture := newProductHandlerFixture()
	adminRouter := fixture.router(uuid.New(), domain.RoleAdmin)

	longName := make([]byte, 101)
	for i := range longName {
		longName[i] = 'x'
	}

	cases := []struct {
		name string
		req  ProductRequest
	}{
		{"missing name", ProductRequest{Description: "d", Category: "pizza", Price: 1}},
		{"name too long", ProductRequest{Name: string(longName), Description: "d", Category: "pizza", Price: 1}},
		{"bad category", ProductRequest{Name: "Sushi Roll", Description: "d", Category: "sushi", Price: 1}},
		{"negative price", ProductRequest{Name: "Freebie", Description: "d", Category: "pizza", Price: -1}},
		{"bad image url", ProductRequest{Name: "Pic", Description: "d", Category: "pizza", Price: 1, Image: "not-a-url"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := doJSON(t, adminRouter, http.MethodPost, "/api/products", tc.req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if resp.Success {
				t.Error("expected failure envelope")
			}
		})
	}
}

func TestProductHandler_WritesRequireAdmin(t *testing.T) {
	fixture := newProductHandlerFixture()
	customerRouter := fixture.router(uuid.New(), domain.RoleCustomer)

	w, _ := doJSON(t, customerRouter, http.MethodPost, "/api/products", ProductRequest{
		Name: "Margherita", Description: "d", Category: "pizza", Price: 12.99,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for customer create, got %d", w.Code)
	}

	w, _ = doJSON(t, customerRouter, http.MethodDelete, "/api/products/"+uuid.New().String(), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for customer delete, got %d", w.Code)
	}
}

func TestProductHandler_ListAndCategories(t *testing.T) {
	fixture := newProductHandlerFixture()
	router := fixture.router(uuid.New(), domain.RoleCustomer)
	adminRouter := fixture.router(uuid.New(), domain.RoleAdmin)

	for _, name := range []string{"Margherita", "Pepperoni"} {
		w, _ := doJSON(t, adminRouter, http.MethodPost, "/api/products", ProductRequest{
			Name: name, Description: "d", Category: "pizza", Price: 12.99,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("failed to create product: %d", w.Code)
		}
	}

	// Reads are public
	w, resp := doJSON(t, router, http.MethodGet, "/api/products", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp.Count == nil || *resp.Count != 2 {
		t.Errorf("expected count 2, got %v", resp.Count)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/products?category=pizza", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with category filter, got %d", w.Code)
	}
	if resp.Count == nil || *resp.Count != 2 {
		t.Errorf("expected count 2 for pizza filter, got %v", resp.Count)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/products/categories", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for categories, got %d", w.Code)
	}
}

func TestProductHandler_UpdateAndDelete(t *testing.T) {
	fixture := newProductHandlerFixture()
	adminRouter := fixture.router(uuid.New(), domain.RoleAdmin)

	w, resp := doJSON(t, adminRouter, http.MethodPost, "/api/products", ProductRequest{
		Name: "Margherita", Description: "d", Category: "pizza", Price: 12.99,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create product: %d", w.Code)
	}
	var created domain.Product
	if err := unmarshalData(resp, &created); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}

	w, resp = doJSON(t, adminRouter, http.MethodPut, "/api/products/"+created.ID.String(), ProductRequest{
		Name: "Margherita", Description: "d", Category: "pizza", Price: 13.99,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, resp.Message)
	}
	var updated domain.Product
	if err := unmarshalData(resp, &updated); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}
	if updated.Price != 13.99 {
		t.Errorf("expected price 13.99, got %f", updated.Price)
	}

	w, _ = doJSON(t, adminRouter, http.MethodDelete, "/api/products/"+created.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for delete, got %d", w.Code)
	}

	w, _ = doJSON(t, adminRouter, http.MethodGet, "/api/products/"+created.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}

	w, _ = doJSON(t, adminRouter, http.MethodPut, "/api/products/"+uuid.New().String(), ProductRequest{
		Name: "Ghost", Description: "d", Category: "pizza", Price: 1,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 updating unknown product, got %d", w.Code)
	}
}

func TestProductHandler_Seed(t *testing.T) {
	fixture := newProductHandlerFixture()
	router := fixture.router(uuid.New(), domain.RoleCustomer)

	w, resp := doJSON(t, router, http.MethodPost, "/api/products/seed", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if resp.Count == nil || *resp.Count == 0 {
		t.Errorf("expected seeded products, got %v", resp.Count)
	}
	if len(fixture.productRepo.products) == 0 {
		t.Error("expected catalog populated")
	}
}
