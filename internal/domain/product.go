package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultProductImage is used when a product is created without an image URL
const DefaultProductImage = "https://via.placeholder.com/300x300?text=No+Image"

// Category is a product category from the fixed menu taxonomy
type Category string

const (
	CategoryPizza   Category = "pizza"
	CategoryBurger  Category = "burger"
	CategoryDrink   Category = "drink"
	CategoryDeal    Category = "deal"
	CategorySide    Category = "side"
	CategoryDessert Category = "dessert"
)

// Categories returns every valid product category
func Categories() []Category {
	return []Category{
		CategoryPizza,
		CategoryBurger,
		CategoryDrink,
		CategoryDeal,
		CategorySide,
		CategoryDessert,
	}
}

// IsValidCategory reports whether c is one of the enumerated categories
func IsValidCategory(c Category) bool {
	for _, valid := range Categories() {
		if c == valid {
			return true
		}
	}
	return false
}

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    Category  `json:"category" db:"category"`
	Price       float64   `json:"price" db:"price"`
	Image       string    `json:"image" db:"image"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
