// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID or the product is soft-deleted.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// Create inserts a new product row. The store assigns product.ID.
	Create(ctx context.Context, product *Product) error

	// Update persists the current name and deleted flag of the product by its ID.
	// Returns ErrProductNotFound if no row exists with the given ID.
	Update(ctx context.Context, product *Product) error

	// SearchByName returns the non-deleted products whose name contains fragment, ignoring case,
	// ordered by name. Returns an empty slice if nothing matches.
	SearchByName(ctx context.Context, fragment string) ([]Product, error)
}

// Product represents a product entity in the store.
type Product struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null" validate:"required"`
	Deleted   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}
