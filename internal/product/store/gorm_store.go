package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormStore implements ProductStore on top of a GORM connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new instance of ProductStore using a GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID or the product is soft-deleted.
func (s *GormStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// Create inserts a new product and fills in the generated ID.
func (s *GormStore) Create(ctx context.Context, product *Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the name and deleted flag of an existing product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *GormStore) Update(ctx context.Context, product *Product) error {
	// a map keeps zero values (deleted=false, empty name) in the SET clause
	result := s.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":    product.Name,
			"deleted": product.Deleted,
		})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// SearchByName returns non-deleted products whose name contains fragment (case-insensitive), ordered by name.
func (s *GormStore) SearchByName(ctx context.Context, fragment string) ([]Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(fragment)) + "%"
	products := make([]Product, 0)
	err := s.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' AND deleted = ?`, pattern, false).
		Order("name ASC").
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products by name: %w", err)
	}
	return products, nil
}

// SeedIfEmpty inserts a product for every name when the products table holds no rows at all.
// Returns the number of inserted products.
func (s *GormStore) SeedIfEmpty(ctx context.Context, names ...string) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 || len(names) == 0 {
		return 0, nil
	}
	products := make([]Product, 0, len(names))
	for _, name := range names {
		products = append(products, Product{Name: name})
	}
	if err := s.db.WithContext(ctx).Create(&products).Error; err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}
	return len(products), nil
}
