package rest

import (
	"strings"

	"github.com/abgdnv/productcatalog/internal/product/store"
)

// ProductDto is the JSON shape of a product on the wire.
type ProductDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// toDto projects a stored product onto the wire shape. The name is trimmed.
func toDto(p *store.Product) ProductDto {
	return ProductDto{
		ID:   p.ID,
		Name: strings.TrimSpace(p.Name),
	}
}

// toDtos projects a list of products, keeping the order. Never returns nil.
func toDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, 0, len(products))
	for i := range products {
		dtos = append(dtos, toDto(&products[i]))
	}
	return dtos
}

// toEntity copies the wire fields onto a new product.
func (d ProductDto) toEntity() *store.Product {
	return &store.Product{
		ID:   d.ID,
		Name: d.Name,
	}
}

// paginate returns the page of items selected by a 1-based page number and a page size.
// A page past the end is empty.
func paginate[T any](items []T, pageNumber, pageSize int32) []T {
	skip := int64(pageNumber-1) * int64(pageSize)
	if skip >= int64(len(items)) {
		return items[:0]
	}
	end := skip + int64(pageSize)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}
