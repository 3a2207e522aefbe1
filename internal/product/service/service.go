// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/productcatalog/internal/platform/messaging"
	"github.com/abgdnv/productcatalog/internal/platform/messaging/events"
	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// GetByID retrieves a single active product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID or it was deleted.
	GetByID(ctx context.Context, id int64) (*store.Product, error)

	// Delete marks a product as deleted. A deleted product can not be fetched, updated or deleted again.
	// Returns ErrProductNotFound if no active product exists with the given ID.
	Delete(ctx context.Context, id int64) error

	// Create validates and persists a new product. The store assigns the ID.
	// Returns ErrInvalidName if the product fails validation.
	Create(ctx context.Context, product *store.Product) (*store.Product, error)

	// Update replaces the name of an existing product.
	// Returns ErrProductNotFound if no active product exists with the given ID,
	// or ErrInvalidName if the new product fails validation.
	Update(ctx context.Context, id int64, product *store.Product) (*store.Product, error)

	// SearchByName returns all active products whose name contains fragment, ignoring case, ordered by name.
	// Returns an empty slice if nothing matches.
	SearchByName(ctx context.Context, fragment string) ([]store.Product, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository       store.ProductStore
	validator        *Validator
	publisher        messaging.Publisher
	logger           *slog.Logger
	mutationsCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository.
// A nil publisher disables lifecycle events.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	meter := otel.Meter("product-service")
	mutationsCounter, err := meter.Int64Counter("product_mutations",
		metric.WithDescription("Total number of persisted product mutations"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_mutations counter: %v", err))
	}
	return &Service{
		repository:       repo,
		validator:        NewValidator(),
		publisher:        publisher,
		logger:           logger.With("component", "service"),
		mutationsCounter: mutationsCounter,
	}
}

// GetByID retrieves an active product by its ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*store.Product, error) {
	return s.findActive(ctx, id)
}

// Delete soft-deletes a product by setting its deleted flag.
func (s *Service) Delete(ctx context.Context, id int64) error {
	product, err := s.findActive(ctx, id)
	if err != nil {
		return err
	}
	product.Deleted = true
	if err := s.repository.Update(ctx, product); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Product marked as deleted", "ID", id)
	s.afterMutation(ctx, "delete", events.NewProductDeleted(product.ID, product.Name, s.traceCarrier(ctx)))
	return nil
}

// Create validates the product and inserts it as a new row.
// Any ID or deleted flag on the input is ignored.
func (s *Service) Create(ctx context.Context, product *store.Product) (*store.Product, error) {
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}
	created := &store.Product{Name: product.Name}
	if err := s.repository.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.InfoContext(ctx, "Record for product was created", "ID", created.ID, "Name", created.Name)
	s.afterMutation(ctx, "create", events.NewProductCreated(created.ID, created.Name, s.traceCarrier(ctx)))
	return created, nil
}

// Update overwrites the name of the product identified by id.
// The ID and deleted flag carried by product are ignored.
func (s *Service) Update(ctx context.Context, id int64, product *store.Product) (*store.Product, error) {
	existing, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}
	existing.Name = product.Name
	if err := s.repository.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Record for product was updated", "ID", id)
	s.afterMutation(ctx, "update", events.NewProductUpdated(existing.ID, existing.Name, s.traceCarrier(ctx)))
	return existing, nil
}

// SearchByName returns the active products whose name contains fragment.
func (s *Service) SearchByName(ctx context.Context, fragment string) ([]store.Product, error) {
	products, err := s.repository.SearchByName(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search products by name %q: %w", fragment, err)
	}
	if len(products) == 0 {
		s.logger.WarnContext(ctx, "No product was found by name", "name", fragment)
		return []store.Product{}, nil
	}
	s.logger.InfoContext(ctx, "Returned products from database", "name", fragment, "count", len(products))
	return products, nil
}

// findActive fetches a product that exists and is not deleted.
func (s *Service) findActive(ctx context.Context, id int64) (*store.Product, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			s.logger.WarnContext(ctx, "Product was not found", "ID", id)
		}
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return product, nil
}

func (s *Service) validate(ctx context.Context, product *store.Product) error {
	if err := s.validator.Validate(product); err != nil {
		s.logger.ErrorContext(ctx, "Validation error", "error", err)
		return err
	}
	return nil
}

// afterMutation records the mutation metric and publishes the lifecycle event.
// A failed publish is logged; the mutation itself is already persisted.
func (s *Service) afterMutation(ctx context.Context, operation string, event messaging.Event) {
	s.mutationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

// traceCarrier captures the current trace context so consumers can continue the trace.
func (s *Service) traceCarrier(ctx context.Context) map[string]string {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) == 0 {
		return nil
	}
	return carrier
}
