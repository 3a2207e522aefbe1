// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/platform/web"
	producterrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Delete("/", h.DeleteByID)
			r.Put("/", h.Update)
		})
	})
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, id, "retrieve")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, toDto(found))
}

// Search returns one page of the active products whose name contains the name query parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	pageNumber, ok := web.ParseValidateGte(r, w, mLogger, "pageNumber", 1, defaultPageNumber)
	if !ok {
		return
	}
	pageSize, ok := web.ParseValidateGte(r, w, mLogger, "pageSize", 1, defaultPageSize)
	if !ok {
		return
	}
	name := r.URL.Query().Get("name")

	mLogger.DebugContext(r.Context(), "Received request to search products", "name", name, "pageNumber", pageNumber, "pageSize", pageSize)
	found, err := h.service.SearchByName(r.Context(), name)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error searching products", "name", name, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to search products")
		return
	}
	page := paginate(toDtos(found), pageNumber, pageSize)
	mLogger.DebugContext(r.Context(), "Successfully searched products", "total", len(found), "count", len(page))
	web.RespondJSON(w, mLogger, http.StatusOK, page)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	productDto, ok := h.decode(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", productDto)

	created, err := h.service.Create(r.Context(), productDto.toEntity())
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, 0, "create")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, toDto(created))
}

// Update replaces the name of the product identified by the path ID. The ID in the body is ignored.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	productDto, ok := h.decode(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id, "product", productDto)

	updated, err := h.service.Update(r.Context(), id, productDto.toEntity())
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, id, "update")
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, toDto(updated))
}

// DeleteByID soft-deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, mLogger, err, id, "delete")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a ProductDto from the request body.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (ProductDto, bool) {
	var productDto ProductDto
	if err := json.NewDecoder(r.Body).Decode(&productDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return ProductDto{}, false
	}
	return productDto, true
}

// invalidNameFields is reported when the error names no failed fields.
var invalidNameFields = map[string]string{"Name": "failed on rule: required"}

// respondServiceError maps a service error onto the HTTP status and body.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error, id int64, operation string) {
	switch {
	case errors.Is(err, producterrors.ErrInvalidName):
		fields := invalidNameFields
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			fields = validationErr.Fields
		}
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", fields)
		web.RespondValidationErrors(w, mLogger, fields)
	case errors.Is(err, producterrors.ErrProductNotFound):
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id, "operation", operation)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product was not found by Id: %d.", id))
	default:
		mLogger.ErrorContext(r.Context(), "Error processing product", "ID", id, "operation", operation, "error", err)
		if id == 0 {
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to %s product", operation))
			return
		}
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to %s product with ID %d", operation, id))
	}
}
