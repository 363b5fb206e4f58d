package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/service"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog service.CatalogService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProductHandler")
	}
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "product_handler")),
	}
}

// ListProducts handles GET /api/products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondOK(w, r, products)
}

// GetProduct handles GET /api/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondOK(w, r, product)
}

// CreateProduct handles POST /api/products. Administrators only.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), user, service.NewProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Sell:        req.Sell,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondOK(w, r, product)
}
