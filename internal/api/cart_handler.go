package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/service"
)

// CartHandler handles cart, checkout and order history requests.
type CartHandler struct {
	carts  service.CartService
	logger *slog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts service.CartService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CartHandler")
	}
	return &CartHandler{
		carts:  carts,
		logger: logger.With(slog.String("component", "cart_handler")),
	}
}

// AddToCart handles POST /api/users/cart.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.carts.AddToCart(r.Context(), user, req.Product, req.Amount); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondOK(w, r, nil)
}

// GetCart handles GET /api/users/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	lines, err := h.carts.GetCart(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondOK(w, r, lines)
}

// EditCart handles PATCH /api/users/cart.
func (h *CartHandler) EditCart(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.carts.EditCart(r.Context(), user, req.Product, req.Amount); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondOK(w, r, nil)
}

// Checkout handles POST /api/users/checkout. An empty cart still succeeds.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	order, err := h.carts.Checkout(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if order != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("checkout completed",
			"user_id", user.ID,
			"order_id", order.ID)
	}
	shared.RespondOK(w, r, nil)
}

// GetOrders handles GET /api/users/orders.
func (h *CartHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.carts.GetOrders(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondOK(w, r, orders)
}

// GetAllOrders handles GET /api/users/orders/all.
func (h *CartHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.carts.GetAllOrders(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondOK(w, r, orders)
}
