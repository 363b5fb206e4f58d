package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/domain"
)

// RegisterRequest defines the payload for the registration endpoint.
// Field constraints are enforced by the domain so the messages match.
type RegisterRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Account  string `json:"account"  validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the envelope returned by a successful login.
type LoginResponse struct {
	shared.Response
	Email   string      `json:"email"`
	Account string      `json:"account"`
	Role    domain.Role `json:"role"`
}

// CartRequest defines the payload for adding to and editing the cart.
// Amount is checked by the service: adding requires it to be positive and
// editing treats zero or less as removal.
type CartRequest struct {
	Product uuid.UUID `json:"product" validate:"required"`
	Amount  int       `json:"amount"`
}

// CreateProductRequest defines the payload for creating a product.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Sell        bool   `json:"sell"`
}
