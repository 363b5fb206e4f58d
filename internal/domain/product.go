package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog read-model referenced by carts and orders.
// The cart flow only depends on ID and Sell.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"        validate:"required,max=100"`
	Price       int64     `json:"price"       validate:"gte=0"`
	Description string    `json:"description" validate:"max=2000"`
	Image       string    `json:"image"`
	Sell        bool      `json:"sell"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProduct creates a product with a fresh ID.
func NewProduct(name string, price int64, description, image string, sell bool) (*Product, error) {
	p := &Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		Description: description,
		Image:       image,
		Sell:        sell,
		CreatedAt:   time.Now().UTC(),
	}
	if err := validateStruct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Available reports whether the product can be added to a cart.
func (p *Product) Available() bool {
	return p != nil && p.Sell
}
