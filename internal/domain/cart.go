package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line in a user's cart. Amount is always positive
// at rest; an edit to zero or below removes the line instead.
type CartItem struct {
	ProductID uuid.UUID `json:"product"`
	Amount    int       `json:"amount"`
}

// Order is an immutable snapshot of a cart taken at checkout.
type Order struct {
	ID       uuid.UUID  `json:"id"`
	Products []CartItem `json:"products"`
	Date     time.Time  `json:"date"`
}

// CartLine is a cart item with its product resolved. Product is nil when the
// catalog no longer holds the referenced product.
type CartLine struct {
	Product *Product `json:"product"`
	Amount  int      `json:"amount"`
}

// OrderView is an order with every line's product resolved.
type OrderView struct {
	ID       uuid.UUID  `json:"id"`
	Products []CartLine `json:"products"`
	Date     time.Time  `json:"date"`
}

// UserOrder is an order annotated with its owner, used by the admin listing.
type UserOrder struct {
	OrderView
	User UserRef `json:"user"`
}

// NewOrder snapshots items into a new order dated at date. The items slice is
// copied so later cart edits cannot reach the order.
func NewOrder(items []CartItem, date time.Time) *Order {
	products := make([]CartItem, len(items))
	copy(products, items)
	return &Order{
		ID:       uuid.New(),
		Products: products,
		Date:     date.UTC(),
	}
}

// MaxAmount is the largest quantity a single cart line may hold.
const MaxAmount = math.MaxInt32

// ErrAmountTooLarge is wrapped by every error for an amount above MaxAmount,
// including an add that would push an existing line past it.
var ErrAmountTooLarge = fmt.Errorf("%w: amount too large", ErrValidation)

// NewAmountTooLargeError returns the client-facing error for ErrAmountTooLarge.
func NewAmountTooLargeError() *ValidationError {
	return NewValidationError("amount", fmt.Sprintf("amount must be at most %d", MaxAmount), ErrAmountTooLarge)
}

// ValidateAmount checks an amount supplied when adding to the cart.
func ValidateAmount(amount int) error {
	if amount <= 0 {
		return NewValidationError("amount", "amount must be greater than 0", ErrValidation)
	}
	return ValidateAmountLimit(amount)
}

// ValidateAmountLimit checks only the upper bound. Cart edits use it because
// an amount of zero or below removes the line.
func ValidateAmountLimit(amount int) error {
	if amount > MaxAmount {
		return NewAmountTooLargeError()
	}
	return nil
}

// ProductIDs collects the distinct product IDs referenced by items, in order
// of first appearance.
func ProductIDs(items []CartItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ResolveLines joins items against products. Missing products resolve to nil.
func ResolveLines(items []CartItem, products map[uuid.UUID]*Product) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			Product: products[item.ProductID],
			Amount:  item.Amount,
		})
	}
	return lines
}
