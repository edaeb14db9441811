package store

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingShippingAddress is returned before any state is touched.
	ErrMissingShippingAddress = errors.New("shipping address is required")

	// ErrEmptyCart covers both "no active cart" and "active cart with no
	// lines". A placement attempt that loses the retirement race also
	// surfaces as ErrEmptyCart: the cart was already spent.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrProductUnavailable means a referenced product is missing or was
	// deactivated between add-to-cart and placement.
	ErrProductUnavailable = errors.New("product unavailable")

	// ErrCartRetired rejects mutations of a retired (historical) cart.
	ErrCartRetired = errors.New("cart is retired")

	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// StockShort describes one cart line that could not be covered by stock.
type StockShort struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError reports every short line of a failed placement,
// not just the first one found.
type InsufficientStockError struct {
	Shorts []StockShort
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d product(s)", len(e.Shorts))
}
