package model

import "telegram-car-rental/internal/domain"

// CartItem is one cart line; (UserID, ProductID) is unique.
// UserID holds the Telegram user id of the owner.
type CartItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int

	// Product is populated by list queries.
	Product *Product
}

func NewCartItem(userID, productID int64) (*CartItem, error) {
	if userID <= 0 || productID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &CartItem{UserID: userID, ProductID: productID, Quantity: 1}, nil
}

// Total returns price times quantity, or 0 when the product is not loaded.
func (c *CartItem) Total() float64 {
	if c.Product == nil {
		return 0
	}
	return c.Product.Price * float64(c.Quantity)
}

// CartTotal sums all line totals.
func CartTotal(items []*CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Total()
	}
	return sum
}
