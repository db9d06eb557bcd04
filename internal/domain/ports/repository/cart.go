package repository

import (
	"context"

	"telegram-car-rental/internal/domain/model"
)

// -----------------------------
// Cart
// -----------------------------

type CartRepository interface {
	FindItem(ctx context.Context, tx Tx, userID, productID int64) (*model.CartItem, error)
	// Save inserts the item or updates the quantity of the existing
	// (user, product) line.
	Save(ctx context.Context, tx Tx, item *model.CartItem) error
	Delete(ctx context.Context, tx Tx, userID, productID int64) error
	// ListByUser returns the user's lines ordered by id with Product loaded.
	ListByUser(ctx context.Context, tx Tx, userID int64) ([]*model.CartItem, error)
}
