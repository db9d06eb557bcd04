package repository

import (
	"context"

	"telegram-car-rental/internal/domain/model"
)

// -----------------------------
// Catalog
// -----------------------------

type CategoryRepository interface {
	List(ctx context.Context, tx Tx) ([]*model.Category, error)
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Category, error)
}

type ProductRepository interface {
	// ListByCategory returns products ordered by id. Occupied products are
	// skipped unless includeOccupied is set.
	ListByCategory(ctx context.Context, tx Tx, categoryID int64, includeOccupied bool) ([]*model.Product, error)
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Product, error)
	// Create stores p and sets p.ID.
	Create(ctx context.Context, tx Tx, p *model.Product) error
	Update(ctx context.Context, tx Tx, p *model.Product) error
	Delete(ctx context.Context, tx Tx, id int64) error
}

type BannerRepository interface {
	List(ctx context.Context, tx Tx) ([]*model.Banner, error)
	FindByName(ctx context.Context, tx Tx, name string) (*model.Banner, error)
	// Save inserts a banner or replaces the one with the same name.
	Save(ctx context.Context, tx Tx, b *model.Banner) error
	SetImage(ctx context.Context, tx Tx, name, image string) error
}
