package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
	"telegram-car-rental/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ CatalogUseCase = (*catalogUC)(nil)

// CatalogUseCase covers categories, products and info-page banners.
type CatalogUseCase interface {
	Categories(ctx context.Context) ([]*model.Category, error)
	Category(ctx context.Context, id int64) (*model.Category, error)
	Products(ctx context.Context, categoryID int64, includeOccupied bool) ([]*model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	InfoPages(ctx context.Context) ([]*model.Banner, error)
	// SetBannerImage replaces the picture of an info page, creating the
	// banner row when it was never seeded.
	SetBannerImage(ctx context.Context, page, image string) error
}

type catalogUC struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	banners    repository.BannerRepository
	log        *zerolog.Logger
}

func NewCatalogUseCase(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	banners repository.BannerRepository,
	logger *zerolog.Logger,
) *catalogUC {
	return &catalogUC{categories: categories, products: products, banners: banners, log: logger}
}

func (c *catalogUC) Categories(ctx context.Context) ([]*model.Category, error) {
	defer logging.TraceDuration(c.log, "CatalogUC.Categories")()
	list, err := c.categories.List(ctx, repository.NoTX)
	if err != nil {
		return nil, domain.RepositoryError("list categories", err)
	}
	return list, nil
}

func (c *catalogUC) Category(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := c.categories.FindByID(ctx, repository.NoTX, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.RepositoryError("find category", err)
	}
	return cat, err
}

func (c *catalogUC) Products(ctx context.Context, categoryID int64, includeOccupied bool) ([]*model.Product, error) {
	defer logging.TraceDuration(c.log, "CatalogUC.Products")()
	list, err := c.products.ListByCategory(ctx, repository.NoTX, categoryID, includeOccupied)
	if err != nil {
		return nil, domain.RepositoryError("list products", err)
	}
	return list, nil
}

func (c *catalogUC) Product(ctx context.Context, id int64) (*model.Product, error) {
	p, err := c.products.FindByID(ctx, repository.NoTX, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.RepositoryError("find product", err)
	}
	return p, err
}

func (c *catalogUC) CreateProduct(ctx context.Context, p *model.Product) error {
	defer logging.TraceDuration(c.log, "CatalogUC.CreateProduct")()
	if err := p.Validate(); err != nil {
		return err
	}
	if err := c.products.Create(ctx, repository.NoTX, p); err != nil {
		return domain.RepositoryError("create product", err)
	}
	c.log.Info().Int64("product_id", p.ID).Int64("category_id", p.CategoryID).Msg("product created")
	return nil
}

func (c *catalogUC) UpdateProduct(ctx context.Context, p *model.Product) error {
	defer logging.TraceDuration(c.log, "CatalogUC.UpdateProduct")()
	if err := p.Validate(); err != nil {
		return err
	}
	if err := c.products.Update(ctx, repository.NoTX, p); err != nil {
		return domain.RepositoryError("update product", err)
	}
	c.log.Info().Int64("product_id", p.ID).Msg("product updated")
	return nil
}

func (c *catalogUC) DeleteProduct(ctx context.Context, id int64) error {
	defer logging.TraceDuration(c.log, "CatalogUC.DeleteProduct")()
	if err := c.products.Delete(ctx, repository.NoTX, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return domain.RepositoryError("delete product", err)
	}
	c.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (c *catalogUC) InfoPages(ctx context.Context) ([]*model.Banner, error) {
	list, err := c.banners.List(ctx, repository.NoTX)
	if err != nil {
		return nil, domain.RepositoryError("list banners", err)
	}
	return list, nil
}

func (c *catalogUC) SetBannerImage(ctx context.Context, page, image string) error {
	defer logging.TraceDuration(c.log, "CatalogUC.SetBannerImage")()
	if !slices.Contains(model.InfoPages, page) || image == "" {
		return fmt.Errorf("banner page %q: %w", page, domain.ErrInvalidArgument)
	}
	err := c.banners.SetImage(ctx, repository.NoTX, page, image)
	if errors.Is(err, domain.ErrNotFound) {
		err = c.banners.Save(ctx, repository.NoTX, &model.Banner{Name: page, Image: image})
	}
	if err != nil {
		return domain.RepositoryError("set banner image", err)
	}
	return nil
}
