package usecase

import (
	"context"
	"errors"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
	"telegram-car-rental/internal/infra/logging"
	"telegram-car-rental/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

var _ CartUseCase = (*cartUC)(nil)

// CartUseCase manages cart lines. userID is always the Telegram user id.
type CartUseCase interface {
	// Add increments the line for the product or creates it with quantity 1.
	// It returns the new quantity.
	Add(ctx context.Context, userID, productID int64) (int, error)
	Quantity(ctx context.Context, userID, productID int64) (int, error)
	Items(ctx context.Context, userID int64) ([]*model.CartItem, error)
	Increment(ctx context.Context, userID, productID int64) error
	// Decrement removes the line when the quantity would drop below 1.
	Decrement(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
}

type cartUC struct {
	cart     repository.CartRepository
	products repository.ProductRepository
	users    repository.UserRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewCartUseCase(
	cart repository.CartRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *cartUC {
	return &cartUC{cart: cart, products: products, users: users, tm: tm, log: logger}
}

// Read-modify-write without row locks: concurrent adds by the same user may
// lose an increment.
var cartTxOpts = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func (c *cartUC) Add(ctx context.Context, userID, productID int64) (int, error) {
	defer logging.TraceDuration(c.log, "CartUC.Add")()

	ok, err := c.users.Exists(ctx, repository.NoTX, userID)
	if err != nil {
		return 0, domain.RepositoryError("user exists", err)
	}
	if !ok {
		return 0, domain.ErrNotRegistered
	}
	if _, err := c.products.FindByID(ctx, repository.NoTX, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		return 0, domain.RepositoryError("find product", err)
	}

	qty, err := c.bump(ctx, userID, productID, true)
	if err != nil {
		return 0, err
	}
	metrics.IncCartOperation("add")
	return qty, nil
}

func (c *cartUC) Increment(ctx context.Context, userID, productID int64) error {
	defer logging.TraceDuration(c.log, "CartUC.Increment")()
	if _, err := c.bump(ctx, userID, productID, false); err != nil {
		return err
	}
	metrics.IncCartOperation("increment")
	return nil
}

// bump adds one to the line. create allows inserting a missing line.
func (c *cartUC) bump(ctx context.Context, userID, productID int64, create bool) (int, error) {
	var qty int
	err := c.tm.WithTx(ctx, cartTxOpts, func(ctx context.Context, tx repository.Tx) error {
		item, err := c.cart.FindItem(ctx, tx, userID, productID)
		switch {
		case errors.Is(err, domain.ErrNotFound) && create:
			if item, err = model.NewCartItem(userID, productID); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			item.Quantity++
		}
		if err := c.cart.Save(ctx, tx, item); err != nil {
			return err
		}
		qty = item.Quantity
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidArgument) {
			return 0, err
		}
		return 0, domain.RepositoryError("update cart", err)
	}
	return qty, nil
}

func (c *cartUC) Decrement(ctx context.Context, userID, productID int64) error {
	defer logging.TraceDuration(c.log, "CartUC.Decrement")()
	err := c.tm.WithTx(ctx, cartTxOpts, func(ctx context.Context, tx repository.Tx) error {
		item, err := c.cart.FindItem(ctx, tx, userID, productID)
		if err != nil {
			return err
		}
		if item.Quantity > 1 {
			item.Quantity--
			return c.cart.Save(ctx, tx, item)
		}
		return c.cart.Delete(ctx, tx, userID, productID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return domain.RepositoryError("decrement cart", err)
	}
	metrics.IncCartOperation("decrement")
	return nil
}

func (c *cartUC) Remove(ctx context.Context, userID, productID int64) error {
	defer logging.TraceDuration(c.log, "CartUC.Remove")()
	if err := c.cart.Delete(ctx, repository.NoTX, userID, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return domain.RepositoryError("delete cart line", err)
	}
	metrics.IncCartOperation("delete")
	return nil
}

func (c *cartUC) Quantity(ctx context.Context, userID, productID int64) (int, error) {
	item, err := c.cart.FindItem(ctx, repository.NoTX, userID, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, domain.RepositoryError("find cart line", err)
	}
	return item.Quantity, nil
}

func (c *cartUC) Items(ctx context.Context, userID int64) ([]*model.CartItem, error) {
	defer logging.TraceDuration(c.log, "CartUC.Items")()
	items, err := c.cart.ListByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, domain.RepositoryError("list cart", err)
	}
	return items, nil
}
