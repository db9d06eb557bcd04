package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
)

var _ repository.CartRepository = (*PostgresCartRepo)(nil)

type PostgresCartRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCartRepo(pool *pgxpool.Pool) *PostgresCartRepo {
	return &PostgresCartRepo{pool: pool}
}

func (r *PostgresCartRepo) FindItem(ctx context.Context, tx repository.Tx, userID, productID int64) (*model.CartItem, error) {
	const q = `
SELECT id, user_id, product_id, quantity
  FROM cart_items WHERE user_id=$1 AND product_id=$2;`
	var it model.CartItem
	err := pickRow(ctx, r.pool, tx, q, userID, productID).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return &it, nil
}

func (r *PostgresCartRepo) Save(ctx context.Context, tx repository.Tx, item *model.CartItem) error {
	const q = `
INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1,$2,$3)
ON CONFLICT (user_id, product_id) DO UPDATE SET quantity=EXCLUDED.quantity
RETURNING id;`
	err := pickRow(ctx, r.pool, tx, q, item.UserID, item.ProductID, item.Quantity).Scan(&item.ID)
	return mapPgErr(err)
}

func (r *PostgresCartRepo) Delete(ctx context.Context, tx repository.Tx, userID, productID int64) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2;`, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresCartRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.CartItem, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT c.id, c.user_id, c.product_id, c.quantity,
       p.id, p.name, p.description, p.price::float8, p.image, p.status, p.category_id
  FROM cart_items c
  JOIN products p ON p.id = c.product_id
 WHERE c.user_id=$1
 ORDER BY c.id;`
	rows, err := ex.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	var out []*model.CartItem
	for rows.Next() {
		var it model.CartItem
		var p model.Product
		var status string
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &status, &p.CategoryID); err != nil {
			return nil, err
		}
		p.Status = model.ProductStatus(status)
		it.Product = &p
		out = append(out, &it)
	}
	return out, rows.Err()
}
