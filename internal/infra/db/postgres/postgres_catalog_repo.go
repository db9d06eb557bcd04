package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
)

// -----------------------------
// Categories
// -----------------------------

var _ repository.CategoryRepository = (*PostgresCategoryRepo)(nil)

type PostgresCategoryRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepo(pool *pgxpool.Pool) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{pool: pool}
}

func (r *PostgresCategoryRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, `SELECT id, name FROM categories ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PostgresCategoryRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Category, error) {
	var c model.Category
	err := pickRow(ctx, r.pool, tx, `SELECT id, name FROM categories WHERE id=$1;`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return &c, nil
}

// Create is used by the seeder; categories have no runtime editor.
func (r *PostgresCategoryRepo) Create(ctx context.Context, tx repository.Tx, c *model.Category) error {
	err := pickRow(ctx, r.pool, tx, `
INSERT INTO categories (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id;`, c.Name).Scan(&c.ID)
	return mapPgErr(err)
}

// -----------------------------
// Products
// -----------------------------

var _ repository.ProductRepository = (*PostgresProductRepo)(nil)

type PostgresProductRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepo(pool *pgxpool.Pool) *PostgresProductRepo {
	return &PostgresProductRepo{pool: pool}
}

const productColumns = `id, name, description, price::float8, image, status, category_id`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var status string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &status, &p.CategoryID); err != nil {
		return nil, err
	}
	p.Status = model.ProductStatus(status)
	return &p, nil
}

func (r *PostgresProductRepo) ListByCategory(ctx context.Context, tx repository.Tx, categoryID int64, includeOccupied bool) ([]*model.Product, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + productColumns + ` FROM products WHERE category_id=$1`
	args := []interface{}{categoryID}
	if !includeOccupied {
		q += ` AND status=$2`
		args = append(args, string(model.StatusAvailable))
	}
	rows, err := ex.Query(ctx, q+` ORDER BY id;`, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresProductRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Product, error) {
	p, err := scanProduct(pickRow(ctx, r.pool, tx, `SELECT `+productColumns+` FROM products WHERE id=$1;`, id))
	if err != nil {
		return nil, mapPgErr(err)
	}
	return p, nil
}

func (r *PostgresProductRepo) Create(ctx context.Context, tx repository.Tx, p *model.Product) error {
	const q = `
INSERT INTO products (name, description, price, image, status, category_id)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;`
	err := pickRow(ctx, r.pool, tx, q, p.Name, p.Description, p.Price, p.Image, string(p.Status), p.CategoryID).Scan(&p.ID)
	return mapPgErr(err)
}

func (r *PostgresProductRepo) Update(ctx context.Context, tx repository.Tx, p *model.Product) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
UPDATE products
   SET name=$2, description=$3, price=$4, image=$5, status=$6, category_id=$7, updated_at=now()
 WHERE id=$1;`
	tag, err := ex.Exec(ctx, q, p.ID, p.Name, p.Description, p.Price, p.Image, string(p.Status), p.CategoryID)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the product; cart lines go with it through ON DELETE CASCADE.
func (r *PostgresProductRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, `DELETE FROM products WHERE id=$1;`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// -----------------------------
// Banners
// -----------------------------

var _ repository.BannerRepository = (*PostgresBannerRepo)(nil)

type PostgresBannerRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresBannerRepo(pool *pgxpool.Pool) *PostgresBannerRepo {
	return &PostgresBannerRepo{pool: pool}
}

func (r *PostgresBannerRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Banner, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, `SELECT id, name, image, description FROM banners ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var out []*model.Banner
	for rows.Next() {
		var b model.Banner
		if err := rows.Scan(&b.ID, &b.Name, &b.Image, &b.Description); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *PostgresBannerRepo) FindByName(ctx context.Context, tx repository.Tx, name string) (*model.Banner, error) {
	var b model.Banner
	err := pickRow(ctx, r.pool, tx, `SELECT id, name, image, description FROM banners WHERE name=$1;`, name).
		Scan(&b.ID, &b.Name, &b.Image, &b.Description)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return &b, nil
}

func (r *PostgresBannerRepo) Save(ctx context.Context, tx repository.Tx, b *model.Banner) error {
	const q = `
INSERT INTO banners (name, image, description) VALUES ($1,$2,$3)
ON CONFLICT (name) DO UPDATE SET image=EXCLUDED.image, description=EXCLUDED.description
RETURNING id;`
	return mapPgErr(pickRow(ctx, r.pool, tx, q, b.Name, b.Image, b.Description).Scan(&b.ID))
}

func (r *PostgresBannerRepo) SetImage(ctx context.Context, tx repository.Tx, name, image string) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, `UPDATE banners SET image=$2 WHERE name=$1;`, name, image)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
