package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

// Create inserts u and sets u.ID; a second row for the same telegram id
// fails with domain.ErrAlreadyExists.
func (r *PostgresUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (telegram_id, first_name, last_name, phone, registered_at)
VALUES ($1,$2,$3,$4,$5)
RETURNING id;`
	err := pickRow(ctx, r.pool, tx, q, u.TelegramID, u.FirstName, u.LastName, u.Phone, u.RegisteredAt).Scan(&u.ID)
	return mapPgErr(err)
}

func (r *PostgresUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	const q = `
SELECT id, telegram_id, first_name, last_name, phone, registered_at
  FROM users WHERE telegram_id=$1;`
	var u model.User
	err := pickRow(ctx, r.pool, tx, q, tgID).Scan(&u.ID, &u.TelegramID, &u.FirstName, &u.LastName, &u.Phone, &u.RegisteredAt)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) Exists(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
	var ok bool
	err := pickRow(ctx, r.pool, tx, `SELECT EXISTS (SELECT 1 FROM users WHERE telegram_id=$1);`, tgID).Scan(&ok)
	return ok, err
}
