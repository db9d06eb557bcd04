package repository

import (
	"context"

	"telegram-car-rental/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	Create(ctx context.Context, tx Tx, u *model.User) error
	FindByTelegramID(ctx context.Context, tx Tx, tgID int64) (*model.User, error)
	Exists(ctx context.Context, tx Tx, tgID int64) (bool, error)
}
