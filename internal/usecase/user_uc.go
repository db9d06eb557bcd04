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

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes customer registration.
type UserUseCase interface {
	// IsRegistered is a read-through check against the user repository.
	IsRegistered(ctx context.Context, tgID int64) (bool, error)
	Register(ctx context.Context, tgID int64, firstName, lastName, phone string) (*model.User, error)
	GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
	dev   bool
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger, dev bool) *userUC {
	return &userUC{
		users: users,
		tm:    tm,
		log:   logger,
		dev:   dev,
	}
}

func (u *userUC) IsRegistered(ctx context.Context, tgID int64) (bool, error) {
	defer logging.TraceDuration(u.log, "UserUC.IsRegistered")()
	ok, err := u.users.Exists(ctx, repository.NoTX, tgID)
	if err != nil {
		return false, domain.RepositoryError("user exists", err)
	}
	return ok, nil
}

// Register creates the user. Registering an existing telegram id returns the
// stored user unchanged.
func (u *userUC) Register(ctx context.Context, tgID int64, firstName, lastName, phone string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	nu, err := model.NewUser(tgID, firstName, lastName, phone)
	if err != nil {
		return nil, err
	}

	var user *model.User
	created := false
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		existing, err := u.users.FindByTelegramID(ctx, tx, tgID)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := u.users.Create(ctx, tx, nu); err != nil {
			return err
		}
		user, created = nu, true
		return nil
	})
	if err != nil {
		u.log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to register user")
		return nil, domain.RepositoryError("register user", err)
	}
	if created {
		metrics.IncUsersRegistered()
		u.log.Info().
			Int64("tg_id", tgID).
			Str("phone", logging.Redact(phone, u.dev)).
			Msg("user registered")
	}
	return user, nil
}

func (u *userUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.GetByTelegramID")()
	return u.users.FindByTelegramID(ctx, repository.NoTX, tgID)
}
