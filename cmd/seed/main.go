package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"telegram-car-rental/internal/config"
	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
	pg "telegram-car-rental/internal/infra/db/postgres"
	"telegram-car-rental/internal/infra/i18n"
	"telegram-car-rental/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

var categories = []string{"Дорогие", "Простые"}

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Database.URL == "" {
		logger.Fatal().Msg("database.url is empty: nothing to seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pg.RunMigrations(cfg.Database.URL, logger); err != nil {
		logger.Fatal().Err(err).Msg("migrations")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	texts, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Locale)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	categoryRepo := pg.NewPostgresCategoryRepo(pool)
	bannerRepo := pg.NewPostgresBannerRepo(pool)
	tm := pg.NewTxManager(pool)

	err = tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, tx repository.Tx) error {
		for _, name := range categories {
			c := &model.Category{Name: name}
			if err := categoryRepo.Create(ctx, tx, c); err != nil {
				return fmt.Errorf("category %q: %w", name, err)
			}
			fmt.Printf("category: %s (id=%d)\n", c.Name, c.ID)
		}

		// Existing banners keep their uploaded pictures.
		for _, page := range model.InfoPages {
			b, err := bannerRepo.FindByName(ctx, tx, page)
			switch {
			case err == nil:
				fmt.Printf("banner: %s already present (image set: %t)\n", b.Name, b.HasImage())
				continue
			case !errors.Is(err, domain.ErrNotFound):
				return fmt.Errorf("banner %q: %w", page, err)
			}
			b = &model.Banner{Name: page, Description: texts.T("page_" + page)}
			if err := bannerRepo.Save(ctx, tx, b); err != nil {
				return fmt.Errorf("banner %q: %w", page, err)
			}
			fmt.Printf("banner: %s seeded (id=%d)\n", b.Name, b.ID)
		}
		return nil
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seed")
	}

	fmt.Println("✅ Seeding complete.")
}
