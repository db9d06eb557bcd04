// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"telegram-car-rental/internal/application"
	"telegram-car-rental/internal/config"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
	"telegram-car-rental/internal/form"
	"telegram-car-rental/internal/infra/api"
	"telegram-car-rental/internal/infra/api/apiv1"
	tele "telegram-car-rental/internal/infra/adapters/telegram"
	"telegram-car-rental/internal/infra/db/memory"
	pg "telegram-car-rental/internal/infra/db/postgres"
	"telegram-car-rental/internal/infra/i18n"
	"telegram-car-rental/internal/infra/logging"
	"telegram-car-rental/internal/infra/metrics"
	red "telegram-car-rental/internal/infra/redis"
	"telegram-car-rental/internal/infra/scheduler"
	"telegram-car-rental/internal/infra/worker"
	"telegram-car-rental/internal/menu"
	"telegram-car-rental/internal/usecase"

	"github.com/rs/zerolog"
)

var (
	version = "dev"
	commit  = "none"
)

const (
	pollerLockKey = "poller:lock"
	pollerLockTTL = 30 * time.Second
)

type repos struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	banners    repository.BannerRepository
	users      repository.UserRepository
	cart       repository.CartRepository
	tm         repository.TransactionManager
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}
	dev := cfg.Runtime.Dev
	logger := logging.New(cfg.Log, dev)
	if dev {
		logger.Warn().Msg("[DEV MODE] enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Storage ----
	var st repos
	if cfg.Database.URL != "" {
		if cfg.Database.Migrate {
			if err := pg.RunMigrations(cfg.Database.URL, logger); err != nil {
				logger.Fatal().Err(err).Msg("migrations")
			}
		}
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		st = repos{
			categories: pg.NewPostgresCategoryRepo(pool),
			products:   pg.NewPostgresProductRepo(pool),
			banners:    pg.NewPostgresBannerRepo(pool),
			users:      pg.NewPostgresUserRepo(pool),
			cart:       pg.NewPostgresCartRepo(pool),
			tm:         pg.NewTxManager(pool),
		}
		poolStats := scheduler.NewScheduler("db_pool_stats", 15*time.Second, func(context.Context) error {
			metrics.ObservePool(pool.Stat())
			return nil
		}, logger)
		poolStats.Start(ctx)
		defer poolStats.Stop()
		logger.Info().Msg("storage: postgres")
	} else {
		st = memoryRepos(ctx, logger)
		logger.Warn().Msg("storage: in-memory, data is lost on restart")
	}

	// ---- Redis ----
	var (
		states  repository.StateRepository = memory.NewStateRepo()
		limiter tele.Limiter
		locker  red.Locker
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		states = red.NewStateRepo(redisClient, cfg.Redis.TTL)
		if cfg.RateLimit.Limit > 0 {
			limiter = red.NewRateLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
		st.categories = pg.NewCategoryRepoCacheDecorator(st.categories, redisClient, cfg.Redis.CacheTTL, logger)
		locker = red.NewLocker(redisClient)
	} else {
		logger.Warn().Msg("redis disabled: conversation state kept in memory, no rate limiting")
	}

	// ---- Texts ----
	texts, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Locale)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(st.users, st.tm, logger, dev)
	catalogUC := usecase.NewCatalogUseCase(st.categories, st.products, st.banners, logger)
	cartUC := usecase.NewCartUseCase(st.cart, st.products, st.users, st.tm, logger)

	engine := form.NewEngine(states, logger)
	if err := engine.Register(
		usecase.NewProductForm(catalogUC, texts),
		usecase.NewRegistrationForm(userUC, texts),
		usecase.NewBannerForm(catalogUC, texts),
	); err != nil {
		logger.Fatal().Err(err).Msg("forms")
	}
	resolver := menu.NewResolver(st.banners, st.categories, st.products, cartUC, texts, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(userUC, catalogUC, cartUC, engine, resolver, texts, cfg.Bot.AdminIDs, logger)

	// ---- Telegram ----
	pool := worker.NewPool(cfg.Bot.Workers, cfg.Bot.Queue, logger)
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, limiter, pool, texts, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}

	releaseLock := func() {}
	if locker != nil {
		releaseLock = holdPollerLock(ctx, locker, logger)
	}
	go func() {
		if err := botAdapter.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin HTTP API ----
	var server *api.Server
	if cfg.HTTP.Port > 0 {
		auth := api.NewAuthManager(cfg.HTTP.JWTSecret, cfg.HTTP.TokenTTL)
		router := api.NewRouter(apiv1.NewServer(catalogUC, logger), auth, logger)
		server = api.NewServer(cfg.HTTP.Port, router, logger)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("http server")
			}
		}()
		if dev && len(cfg.Bot.AdminIDs) > 0 {
			if tok, err := auth.Mint(strconv.FormatInt(cfg.Bot.AdminIDs[0], 10)); err == nil {
				logger.Info().Str("token", tok).Msg("[DEV MODE] admin API token")
			}
		}
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	botAdapter.Stop()
	if server != nil {
		shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(shCtx); err != nil {
			logger.Error().Err(err).Msg("http shutdown")
		}
		shCancel()
	}
	releaseLock()
	cancel()
}

// memoryRepos builds the in-memory store with the two default categories and
// the info-page banners so the bot is usable without a database.
func memoryRepos(ctx context.Context, logger *zerolog.Logger) repos {
	store := memory.NewStore()
	for _, name := range seedCategories {
		store.AddCategory(name)
	}
	for _, page := range model.InfoPages {
		if err := store.Banners().Save(ctx, repository.NoTX, &model.Banner{Name: page}); err != nil {
			logger.Fatal().Err(err).Str("page", page).Msg("seed banner")
		}
	}
	return repos{
		categories: store.Categories(),
		products:   store.Products(),
		banners:    store.Banners(),
		users:      store.Users(),
		cart:       store.Cart(),
		tm:         memory.NewTxManager(),
	}
}

var seedCategories = []string{"Дорогие", "Простые"}

// holdPollerLock takes the poller lock so only one replica long-polls Telegram,
// keeps it refreshed and returns the release func.
func holdPollerLock(ctx context.Context, locker red.Locker, logger *zerolog.Logger) func() {
	token, err := locker.TryLock(ctx, pollerLockKey, pollerLockTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("another instance is polling this bot")
	}
	refresh := scheduler.NewScheduler("poller_lock_refresh", pollerLockTTL/3, func(ctx context.Context) error {
		return locker.Refresh(ctx, pollerLockKey, token, pollerLockTTL)
	}, logger)
	refresh.Start(ctx)
	return func() {
		refresh.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := locker.Unlock(ctx, pollerLockKey, token); err != nil {
			logger.Warn().Err(err).Msg("poller lock release")
		}
	}
}
