package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	bookservice "bookstack/contexts/catalog/book-service"
	bookpostgres "bookstack/contexts/catalog/book-service/adapters/postgres"
	reviewservice "bookstack/contexts/catalog/review-service"
	reviewpostgres "bookstack/contexts/catalog/review-service/adapters/postgres"
	notificationservice "bookstack/contexts/community-experience/notification-service"
	sendgridadapter "bookstack/contexts/community-experience/notification-service/adapters/sendgrid"
	accountservice "bookstack/contexts/identity-access/account-service"
	bcryptadapter "bookstack/contexts/identity-access/account-service/adapters/bcrypt"
	accountmemory "bookstack/contexts/identity-access/account-service/adapters/memory"
	accountpostgres "bookstack/contexts/identity-access/account-service/adapters/postgres"
	redisadapter "bookstack/contexts/identity-access/account-service/adapters/redis"
	accounterrors "bookstack/contexts/identity-access/account-service/domain/errors"
	accountports "bookstack/contexts/identity-access/account-service/ports"
	"bookstack/contexts/identity-access/authorization"
	admindashboardservice "bookstack/contexts/internal-ops/admin-dashboard-service"
	adminpostgres "bookstack/contexts/internal-ops/admin-dashboard-service/adapters/postgres"
	"bookstack/internal/platform/config"
	"bookstack/internal/platform/db"
	"bookstack/internal/platform/httpserver"

	"github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type App struct {
	server   *httpserver.Server
	database *db.Database
	logger   *slog.Logger
}

func BuildAPI() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	database, err := db.Connect(cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := migrate(database); err != nil {
		_ = database.Close()
		return nil, err
	}

	modules, err := buildModules(cfg, database, logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	server := httpserver.New(modules, logger, normalizeAddr(cfg.HTTPPort))
	return &App{
		server:   server,
		database: database,
		logger:   logger,
	}, nil
}

func migrate(database *db.Database) error {
	if err := accountpostgres.AutoMigrate(database.DB); err != nil {
		return err
	}
	if err := bookpostgres.AutoMigrate(database.DB); err != nil {
		return err
	}
	return reviewpostgres.AutoMigrate(database.DB)
}

func buildModules(cfg config.Config, database *db.Database, logger *slog.Logger) (httpserver.Modules, error) {
	hasher := bcryptadapter.Hasher{}
	clock := systemClock{}

	books := bookservice.NewModule(bookservice.Dependencies{
		Repository: bookpostgres.NewRepository(database.DB, logger),
		Clock:      clock,
		Logger:     logger,
	})
	reviews := reviewservice.NewModule(reviewservice.Dependencies{
		Repository: reviewpostgres.NewRepository(database.DB, logger),
		Clock:      clock,
		Logger:     logger,
	})

	var sessions accountports.SessionStore
	if cfg.RedisAddr != "" {
		sessions = redisadapter.NewSessionStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}))
	} else {
		// memory sessions are fine for a single process; redis is for
		// running more than one
		sessions = accountmemory.NewStore()
	}

	accountRepo := accountpostgres.NewRepository(database.DB, logger)
	accounts := accountservice.NewModule(accountservice.Dependencies{
		Repository: accountRepo,
		Sessions:   sessions,
		Hasher:     hasher,
		Activity:   catalogActivity{books: books, reviews: reviews},
		Clock:      clock,
		Logger:     logger,
	})

	var notifications notificationservice.Module
	if cfg.SendGridAPIKey != "" {
		notifications = notificationservice.NewModule(notificationservice.Dependencies{
			Mailer: sendgridadapter.NewMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromAddress),
			Logger: logger,
		})
	} else {
		notifications = notificationservice.NewInMemoryModule(logger)
		logger.Warn("no sendgrid api key configured, outgoing mail is recorded only",
			"event", "bootstrap_mailer_disabled",
			"module", "internal/app/bootstrap",
		)
	}

	admin := admindashboardservice.NewModule(admindashboardservice.Dependencies{
		Repo:    adminpostgres.NewRepository(database.DB, logger),
		Reviews: reviews.Service,
		Clock:   clock,
		Logger:  logger,
	})

	if err := ensureAdminUser(context.Background(), accountRepo, hasher, clock, cfg, logger); err != nil {
		return httpserver.Modules{}, err
	}

	return httpserver.Modules{
		Accounts:      accounts,
		Books:         books,
		Reviews:       reviews,
		Notifications: notifications,
		Admin:         admin,
	}, nil
}

// ensureAdminUser creates the seed admin account when it does not exist yet.
func ensureAdminUser(
	ctx context.Context,
	repo accountports.Repository,
	hasher accountports.PasswordHasher,
	clock accountports.Clock,
	cfg config.Config,
	logger *slog.Logger,
) error {
	_, err := repo.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, accounterrors.ErrUserNotFound) {
		return err
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}
	_, err = repo.CreateUser(ctx, accountports.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         authorization.RoleAdmin,
		CreatedAt:    clock.Now().UTC(),
	})
	if err != nil {
		return err
	}

	logger.Info("seed admin account created",
		"event", "bootstrap_admin_seeded",
		"module", "internal/app/bootstrap",
		"username", cfg.AdminUsername,
	)
	return nil
}

func (a *App) Run(_ context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *App) Close() error {
	if a.database != nil {
		return a.database.Close()
	}
	return nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
