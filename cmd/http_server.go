package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/activity"
	activityPostgres "github.com/frahmantamala/support-desk/internal/activity/postgres"
	"github.com/frahmantamala/support-desk/internal/auth"
	authPostgres "github.com/frahmantamala/support-desk/internal/auth/postgres"
	"github.com/frahmantamala/support-desk/internal/broker"
	"github.com/frahmantamala/support-desk/internal/cache"
	"github.com/frahmantamala/support-desk/internal/contact"
	contactPostgres "github.com/frahmantamala/support-desk/internal/contact/postgres"
	"github.com/frahmantamala/support-desk/internal/core/events"
	"github.com/frahmantamala/support-desk/internal/ratelimit"
	ratelimitPostgres "github.com/frahmantamala/support-desk/internal/ratelimit/postgres"
	"github.com/frahmantamala/support-desk/internal/ratelimit/redisstore"
	"github.com/frahmantamala/support-desk/internal/stats"
	statsPostgres "github.com/frahmantamala/support-desk/internal/stats/postgres"
	"github.com/frahmantamala/support-desk/internal/ticket"
	ticketPostgres "github.com/frahmantamala/support-desk/internal/ticket/postgres"
	"github.com/frahmantamala/support-desk/internal/transport/rest"
	"github.com/frahmantamala/support-desk/internal/transport/swagger"
	"github.com/frahmantamala/support-desk/internal/user"
	userPostgres "github.com/frahmantamala/support-desk/internal/user/postgres"
	"github.com/frahmantamala/support-desk/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	DB        *gorm.DB
	SQL       *sqlx.DB
	Redis     *redis.Client
	Cache     *cache.Client
	EventBus  *events.EventBus
	Publisher *broker.Publisher
	Router    *chi.Mux
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "base_url", deps.Config.Server.BaseURL, "docs", deps.Config.Server.BaseURL+"/swagger/index.html")

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Close()
	deps.Logger.Info("Server stopped")
}

// Close drains in-flight event handlers before tearing down what they use.
func (d *Dependencies) Close() {
	if d.EventBus != nil {
		d.EventBus.Wait()
	}
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Error("Broker close error", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if d.SQL != nil {
		if err := d.SQL.Close(); err != nil {
			d.Logger.Error("Database close error", "error", err)
		}
	}
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, sqlDB, err := openDatabase(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps := &Dependencies{
		Config:   config,
		DB:       db,
		SQL:      sqlDB,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
		Logger:   lg,
	}

	if config.Redis.Enabled {
		deps.Redis = cache.Connect(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if deps.Redis == nil {
			lg.Warn("redis unreachable, running without cache", "addr", config.Redis.Addr)
		}
		deps.Cache = cache.New(deps.Redis)
	}

	if config.Broker.Enabled {
		deps.Publisher = broker.NewPublisher(broker.Dialer(config.Broker.URL), config.Broker.ActivityQueue, lg)
		deps.EventBus.Subscribe(events.EventTypeActivityRecorded, deps.Publisher.Forward)
	}

	handlers, err := buildHandlers(ctx, deps)
	if err != nil {
		deps.Close()
		return nil, err
	}

	rest.RegisterAllRoutes(deps.Router, handlers, lg)

	return deps, nil
}

func attemptStore(deps *Dependencies) ratelimit.Store {
	cfg := deps.Config.RateLimit
	if cfg.Backend == "redis" && deps.Redis != nil {
		return redisstore.New(deps.Redis, cfg.KeyPrefix, cfg.LockoutWindow)
	}
	if cfg.Backend == "redis" {
		deps.Logger.Warn("redis rate limit backend unavailable, falling back to database")
	}
	return ratelimitPostgres.NewAttemptRepository(deps.DB)
}

func buildHandlers(ctx context.Context, deps *Dependencies) (rest.Handlers, error) {
	cfg := deps.Config
	lg := deps.Logger

	limiter := ratelimit.NewLimiter(attemptStore(deps), cfg.RateLimit, lg)
	recorder := activity.NewRecorder(activityPostgres.NewActivityRepository(deps.DB), deps.EventBus, lg)

	authService := auth.NewService(
		authPostgres.NewRepository(deps.DB),
		auth.NewTokenCodec(cfg.Security.JWTSecret),
		limiter,
		recorder,
		cfg.Security,
		lg,
	)
	userService := user.NewService(userPostgres.NewUserRepository(deps.DB), limiter, recorder, cfg.Security, lg)
	ticketService := ticket.NewService(ticketPostgres.NewTicketRepository(deps.DB), recorder, auth.StaffRoles, lg)
	contactService := contact.NewService(contactPostgres.NewContactRepository(deps.DB), limiter, recorder, lg)

	var statsCache stats.Cache
	if deps.Cache.Enabled() {
		statsCache = deps.Cache
	}
	statsService := stats.NewService(statsPostgres.NewStatsRepository(deps.SQL), statsCache, cfg.Redis.StatsTTL, lg)

	docs, err := swagger.Load(ctx, cfg.Server.OpenAPIPath)
	if err != nil {
		return rest.Handlers{}, fmt.Errorf("failed to load openapi document: %w", err)
	}

	var cachePinger rest.CachePinger
	if cfg.Redis.Enabled {
		cachePinger = deps.Cache
	}

	return rest.Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(userService),
		Ticket:  ticket.NewHandler(ticketService),
		Contact: contact.NewHandler(contactService),
		Stats:   stats.NewHandler(statsService),
		Health:  rest.NewHealthHandler(deps.SQL, cachePinger),
		Docs:    docs,
	}, nil
}
