package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"articles-api/internal/config"
	pgRepo "articles-api/internal/infra/adapter/persistence/postgres"
	sqliteRepo "articles-api/internal/infra/adapter/persistence/sqlite"
	"articles-api/internal/infra/cache"
	"articles-api/internal/infra/db"
	"articles-api/internal/observability/logging"
	"articles-api/internal/observability/metrics"
	"articles-api/internal/observability/slo"
	"articles-api/internal/observability/tracing"
	"articles-api/internal/repository"
	"articles-api/internal/resilience/circuitbreaker"

	artUC "articles-api/internal/usecase/article"

	hhttp "articles-api/internal/handler/http"
	harticle "articles-api/internal/handler/http/article"
	"articles-api/internal/handler/http/requestid"

	_ "articles-api/docs" // swagger docs
)

// @title           Articles API
// @version         1.0
// @description     ユーザーが所有する記事の作成・更新・非公開化と、公開記事の検索一覧を提供する REST API

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	loadDotEnv()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger, logCloser := initLogger(cfg)
	defer func() { _ = logCloser.Close() }()

	tp := tracing.NewProvider(cfg.Tracing.SampleRatio)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	database, dialect := initDatabase(logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	store, checker, closeCache := initCache(logger, cfg)
	defer closeCache()

	components := setupServer(logger, cfg, database, dialect, store, checker)
	runServer(logger, cfg, database, components)
}

// loadDotEnv loads .env into the process environment. Variables already set win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.Any("error", err))
	}
}

func initLogger(cfg config.AppConfig) (*slog.Logger, io.Closer) {
	opts := logging.OptionsFromEnv()
	opts.Level = cfg.Log.Level
	opts.Format = cfg.Log.Format
	opts.File = cfg.Log.File

	logger, closer := logging.NewLogger(opts)
	slog.SetDefault(logger)
	return logger, closer
}

// initDatabase opens the database connection and, unless disabled, runs migrations.
func initDatabase(logger *slog.Logger, cfg config.AppConfig) (*sql.DB, db.Dialect) {
	ctx := context.Background()
	database, dialect, err := db.Open(ctx, cfg.Database.URL, db.ConnectionConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		migrator, err := db.NewMigrator(database, dialect, logger)
		if err == nil {
			err = migrator.Up(ctx)
		}
		if err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			_ = database.Close()
			os.Exit(1)
		}
	}
	return database, dialect
}

// initCache returns the Redis store behind a circuit breaker when REDIS_ADDR is
// set, otherwise the in-process store.
func initCache(logger *slog.Logger, cfg config.AppConfig) (cache.Store, hhttp.CacheChecker, func()) {
	if !cfg.Cache.UsesRedis() {
		logger.Info("search cache: in-process store")
		return cache.NewMemoryStore(), nil, func() {}
	}

	client, err := cache.NewRedisClient(context.Background(), cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	redisStore := cache.NewRedisStore(client, cfg.Cache.KeyPrefix, 0)
	logger.Info("search cache: redis",
		slog.String("addr", cfg.Cache.RedisAddr),
		slog.Int("db", cfg.Cache.RedisDB))

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", slog.Any("error", err))
		}
	}
	return cache.NewBreakerStore(redisStore, circuitbreaker.CacheConfig()), redisStore, closeFn
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	RateLimiter *hhttp.RateLimiter
	MemoryCache *cache.MemoryStore // nil when Redis backs the cache
}

func setupServer(
	logger *slog.Logger,
	cfg config.AppConfig,
	database *sql.DB,
	dialect db.Dialect,
	store cache.Store,
	checker hhttp.CacheChecker,
) *ServerComponents {
	articles, users := newRepositories(database, dialect)
	svc := artUC.NewService(articles, db.NewTransactor(database, dialect), cache.New(store),
		artUC.WithCacheTTL(cfg.Cache.TTL))

	var limiter *hhttp.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		var opts []hhttp.RateLimiterOption
		if cfg.RateLimit.TrustProxy {
			opts = append(opts, hhttp.WithTrustedProxyHeaders())
		}
		limiter = hhttp.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, opts...)
		logger.Info("rate limiting enabled",
			slog.Float64("rps", cfg.RateLimit.RPS),
			slog.Int("burst", cfg.RateLimit.Burst))
	} else {
		logger.Warn("rate limiting is disabled")
	}

	mux := setupRoutes(database, cfg.Version, svc, users, checker)
	memoryCache, _ := store.(*cache.MemoryStore)
	return &ServerComponents{
		Handler:     applyMiddleware(logger, cfg, mux, limiter),
		RateLimiter: limiter,
		MemoryCache: memoryCache,
	}
}

func newRepositories(database *sql.DB, dialect db.Dialect) (repository.ArticleRepository, repository.UserRepository) {
	if dialect == db.DialectPostgres {
		return pgRepo.NewArticleRepo(database), pgRepo.NewUserRepo(database)
	}
	return sqliteRepo.NewArticleRepo(database), sqliteRepo.NewUserRepo(database)
}

func setupRoutes(
	database *sql.DB,
	version string,
	svc *artUC.Service,
	users repository.UserRepository,
	checker hhttp.CacheChecker,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET    /health", &hhttp.HealthHandler{DB: database, Cache: checker, Version: version})
	mux.Handle("GET    /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET    /live", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())
	mux.Handle("GET    /swagger/", httpSwagger.WrapHandler)

	harticle.Register(mux, svc, users)
	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: CORS → Request ID → Tracing → Rate Limit → Recovery → Logging → Input Validation → Body Limit → Metrics → Timeout
func applyMiddleware(logger *slog.Logger, cfg config.AppConfig, handler http.Handler, limiter *hhttp.RateLimiter) http.Handler {
	rateLimit := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		rateLimit = limiter.Middleware
	}

	return hhttp.Chain(handler,
		hhttp.CORS(cfg.HTTP.CORSOrigins, logger),
		requestid.Middleware,
		tracing.Middleware,
		rateLimit,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.InputValidation(),
		hhttp.LimitRequestBody(cfg.HTTP.MaxBodyBytes),
		hhttp.MetricsMiddleware,
		hhttp.Timeout(cfg.HTTP.RequestTimeout),
	)
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg config.AppConfig, database *sql.DB, components *ServerComponents) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if components.RateLimiter != nil {
		go components.RateLimiter.StartCleanup(ctx, cfg.RateLimit.CleanupPeriod)
	}
	if components.MemoryCache != nil {
		go components.MemoryCache.StartCleanup(ctx, cfg.Cache.TTL)
	}
	go reportDBStats(ctx, database, 15*time.Second)
	go slo.Default.Run(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// バックグラウンド処理はリクエストが捌けてから止める
	cancel()
	logger.Info("server stopped")
}

// reportDBStats mirrors the pool statistics into the connection gauges.
func reportDBStats(ctx context.Context, database *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := database.Stats()
			metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	}
}
