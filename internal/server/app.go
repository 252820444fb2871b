// Package server assembles the inkpost server: storage, services, the GraphQL
// schema and the HTTP router, and runs it until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/inkpost/internal/logging"
	"github.com/dmitrijs2005/inkpost/internal/server/auth"
	"github.com/dmitrijs2005/inkpost/internal/server/cache"
	"github.com/dmitrijs2005/inkpost/internal/server/config"
	"github.com/dmitrijs2005/inkpost/internal/server/gql"
	"github.com/dmitrijs2005/inkpost/internal/server/httpapi"
	"github.com/dmitrijs2005/inkpost/internal/server/images"
	"github.com/dmitrijs2005/inkpost/internal/server/metrics"
	"github.com/dmitrijs2005/inkpost/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/inkpost/internal/server/services"
	"github.com/dmitrijs2005/inkpost/internal/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	handler http.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	if err := app.init(ctx, rm); err != nil {
		app.close(ctx)
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context, rm repomanager.RepositoryManager) error {
	c := app.config

	store, err := newImageStore(ctx, c)
	if err != nil {
		return fmt.Errorf("image store init error: %w", err)
	}

	var pageCache services.PageCache
	if c.RedisAddr != "" {
		client, err := cache.New(ctx, c.RedisAddr)
		if err != nil {
			return fmt.Errorf("redis init error: %w", err)
		}
		app.redis = client
		pageCache = cache.NewPageCache(client, c.PageCacheTTL, app.logger)
	}

	secret, err := signingSecret(c.SecretKey)
	if err != nil {
		return fmt.Errorf("secret init error: %w", err)
	}
	if c.SecretKey == "" {
		app.logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mc := metrics.NewCollector(reg)

	issuer := auth.NewTokenIssuer(secret, c.TokenValidityDuration)
	us, err := services.NewUserService(app.db, rm, auth.NewPasswordHasher(auth.PasswordCost), issuer, app.logger)
	if err != nil {
		return fmt.Errorf("user service init error: %w", err)
	}
	ps := services.NewPostService(app.db, rm, c.PostsPerPage, pageCache, store, app.logger)

	schema := gql.NewSchema(gql.NewResolver(us, ps, mc, app.logger))

	app.handler = httpapi.NewRouter(httpapi.Deps{
		Logger:         app.logger,
		Verifier:       issuer,
		GraphQL:        gql.NewHandler(schema, app.logger),
		Images:         store,
		Metrics:        mc.Middleware,
		MetricsHandler: metrics.Handler(reg),
		CORSOrigin:     c.CORSOrigin,
		RateLimit:      c.RateLimitPerMinute,
	})
	return nil
}

func newImageStore(ctx context.Context, c *config.Config) (images.Store, error) {
	if c.ImageStorage == config.StorageS3 {
		return images.NewS3Store(ctx, images.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	}
	return images.NewLocalStore(c.ImagesDir)
}

// signingSecret returns key, or 32 random bytes hex-encoded when key is empty.
func signingSecret(key string) ([]byte, error) {
	if key != "" {
		return []byte(key), nil
	}
	s, err := shared.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{Addr: app.config.EndpointAddrHTTP, Handler: app.handler}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "HTTP server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "HTTP server failed", "error", err)
		}
		cancelFunc()
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.Background())
	app.logger.Info(context.Background(), "App stopped")
}
