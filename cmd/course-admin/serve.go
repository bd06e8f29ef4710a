package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"katydid-course-admin/pkg/api"
	"katydid-course-admin/pkg/audit"
	"katydid-course-admin/pkg/cache"
	"katydid-course-admin/pkg/config"
	"katydid-course-admin/pkg/course"
	"katydid-course-admin/pkg/idgen"
	"katydid-course-admin/pkg/server"
	"katydid-course-admin/pkg/validator"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve starts the HTTP API: tab validation, field separation, course saves
against the course backend (api.base_url) and the per-course save log.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.server.Run(ctx, cfg.Server.Addr)
}

// app serve 命令组装出的全部组件
type app struct {
	server *server.Server
	cache  cache.Store
	closer func() error
	logger *zap.Logger
}

// newApp 按配置组装 API 客户端、缓存、审计存储、保存流程与 HTTP 服务
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("%w: api.base_url is required to serve", config.ErrInvalidConfig)
	}

	client, err := api.NewClient(cfg.API.BaseURL, clientOptions(cfg.API, logger)...)
	if err != nil {
		return nil, err
	}

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	db, err := audit.Open(audit.DBConfig{
		Driver:        cfg.Database.Driver,
		DSN:           cfg.Database.DSN,
		SlowThreshold: cfg.Database.SlowThreshold,
	}, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("unwrapping database handle: %w", err)
	}

	ids, err := idgen.NewSnowflake(cfg.Database.NodeID)
	if err != nil {
		_ = store.Close()
		_ = sqlDB.Close()
		return nil, err
	}
	auditStore, err := audit.NewStore(ctx, db, ids, logger)
	if err != nil {
		_ = store.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	v := validator.Default()
	updater := course.NewUpdater(client,
		course.WithValidator(v),
		course.WithLogger(logger),
		course.WithRecorder(auditStore),
		course.WithMaxConcurrency(cfg.Updater.MaxConcurrency),
	)
	loader := course.NewLoader(client, store, cfg.Cache.TTL, logger)

	gin.SetMode(cfg.Server.Mode)
	srv := server.New(
		server.WithValidator(v),
		server.WithCourses(loader, updater),
		server.WithAuditLog(auditStore),
		server.WithLogger(logger),
		server.WithSwagger(cfg.Server.Swagger),
	)

	return &app{server: srv, cache: store, closer: sqlDB.Close, logger: logger}, nil
}

// Close 释放缓存与数据库连接
func (a *app) Close() {
	err := errors.Join(a.cache.Close(), a.closer())
	if err != nil {
		a.logger.Warn("shutdown cleanup failed", zap.Error(err))
	}
}

func clientOptions(cfg config.APIConfig, logger *zap.Logger) []api.ClientOption {
	opts := []api.ClientOption{
		api.WithTimeout(cfg.Timeout),
		api.WithRateLimit(cfg.RateLimit, cfg.Burst),
		api.WithLogger(logger),
	}
	if cfg.Token != "" {
		opts = append(opts, api.WithToken(cfg.Token))
	} else if cfg.JWTSecret != "" {
		opts = append(opts, api.WithJWTSecret(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL))
	}
	return opts
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Driver {
	case config.CacheRedis:
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return cache.NewMemoryStore(), nil
	}
}
