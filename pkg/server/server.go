// Package server 课程表单接口的 HTTP 门面（gin）
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"katydid-course-admin/pkg/audit"
	"katydid-course-admin/pkg/course"
	"katydid-course-admin/pkg/form"
	_ "katydid-course-admin/pkg/server/docs"
	"katydid-course-admin/pkg/validator"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

// CourseLoader 加载和失效课程快照
type CourseLoader interface {
	Load(ctx context.Context, courseUUID string) (*course.State, error)
	Invalidate(ctx context.Context, courseUUID string) error
}

// CourseUpdater 执行一次保存
type CourseUpdater interface {
	Update(ctx context.Context, original *course.State, data form.Data) (*course.Outcome, error)
}

// AuditLog 查询保存记录
type AuditLog interface {
	List(ctx context.Context, courseUUID string, limit int) ([]audit.Entry, error)
}

var (
	_ CourseLoader  = (*course.Loader)(nil)
	_ CourseUpdater = (*course.Updater)(nil)
	_ AuditLog      = (*audit.Store)(nil)
)

// Server HTTP 服务
type Server struct {
	engine    *gin.Engine
	validator *validator.Validator
	loader    CourseLoader
	updater   CourseUpdater
	audit     AuditLog
	logger    *zap.Logger
	swagger   bool
}

// Option Server 配置选项
type Option func(*Server)

// WithValidator 使用自定义验证器
func WithValidator(v *validator.Validator) Option {
	return func(s *Server) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithCourses 启用课程保存接口
func WithCourses(loader CourseLoader, updater CourseUpdater) Option {
	return func(s *Server) {
		s.loader = loader
		s.updater = updater
	}
}

// WithAuditLog 启用保存记录查询接口
func WithAuditLog(log AuditLog) Option {
	return func(s *Server) {
		s.audit = log
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSwagger 挂载 /swagger/*any
func WithSwagger(enabled bool) Option {
	return func(s *Server) {
		s.swagger = enabled
	}
}

// New 创建服务并注册路由
// 未配置 loader/updater 时不注册保存接口，未配置 audit 时不注册日志接口
func New(opts ...Option) *Server {
	s := &Server{
		validator: validator.Default(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(s.requestID(), s.accessLog(), s.recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	v1 := s.engine.Group("/api/v1")
	v1.POST("/validate/:tab", s.validateTab)
	v1.POST("/fields/separate", s.separateFields)
	if s.loader != nil && s.updater != nil {
		v1.PUT("/courses/:uuid", s.saveCourse)
	}
	if s.audit != nil {
		v1.GET("/courses/:uuid/logs", s.listLogs)
	}

	if s.swagger {
		s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// Handler 返回 http.Handler，测试中配合 httptest 使用
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 监听 addr 直到 ctx 结束，然后优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// requestID 透传或生成请求ID
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDHeader)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			s.logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			s.logger.Warn("request", fields...)
		default:
			s.logger.Info("request", fields...)
		}
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"))
		abortWithError(c, http.StatusInternalServerError, errors.New("internal server error"))
	})
}

func abortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
