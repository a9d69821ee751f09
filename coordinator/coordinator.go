// Package coordinator 实现下发部署纪元的协调者服务。
//
// 节点加入部署时对 GET /sync 发起一次请求，得到
//
//	{"epoch": "<十进制毫秒数>"}
//
// 之后不再依赖协调者。服务内置全局限流（突发的节点批量重启
// 不应击穿进程）和 Prometheus 指标端点 /metrics。
package coordinator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/ceyewan/fractal/clog"
	"github.com/ceyewan/fractal/xerrors"
)

// Server 协调者服务
type Server struct {
	cfg     *Config
	logger  clog.Logger
	limiter *rate.Limiter
	engine  *gin.Engine
	srv     *http.Server
}

// Option Server 初始化选项
type Option func(*Server)

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New 创建协调者服务
//
// 使用示例:
//
//	cfg, _ := coordinator.LoadConfig("coordinator.yaml")
//	srv, _ := coordinator.New(cfg, coordinator.WithLogger(logger))
//	go srv.Start()
func New(cfg *Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = clog.Default()
	}
	s.logger = s.logger.With(clog.String("component", "coordinator"))

	s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/sync", s.handleSync)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine = engine

	return s, nil
}

// handleSync 下发部署纪元
func (s *Server) handleSync(c *gin.Context) {
	if !s.limiter.Allow() {
		syncRequests.WithLabelValues(outcomeThrottled).Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	syncRequests.WithLabelValues(outcomeOK).Inc()
	c.JSON(http.StatusOK, gin.H{"epoch": s.cfg.Epoch})
}

// Handler 返回底层 http.Handler，用于测试或嵌入已有服务
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr 返回监听地址
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Start 启动 HTTP 服务并阻塞直到退出
//
// 正常关闭（Shutdown）不视为错误。
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    s.Addr(),
		Handler: s.engine,
	}

	s.logger.Info("coordinator listening",
		clog.String("addr", s.Addr()),
		clog.String("epoch", s.cfg.Epoch),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return xerrors.Wrap(err, "coordinator: serve")
	}
	return nil
}

// Shutdown 优雅关闭服务
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info("coordinator shutting down")
	return s.srv.Shutdown(ctx)
}
