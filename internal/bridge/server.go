package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ytget/videodl/internal/logger"
	"github.com/ytget/videodl/internal/model"
)

// Server defaults
const (
	DefaultAddr         = "127.0.0.1:8765"
	DefaultRate         = 5
	DefaultBurst        = 10
	ReadHeaderTimeout   = 10 * time.Second
	ShutdownGracePeriod = 5 * time.Second
)

// Queue accepts downloads and reports on them
type Queue interface {
	Submit(req model.DownloadRequest, source string) (string, error)
	Job(id string) (model.DownloadTask, bool)
}

// Options configures the server
type Options struct {
	Addr          string
	RatePerSecond float64
	Burst         int

	// OutputDir is consulted per request so preference changes apply
	OutputDir func() string
}

// Server is the loopback endpoint for the browser extension
type Server struct {
	opts   Options
	queue  Queue
	log    *zap.Logger
	router *gin.Engine
	srv    *http.Server
}

// New creates a server. It does not listen until Start.
func New(opts Options, queue Queue, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = DefaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}

	s := &Server{opts: opts, queue: queue, log: log}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger(s.log))
	router.Use(CORSMiddleware())
	router.Use(RateLimitMiddleware(rate.NewLimiter(rate.Limit(s.opts.RatePerSecond), s.opts.Burst)))

	router.GET("/ping", s.ping)
	router.POST("/download", s.download)
	router.GET("/jobs/:id", s.job)
	return router
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener and serves in the background. A bind failure,
// such as the port being taken by another instance, is returned directly.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("bridge listen on %s: %w", s.opts.Addr, err)
	}
	s.srv = &http.Server{Handler: s.router, ReadHeaderTimeout: ReadHeaderTimeout}

	go func() {
		s.log.Info("bridge listening", zap.String("address", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("bridge server error", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.log.Info("bridge shutting down")
	return s.srv.Shutdown(ctx)
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) download(c *gin.Context) {
	var payload DownloadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid request: " + err.Error()})
		return
	}

	outputDir := ""
	if s.opts.OutputDir != nil {
		outputDir = s.opts.OutputDir()
	}
	req := payload.Request(outputDir)
	s.log.Info("download request received",
		zap.String("url", req.URL),
		zap.String("source", payload.SourceName()),
		zap.Int("headers", len(req.Headers)))

	id, err := s.queue.Submit(req, payload.SourceName())
	if err != nil {
		s.log.Warn("download request rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted", "job_id": id})
}

func (s *Server) job(c *gin.Context) {
	task, ok := s.queue.Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"job_id":  task.ID,
		"status":  task.Status.String(),
		"percent": task.Percent,
		"output":  task.OutputPath,
		"error":   task.LastError,
	})
}
