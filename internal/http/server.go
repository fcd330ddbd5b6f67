package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/metrics"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// ContainerLister backs GET /services.
type ContainerLister interface {
	Available() bool
	ListContainers(ctx context.Context) ([]models.ContainerSummary, error)
}

// Server maps every registered adapter onto a route. All matched routes
// answer 200; failures travel in the body.
type Server struct {
	registry   *adapter.Registry
	containers ContainerLister
	metrics    *metrics.Metrics
	logger     *zap.Logger

	engine     *gin.Engine
	httpServer *http.Server // Store server instance for graceful shutdown
}

// NewServer builds the routes. containers may be nil when no container runtime was reachable.
func NewServer(registry *adapter.Registry, containers ContainerLister, m *metrics.Metrics, logger *zap.Logger) *Server {
	s := &Server{
		registry:   registry,
		containers: containers,
		metrics:    m,
		logger:     logger.With(zap.String("component", "http")),
	}
	s.engine = s.routes()
	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger), cors())

	r.GET("/health", s.handleHealth)
	r.GET("/services", s.handleListContainers)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	for _, rep := range s.registry.Reporters() {
		r.GET("/services/"+rep.Name(), s.handleReport(rep))
	}

	for _, del := range s.registry.Deleters() {
		r.DELETE("/services/"+del.Name()+"/"+del.Collection()+"/:name", s.handleDelete(del))
	}

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving addr until Stop is called. Calling Stop first makes Start return at once.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListContainers(c *gin.Context) {
	if s.containers == nil || !s.containers.Available() {
		c.JSON(http.StatusOK, gin.H{"error": "Docker client not available"})
		return
	}

	started := time.Now()
	containers, err := s.containers.ListContainers(c.Request.Context())
	s.metrics.ObserveOperation("docker", metrics.OperationList, started, err)
	if err != nil {
		c.JSON(http.StatusOK, adapter.Report(err))
		return
	}

	c.JSON(http.StatusOK, containers)
}

func (s *Server) handleReport(rep adapter.Reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		report, err := rep.FetchReport(c.Request.Context())
		s.metrics.ObserveOperation(rep.Name(), metrics.OperationReport, started, err)
		if err != nil {
			c.JSON(http.StatusOK, adapter.Report(err))
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

func (s *Server) handleDelete(del adapter.Deleter) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		started := time.Now()
		result, err := del.DeleteTarget(c.Request.Context(), name)
		s.metrics.ObserveOperation(del.Name(), metrics.OperationDelete, started, err)
		if err != nil {
			c.JSON(http.StatusOK, adapter.Report(err))
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
