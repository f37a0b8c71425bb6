package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"zlpix/application"
	"zlpix/database"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ResultRecorder receives admin-supplied official results so the settlement
// worker can also pick them up.
type ResultRecorder interface {
	Set(drawDate time.Time, numbers []string)
}

// Server exposes the admin HTTP API: manual settlement triggers, draw and
// pool inspection, and ticket placement.
type Server struct {
	db             *database.DB
	uowFactory     application.UnitOfWorkFactory
	resultRecorder ResultRecorder
	poolBase       int64
	poolRollover   int64
	httpServer     *http.Server
}

// NewServer creates a new admin API server
func NewServer(
	db *database.DB,
	uowFactory application.UnitOfWorkFactory,
	resultRecorder ResultRecorder,
	poolBase int64,
	poolRollover int64,
	addr string,
	environment string,
) *Server {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		db:             db,
		uowFactory:     uowFactory,
		resultRecorder: resultRecorder,
		poolBase:       poolBase,
		poolRollover:   poolRollover,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", s.healthz)
	router.POST("/tickets", s.placeTicket)
	router.GET("/tickets", s.getUserTickets)
	router.GET("/tickets/:id", s.getTicket)

	admin := router.Group("/admin")
	{
		admin.POST("/draws/:date/settle", s.settleDraw)
		admin.GET("/draws/:date", s.getDraw)
		admin.GET("/pool", s.getPool)
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return s
}

// Start begins serving HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("Admin API listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("admin API server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("Handled request")
	}
}
