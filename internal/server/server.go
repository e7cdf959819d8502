package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"yashubustudio/slotguide/internal/logger"
	"yashubustudio/slotguide/internal/metrics"
	"yashubustudio/slotguide/internal/store"
	"yashubustudio/slotguide/slots"
)

// Server exposes the engine over HTTP: the Rasa custom-action webhook, a
// store-backed turn endpoint, health and metrics.
type Server struct {
	svc     *slots.Service
	store   store.Store
	metrics *metrics.Recorder
	log     *logger.Logger
	router  *gin.Engine
}

// New builds the router. store may be nil, in which case /v1/turns is not
// registered.
func New(svc *slots.Service, st store.Store, rec *metrics.Recorder, log *logger.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("service is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if rec == nil {
		rec = metrics.New()
	}
	s := &Server{
		svc:     svc,
		store:   st,
		metrics: rec,
		log:     log.With("component", "server"),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), s.accessLog(), s.recovery())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))
	r.POST("/webhook", s.webhook)
	if s.store != nil {
		v1 := r.Group("/v1")
		v1.POST("/turns", s.turn)
		v1.DELETE("/conversations/:id", s.forget)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "actions", s.svc.Intents().Actions())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	lookup := s.svc.Lookup()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"lookup_slots":  lookup.Len(),
		"lookup_values": lookup.Size(),
		"intents":       len(s.svc.Intents().Intents()),
		"actions":       s.svc.Intents().Actions(),
	})
}
