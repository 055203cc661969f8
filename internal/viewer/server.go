// Package viewer serves computed schedules over HTTP for PERT and Gantt
// front ends.
package viewer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/pert"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/schedule"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/store"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

// Options carries layout defaults for every response.
type Options struct {
	Gantt timeline.Options
	Pert  pert.Options

	// ReleaseMode turns off gin's debug output.
	ReleaseMode bool
}

// Server answers PERT and Gantt requests for uploaded snapshots and, when
// a source is configured, for stored projects.
type Server struct {
	logger    zerolog.Logger
	snapshots *store.MemorySource
	source    store.Source
	memo      *schedule.Memo
	opts      Options
}

// New creates a Server. source may be nil, in which case the project
// routes are not registered.
func New(logger zerolog.Logger, source store.Source, memo *schedule.Memo, opts Options) *Server {
	return &Server{
		logger:    logger,
		snapshots: store.NewMemorySource(),
		source:    source,
		memo:      memo,
		opts:      opts,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	if s.opts.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(s.requestLogger())
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api/v1")

	snapshots := api.Group("/snapshots")
	snapshots.POST("", s.handleCreateSnapshot)
	snapshots.GET("/:id", s.handleGetSnapshot)
	snapshots.DELETE("/:id", s.handleDeleteSnapshot)
	snapshots.GET("/:id/pert", s.handleSnapshotPert)
	snapshots.GET("/:id/gantt", s.handleSnapshotGantt)

	if s.source != nil {
		projects := api.Group("/projects")
		projects.GET("/:project/pert", s.handleProjectPert)
		projects.GET("/:project/gantt", s.handleProjectGantt)
	}

	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", addr).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		return err
	}
	s.logger.Info().Msg("shut down http server")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := s.logger.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("handled request")
	}
}
