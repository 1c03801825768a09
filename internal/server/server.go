package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/bootstrap"
	"github.com/yigit/studbuds/internal/config"
	"github.com/yigit/studbuds/internal/pkg/logger"
	"github.com/yigit/studbuds/internal/pkg/websocket"
)

// Server holds the state for the HTTP server.
type Server struct {
	config  *config.Config
	router  *gin.Engine
	store   repositories.Store
	deps    *bootstrap.Dependencies
	logger  zerolog.Logger
	http    *http.Server
	hubCtx  context.Context
	stopHub context.CancelFunc
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, store, lgr)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}
	bootstrap.SeedDefaults(ctx, cfg, deps)

	hubCtx, stopHub := context.WithCancel(context.Background())
	s := &Server{
		config:  cfg,
		router:  bootstrap.SetupRouter(cfg, deps, lgr),
		store:   store,
		deps:    deps,
		logger:  lgr,
		hubCtx:  hubCtx,
		stopHub: stopHub,
	}
	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Str("url", s.config.PublicBaseURL()).Msg("Starting server...")

	go s.deps.Hub.Run(s.hubCtx)
	go websocket.AuditEvents(s.hubCtx, s.deps.Hub, s.logger)

	// WriteTimeout stays unset: websocket connections are long-lived
	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	if err := s.Shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			errs = append(errs, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	// Closes every open websocket
	s.stopHub()

	if s.store != nil {
		s.logger.Info().Msg("Closing database connection...")
		if err := s.store.Close(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Database close error")
			errs = append(errs, err)
		} else {
			s.logger.Info().Msg("Database connection closed.")
		}
	}

	logger.CloseRollbar()

	s.logger.Info().Msg("Server shutdown process complete.")
	if len(errs) > 0 {
		return fmt.Errorf("server shutdown completed with errors: %w", errors.Join(errs...))
	}
	return nil
}
