// Package server provides the HTTP server implementation
package server

// @title           Citygate API
// @version         1.0
// @description     Account security API: registration, login with progressive lockout, token refresh, email verification and password reset.
//
// @description.markdown
// All API endpoints are subject to per-IP rate limiting. When the limit is
// exceeded status 429 is returned with a Retry-After header.
//
// Errors are returned as {"errors":{"msg":"CODE"}}.
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication

import (
	"citygate/internal/api/middleware"
	"citygate/internal/api/routes"
	"citygate/internal/auth"
	"citygate/internal/config"
	"citygate/internal/email"
	"citygate/internal/repository/postgres"
	"citygate/internal/scheduler"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

// jobRunner runs background jobs until its context is cancelled
type jobRunner interface {
	Start(ctx context.Context) error
}

// Server represents the HTTP server and its background jobs
type Server struct {
	cfg       *config.Config
	http      *http.Server
	scheduler jobRunner
}

// New wires repositories, services and routes on top of db
func New(cfg *config.Config, db *sql.DB) (*Server, error) {
	port, err := strconv.Atoi(cfg.API.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid port number: %w", err)
	}

	accountRepo := postgres.NewAccountRepository(db)
	accessRepo := postgres.NewAccessRepository(db)
	resetRepo := postgres.NewPasswordResetRepository(db)

	tokens, err := auth.NewTokenService(cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authService := auth.NewService(cfg, auth.Deps{
		Accounts: accountRepo,
		Resets:   resetRepo,
		Access:   accessRepo,
		Tokens:   tokens,
		Mailer:   email.NewSender(cfg.Email),
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	router := routes.SetupRoutes(cfg, routes.Dependencies{
		DB:          db,
		AuthService: authService,
		AccessRepo:  accessRepo,
		RateLimiter: limiter,
	})

	jobs := scheduler.NewManager()
	jobs.Register(cfg.Maintenance.Schedule, scheduler.NewPurgeAccessJob(accessRepo, cfg.Maintenance.AccessRetention))
	jobs.Register(cfg.Maintenance.Schedule, scheduler.NewPurgeResetsJob(resetRepo, cfg.Maintenance.ResetRetention))
	jobs.Register("@every 1h", scheduler.NewFuncJob("sweep-rate-limiters", func(ctx context.Context) error {
		if n := limiter.Sweep(); n > 0 {
			log.Printf("Dropped %d idle rate limiters", n)
		}
		return nil
	}))

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		scheduler: jobs,
	}, nil
}

// Run serves HTTP and runs the scheduler until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	errCh := make(chan error, 2)
	schedulerDone := make(chan struct{})

	go func() {
		log.Printf("Starting server on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	go func() {
		defer close(schedulerDone)
		if err := s.scheduler.Start(runCtx); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	log.Println("Shutting down server...")

	// The scheduler stops with the server, whichever side failed first
	stop()

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.http.Shutdown(shutdownCtx)
	<-schedulerDone
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exiting")
	return runErr
}
