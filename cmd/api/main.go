package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jwalitptl/dental-clinic-api/internal/config"
	"github.com/jwalitptl/dental-clinic-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/dental-clinic-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/dental-clinic-api/internal/handler/auth"
	patientHandler "github.com/jwalitptl/dental-clinic-api/internal/handler/patient"
	"github.com/jwalitptl/dental-clinic-api/internal/identity"
	"github.com/jwalitptl/dental-clinic-api/internal/middleware"
	"github.com/jwalitptl/dental-clinic-api/internal/repository/postgres"
	"github.com/jwalitptl/dental-clinic-api/internal/router"
	appointmentService "github.com/jwalitptl/dental-clinic-api/internal/service/appointment"
	authService "github.com/jwalitptl/dental-clinic-api/internal/service/auth"
	patientService "github.com/jwalitptl/dental-clinic-api/internal/service/patient"
)

func main() {
	// Amounts serialize as JSON numbers, matching the store's column types.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	// External identity provider client
	identityClient := identity.NewClient(identity.Config{
		URL:     cfg.Identity.URL,
		APIKey:  cfg.Identity.APIKey,
		Timeout: time.Duration(cfg.Identity.TimeoutSeconds) * time.Second,
	})

	// Services
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo)
	authSvc := authService.NewService(identityClient)

	// Handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	patientH := patientHandler.NewHandler(patientSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)

	authMW := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	r := router.NewRouter(cfg, h, authH, patientH, appointmentH, authMW)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
