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
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/handler"
	departmentHandler "github.com/jwalitptl/hospital-api/internal/handler/department"
	doctorHandler "github.com/jwalitptl/hospital-api/internal/handler/doctor"
	nurseHandler "github.com/jwalitptl/hospital-api/internal/handler/nurse"
	roomHandler "github.com/jwalitptl/hospital-api/internal/handler/room"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/internal/router"
	assignmentService "github.com/jwalitptl/hospital-api/internal/service/assignment"
	directoryService "github.com/jwalitptl/hospital-api/internal/service/directory"
	eventService "github.com/jwalitptl/hospital-api/internal/service/event"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	base := postgres.NewBaseRepository(db)
	directoryRepo := postgres.NewDirectoryRepository(base)
	assignmentRepo := postgres.NewAssignmentRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	appMetrics := metrics.NewMetrics("hospital_api", "assignments")

	// Initialize services
	directorySvc := directoryService.NewService(directoryRepo)
	eventSvc := eventService.NewService(outboxRepo)
	guard := assignmentService.Guard{ExclusiveRooms: cfg.Assignment.ExclusiveRoomAssignment}
	assignmentSvc := assignmentService.NewService(directoryRepo, assignmentRepo, guard, eventSvc, appMetrics)

	// Initialize handlers
	h := handler.NewHandler(db)
	departmentH := departmentHandler.NewHandler(assignmentSvc, directorySvc)
	doctorH := doctorHandler.NewHandler(assignmentSvc, directorySvc)
	nurseH := nurseHandler.NewHandler(assignmentSvc, directorySvc)
	roomH := roomHandler.NewHandler(directorySvc)

	r := router.NewRouter(
		departmentH,
		doctorH,
		nurseH,
		roomH,
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.RateLimit.RPS),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "hospital_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
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
