package main

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/greenpulse/sustainability-api/internal/config"
	"github.com/greenpulse/sustainability-api/internal/database"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"github.com/greenpulse/sustainability-api/internal/services"
	"go.uber.org/zap"
)

// The scheduler runs the maintenance sweeps once a day: expired voting
// windows, first-of-month activations and failed-initiative cleanup. The
// sweeps are idempotent, so an overlapping manual trigger through the API
// is harmless.
func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	cfg := config.Load()
	logger.Info("config loaded")

	logger.Info("connecting to database")
	if err := database.Connect(cfg); err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	logger.Info("database connected")

	db := database.GetDB()
	initiativeRepo := repository.NewInitiativeRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	lifecycle := services.NewLifecycleService(initiativeRepo, voteRepo)
	maintenance := services.NewMaintenanceService(initiativeRepo, companyRepo, lifecycle)

	s := gocron.NewScheduler(time.UTC)

	if _, err := s.Cron(cfg.SchedulerCron).Do(func() {
		logger.Info("running maintenance sweeps")

		report, err := maintenance.Run()
		if err != nil {
			logger.Errorw("maintenance run failed", "error", err)
			return
		}

		logger.Infow("maintenance run finished",
			"expired_activations", report.ExpiredActivations,
			"monthly_activations", report.MonthlyActivations,
			"deleted_initiatives", report.DeletedInitiatives,
		)
	}); err != nil {
		logger.Fatalw("failed to schedule maintenance job", "error", err)
	}

	logger.Infow("scheduler started", "cron", cfg.SchedulerCron)
	s.StartBlocking()
}
