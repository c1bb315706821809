// Command server runs the chore tracking API together with the nightly
// reset scheduler.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homequest/chorequest/internal/api/dashboard"
	"github.com/homequest/chorequest/internal/cache"
	"github.com/homequest/chorequest/internal/config"
	"github.com/homequest/chorequest/internal/ledger"
	"github.com/homequest/chorequest/internal/notify"
	"github.com/homequest/chorequest/internal/repository"
	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/internal/service/chores"
	"github.com/homequest/chorequest/internal/service/leaderboard"
	"github.com/homequest/chorequest/internal/service/redemption"
	"github.com/homequest/chorequest/internal/service/scheduler"
	"github.com/homequest/chorequest/internal/service/stats"
	"github.com/homequest/chorequest/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	scoringCfg, err := loadScoringConfig(&cfg.Scoring)
	if err != nil {
		return err
	}
	log.Info().
		Str("profile", scoringCfg.Version).
		Int("levels", len(scoringCfg.Levels)).
		Msg("Scoring profile loaded")

	location, err := cfg.Scheduler.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid scheduler timezone: %w", err)
	}

	if cfg.Database.Postgres.RunMigrations {
		if err := repository.RunMigrations(cfg.Database.Postgres.URL(), log.Component("migrate")); err != nil {
			return err
		}
	}

	db, err := repository.NewDB(&cfg.Database.Postgres, log.Component("database"))
	if err != nil {
		return err
	}
	defer db.Close()

	redisCache, err := cache.NewCache(&cfg.Database.Redis, log.Component("cache"))
	if err != nil {
		return err
	}
	defer redisCache.Close()

	choreRepo := repository.NewChoreRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	resetRepo := repository.NewResetRepository(db)

	deductions := ledger.NewDeductions(redisCache, log.Component("ledger"))
	persistence := ledger.NewPersistence(redisCache, log.Component("ledger"))

	choreService := chores.NewService(choreRepo, memberRepo, resetRepo, location, log.Component("chores"))
	statsService := stats.NewService(scoringCfg, location, choreRepo, memberRepo, deductions, persistence, log.Component("stats"))
	leaderboardService := leaderboard.NewService(statsService, log.Component("leaderboard"))
	redemptionService, err := redemption.NewService(&cfg.Redemption, scoringCfg, statsService, deductions, persistence, log.Component("redemption"))
	if err != nil {
		return err
	}

	notifyClient := notify.NewClient(&cfg.Notify, log.Component("notify"))
	schedulerService := scheduler.NewService(cfg, choreService, choreRepo, leaderboardService, notifyClient, log.Component("scheduler"))
	if err := schedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer schedulerService.Stop()

	handler := dashboard.NewHandler(choreService, statsService, leaderboardService, redemptionService, log.Component("api"))
	handler.AddHealthCheck("postgres", func(context.Context) error { return db.Health() })
	handler.AddHealthCheck("redis", redisCache.Health)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)
	if cfg.Metrics.Prometheus.Enabled {
		router.GET(cfg.Metrics.Prometheus.Path, gin.WrapH(promhttp.Handler()))
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

// loadScoringConfig picks the named profile, or the YAML profile file when
// one is configured.
func loadScoringConfig(cfg *config.ScoringConfig) (scoring.Config, error) {
	var (
		sc  scoring.Config
		err error
	)
	if cfg.ProfileFile != "" {
		sc, err = scoring.LoadConfigFile(cfg.ProfileFile)
	} else {
		sc, err = scoring.ConfigByName(cfg.Profile)
	}
	if err != nil {
		return scoring.Config{}, fmt.Errorf("failed to load scoring profile: %w", err)
	}

	if cfg.DemoUserPrefix != "" {
		sc.DemoUserPrefix = cfg.DemoUserPrefix
	}
	return sc, nil
}
