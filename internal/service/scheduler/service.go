// Package scheduler runs the nightly chore reset and the daily leaderboard digest.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/homequest/chorequest/internal/config"
	prommetrics "github.com/homequest/chorequest/internal/metrics"
	"github.com/homequest/chorequest/internal/notify"
	"github.com/homequest/chorequest/internal/repository"
	"github.com/homequest/chorequest/internal/service/chores"
	"github.com/homequest/chorequest/internal/service/leaderboard"
	"github.com/homequest/chorequest/pkg/logger"
)

// Job names used in logs and metrics.
const (
	jobReset  = "midnight_reset"
	jobDigest = "daily_digest"
)

// ChoreResetter resets a household's daily chores.
type ChoreResetter interface {
	RunReset(ctx context.Context, householdID string) (*chores.ResetResult, error)
}

// HouseholdLister lists known households.
type HouseholdLister interface {
	ListHouseholds() ([]string, error)
}

// LeaderboardProvider ranks a household.
type LeaderboardProvider interface {
	GetLeaderboard(ctx context.Context, householdID, metric string, limit int) ([]leaderboard.Entry, error)
}

// Notifier delivers the daily digest.
type Notifier interface {
	Enabled() bool
	SendDailyDigest(ctx context.Context, household string, entries []notify.DigestEntry) error
}

// Service handles scheduled jobs.
type Service struct {
	config      *config.Config
	chores      ChoreResetter
	households  HouseholdLister
	leaderboard LeaderboardProvider
	notifier    Notifier
	log         *logger.Logger
	cron        *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.Config,
	choreService *chores.Service,
	choreRepo *repository.ChoreRepository,
	leaderboardService *leaderboard.Service,
	notifyClient *notify.Client,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(cfg, choreService, choreRepo, leaderboardService, notifyClient, log)
}

// NewServiceWithInterfaces creates a new scheduler service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	cfg *config.Config,
	resetter ChoreResetter,
	households HouseholdLister,
	board LeaderboardProvider,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		config:      cfg,
		chores:      resetter,
		households:  households,
		leaderboard: board,
		notifier:    notifier,
		log:         log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Scheduler.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.config.Scheduler.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Scheduler.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	resetExpr, err := buildCronExpression(s.config.Scheduler.ResetTime)
	if err != nil {
		return fmt.Errorf("failed to build reset cron expression: %w", err)
	}

	_, err = s.cron.AddFunc(resetExpr, func() {
		s.runMidnightReset(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register midnight reset job: %w", err)
	}

	// Without its own time the digest follows the reset.
	if s.config.Scheduler.DigestTime != "" && s.notifier.Enabled() {
		digestExpr, err := buildCronExpression(s.config.Scheduler.DigestTime)
		if err != nil {
			return fmt.Errorf("failed to build digest cron expression: %w", err)
		}
		_, err = s.cron.AddFunc(digestExpr, func() {
			s.runDailyDigest(context.Background())
		})
		if err != nil {
			return fmt.Errorf("failed to register daily digest job: %w", err)
		}
		s.log.Info().
			Str("schedule", digestExpr).
			Msg("Daily digest job registered")
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", resetExpr).
		Str("timezone", s.config.Scheduler.Timezone).
		Str("reset_time", s.config.Scheduler.ResetTime).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// buildCronExpression turns "HH:MM" into a daily cron expression.
func buildCronExpression(hhmm string) (string, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format %q, expected HH:MM", hhmm)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %q", parts[1])
	}

	// Format: "minute hour day month weekday"
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// householdIDs returns the configured households, or every household the
// database knows about when none are configured.
func (s *Service) householdIDs() ([]string, error) {
	if len(s.config.Scheduler.Households) > 0 {
		return s.config.Scheduler.Households, nil
	}
	return s.households.ListHouseholds()
}

// runMidnightReset executes the nightly reset job. A failing household does
// not stop the others.
func (s *Service) runMidnightReset(ctx context.Context) {
	start := time.Now()
	defer func() {
		prommetrics.ObserveSchedulerJobDuration(jobReset, time.Since(start).Seconds())
		prommetrics.SetSchedulerLastRun(jobReset)
	}()

	s.log.Info().Msg("Running midnight reset job")

	households, err := s.householdIDs()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list households")
		prommetrics.RecordSchedulerJobRun(jobReset, "error")
		return
	}

	failed, resetChores := 0, 0
	for _, h := range households {
		res, err := s.chores.RunReset(ctx, h)
		if err != nil {
			failed++
			s.log.Error().Err(err).Str("household", h).Msg("Midnight reset failed")
			continue
		}
		resetChores += len(res.Changed)
	}

	status := "success"
	if failed > 0 {
		status = "error"
	}
	prommetrics.RecordSchedulerJobRun(jobReset, status)

	s.log.Info().
		Int("households", len(households)).
		Int("failed", failed).
		Int("chores_reset", resetChores).
		Dur("duration", time.Since(start)).
		Msg("Midnight reset job completed")

	if s.config.Scheduler.DigestTime == "" && s.notifier.Enabled() {
		s.runDailyDigest(ctx)
	}
}

// runDailyDigest sends the top of every household's leaderboard.
func (s *Service) runDailyDigest(ctx context.Context) {
	start := time.Now()
	defer func() {
		prommetrics.ObserveSchedulerJobDuration(jobDigest, time.Since(start).Seconds())
		prommetrics.SetSchedulerLastRun(jobDigest)
	}()

	households, err := s.householdIDs()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list households")
		prommetrics.RecordSchedulerJobRun(jobDigest, "error")
		prommetrics.RecordSchedulerNotificationFailed("query_error")
		return
	}

	failed := 0
	for _, h := range households {
		entries, err := s.leaderboard.GetLeaderboard(ctx, h, leaderboard.MetricEarnedPoints, s.config.Notify.DigestSize)
		if err != nil {
			failed++
			s.log.Error().Err(err).Str("household", h).Msg("Failed to build leaderboard for digest")
			prommetrics.RecordSchedulerNotificationFailed("query_error")
			continue
		}

		if err := s.notifier.SendDailyDigest(ctx, h, buildDigestEntries(entries)); err != nil {
			failed++
			s.log.Error().Err(err).Str("household", h).Msg("Failed to send daily digest")
			prommetrics.RecordSchedulerNotificationFailed("webhook_error")
			continue
		}
		prommetrics.RecordSchedulerNotificationSent(h)
	}

	status := "success"
	if failed > 0 {
		status = "error"
	}
	prommetrics.RecordSchedulerJobRun(jobDigest, status)

	s.log.Info().
		Int("households", len(households)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Daily digest job completed")
}
