// Package redemption approves point redemptions: it books the deduction,
// optionally freezes the member's displayed level and prices the points.
package redemption

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homequest/chorequest/internal/config"
	"github.com/homequest/chorequest/internal/ledger"
	prommetrics "github.com/homequest/chorequest/internal/metrics"
	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/internal/service/stats"
	"github.com/homequest/chorequest/pkg/logger"
)

// Redemption errors.
var (
	ErrInvalidPoints      = errors.New("points must be positive")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// StatsProvider returns a single user's current stats.
type StatsProvider interface {
	UserStats(ctx context.Context, householdID, userID string) (*scoring.UserStats, error)
}

// DeductionLedger books point deductions.
type DeductionLedger interface {
	UpdateUserPoints(ctx context.Context, householdID, userID string, points int) (int, error)
}

// PersistenceStore sets and clears level persistence.
type PersistenceStore interface {
	SetLevelPersistence(ctx context.Context, householdID, userID string, level, pointsAtRedemption, graceDays int) (scoring.PersistenceEntry, error)
	ClearLevelPersistence(ctx context.Context, householdID, userID string) error
}

// Request asks to redeem Points for UserID. PersistLevel overrides the
// configured default; GraceDays overrides the configured grace period.
type Request struct {
	UserID       string `json:"user_id" binding:"required"`
	Points       int    `json:"points" binding:"required"`
	PersistLevel *bool  `json:"persist_level,omitempty"`
	GraceDays    int    `json:"grace_days,omitempty"`
}

// Result describes an approved redemption.
type Result struct {
	UserID               string          `json:"user_id"`
	PointsDeducted       int             `json:"points_deducted"`
	TotalDeducted        int             `json:"total_deducted"`
	RemainingPoints      int             `json:"remaining_points"`
	CashValue            decimal.Decimal `json:"cash_value"`
	Currency             string          `json:"currency"`
	PersistedLevel       *int            `json:"persisted_level,omitempty"`
	PersistenceExpiresAt *time.Time      `json:"persistence_expires_at,omitempty"`
}

// Service handles point redemptions.
type Service struct {
	scoring          scoring.Config
	stats            StatsProvider
	deductions       DeductionLedger
	persistence      PersistenceStore
	cashPerPoint     decimal.Decimal
	currency         string
	graceDays        int
	persistByDefault bool
	log              *logger.Logger
}

// NewService creates a new redemption service with concrete dependencies.
func NewService(
	cfg *config.RedemptionConfig,
	scoringCfg scoring.Config,
	statsService *stats.Service,
	deductions *ledger.Deductions,
	persistence *ledger.Persistence,
	log *logger.Logger,
) (*Service, error) {
	return NewServiceWithInterfaces(cfg, scoringCfg, statsService, deductions, persistence, log)
}

// NewServiceWithInterfaces creates a new redemption service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	cfg *config.RedemptionConfig,
	scoringCfg scoring.Config,
	provider StatsProvider,
	deductions DeductionLedger,
	persistence PersistenceStore,
	log *logger.Logger,
) (*Service, error) {
	cashPerPoint, err := decimal.NewFromString(cfg.CashPerPoint)
	if err != nil {
		return nil, fmt.Errorf("invalid redemption.cash_per_point %q: %w", cfg.CashPerPoint, err)
	}
	if cashPerPoint.IsNegative() {
		return nil, fmt.Errorf("redemption.cash_per_point must not be negative")
	}

	graceDays := cfg.GracePeriodDays
	if graceDays <= 0 {
		graceDays = scoring.DefaultGracePeriodDays
	}

	return &Service{
		scoring:          scoringCfg,
		stats:            provider,
		deductions:       deductions,
		persistence:      persistence,
		cashPerPoint:     cashPerPoint,
		currency:         cfg.Currency,
		graceDays:        graceDays,
		persistByDefault: cfg.PersistByDefault,
		log:              log,
	}, nil
}

// CashValue prices points at the configured rate.
func (s *Service) CashValue(points int) decimal.Decimal {
	return decimal.NewFromInt(int64(points)).Mul(s.cashPerPoint)
}

// ApproveRedemption deducts req.Points from the user's earned points.
//
// The level shown before the redemption is kept for the grace period unless
// persistence is turned off for the request or the user is a demo account.
// An already persisted level is carried over together with its original
// redemption-time point total.
func (s *Service) ApproveRedemption(ctx context.Context, householdID string, req Request) (*Result, error) {
	if req.Points <= 0 {
		return nil, ErrInvalidPoints
	}

	st, err := s.stats.UserStats(ctx, householdID, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.Points > st.EarnedPoints {
		prommetrics.RecordRedemption(householdID, "rejected", req.Points)
		s.log.Warn().
			Str("household", householdID).
			Str("user_id", req.UserID).
			Int("requested", req.Points).
			Int("available", st.EarnedPoints).
			Msg("Redemption rejected")
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientPoints, req.Points, st.EarnedPoints)
	}

	level := st.CurrentLevel.Level
	pointsAtRedemption := st.EarnedPoints
	if st.LevelPersistenceInfo != nil {
		pointsAtRedemption = st.LevelPersistenceInfo.PointsAtRedemption
	}

	total, err := s.deductions.UpdateUserPoints(ctx, householdID, req.UserID, req.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to record deduction: %w", err)
	}

	result := &Result{
		UserID:          req.UserID,
		PointsDeducted:  req.Points,
		TotalDeducted:   total,
		RemainingPoints: st.EarnedPoints - req.Points,
		CashValue:       s.CashValue(req.Points),
		Currency:        s.currency,
	}

	persist := s.persistByDefault
	if req.PersistLevel != nil {
		persist = *req.PersistLevel
	}
	if persist && !s.scoring.IsDemoUser(req.UserID) {
		graceDays := req.GraceDays
		if graceDays <= 0 {
			graceDays = s.graceDays
		}
		entry, err := s.persistence.SetLevelPersistence(ctx, householdID, req.UserID, level, pointsAtRedemption, graceDays)
		if err != nil {
			// The deduction is already booked; the level simply is not frozen.
			s.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to persist level after redemption")
		} else {
			result.PersistedLevel = &entry.Level
			result.PersistenceExpiresAt = &entry.ExpiresAt
		}
	}

	prommetrics.RecordRedemption(householdID, "approved", req.Points)
	s.log.Info().
		Str("household", householdID).
		Str("user_id", req.UserID).
		Int("points", req.Points).
		Int("total_deducted", total).
		Str("cash_value", result.CashValue.StringFixed(2)).
		Msg("Redemption approved")

	return result, nil
}

// ClearLevelPersistence drops the user's persisted level in the household
// immediately.
func (s *Service) ClearLevelPersistence(ctx context.Context, householdID, userID string) error {
	if err := s.persistence.ClearLevelPersistence(ctx, householdID, userID); err != nil {
		return err
	}
	prommetrics.RecordLevelPersistenceCleared("manual")
	s.log.Info().Str("household", householdID).Str("user_id", userID).Msg("Level persistence cleared")
	return nil
}
