// Package stats loads a household snapshot, runs the scoring engine over it
// and keeps the level persistence overlay tidy.
package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/homequest/chorequest/internal/ledger"
	prommetrics "github.com/homequest/chorequest/internal/metrics"
	"github.com/homequest/chorequest/internal/models"
	"github.com/homequest/chorequest/internal/repository"
	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/pkg/logger"
)

// ErrUserNotFound is returned when a user has no stats in the household.
var ErrUserNotFound = errors.New("user not found in household")

// ChoreRepository interface for chore operations.
type ChoreRepository interface {
	ListByHousehold(householdID string) ([]models.Chore, error)
}

// MemberRepository interface for member operations.
type MemberRepository interface {
	ListByHousehold(householdID string, includeInactive bool) ([]models.Member, error)
}

// DeductionReader reads cumulative point deductions.
type DeductionReader interface {
	GetMany(ctx context.Context, householdID string, userIDs []string) (map[string]int, error)
}

// PersistenceStore reads and clears level persistence entries.
type PersistenceStore interface {
	GetMany(ctx context.Context, householdID string, userIDs []string) (map[string]scoring.PersistenceEntry, error)
	ClearLevelPersistence(ctx context.Context, householdID, userID string) error
}

// Service computes user statistics.
type Service struct {
	cfg         scoring.Config
	chores      ChoreRepository
	members     MemberRepository
	deductions  DeductionReader
	persistence PersistenceStore
	location    *time.Location
	log         *logger.Logger
	now         func() time.Time
}

// NewService creates a new stats service with concrete dependencies.
// Calendar days are taken in location.
func NewService(
	cfg scoring.Config,
	location *time.Location,
	choreRepo *repository.ChoreRepository,
	memberRepo *repository.MemberRepository,
	deductions *ledger.Deductions,
	persistence *ledger.Persistence,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(cfg, location, choreRepo, memberRepo, deductions, persistence, log)
}

// NewServiceWithInterfaces creates a new stats service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	cfg scoring.Config,
	location *time.Location,
	choreRepo ChoreRepository,
	memberRepo MemberRepository,
	deductions DeductionReader,
	persistence PersistenceStore,
	log *logger.Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		cfg:         cfg,
		chores:      choreRepo,
		members:     memberRepo,
		deductions:  deductions,
		persistence: persistence,
		location:    location,
		log:         log,
		now:         time.Now,
	}
}

// Config returns the scoring profile in use.
func (s *Service) Config() scoring.Config {
	return s.cfg
}

// HouseholdStats returns stats for every member of the household and for
// former members who still have completions attributed to them.
//
// A persistence entry whose holder has since earned a level above the
// persisted one is cleared and the stats are recomputed without it.
func (s *Service) HouseholdStats(ctx context.Context, householdID string) ([]scoring.UserStats, error) {
	start := time.Now()
	defer func() {
		prommetrics.ObserveStatsComputeDuration(householdID, time.Since(start).Seconds())
	}()

	in, err := s.snapshot(ctx, householdID)
	if err != nil {
		return nil, err
	}

	stats := s.cfg.Aggregate(in)

	cleared := false
	for _, st := range stats {
		info := st.LevelPersistenceInfo
		if info == nil || info.CalculatedLevel <= info.PersistedLevel {
			continue
		}
		if err := s.persistence.ClearLevelPersistence(ctx, householdID, st.UserID); err != nil {
			s.log.Warn().Err(err).Str("user_id", st.UserID).Msg("Failed to clear outgrown level persistence")
			continue
		}
		delete(in.Persistence, st.UserID)
		cleared = true
		prommetrics.RecordLevelPersistenceCleared("outgrown")
		s.log.Info().
			Str("household", householdID).
			Str("user_id", st.UserID).
			Int("persisted_level", info.PersistedLevel).
			Int("calculated_level", info.CalculatedLevel).
			Msg("Cleared outgrown level persistence")
	}
	if cleared {
		stats = s.cfg.Aggregate(in)
	}

	for _, st := range stats {
		prommetrics.SetMemberStats(householdID, st.UserID, st.EarnedPoints, st.CurrentLevel.Level)
		prommetrics.ObserveEfficiencyScore(householdID, st.EfficiencyScore)
	}

	return stats, nil
}

// UserStats returns stats for a single user of the household.
func (s *Service) UserStats(ctx context.Context, householdID, userID string) (*scoring.UserStats, error) {
	stats, err := s.HouseholdStats(ctx, householdID)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		if stats[i].UserID == userID {
			return &stats[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
}

// snapshot loads everything the engine needs for one household.
func (s *Service) snapshot(ctx context.Context, householdID string) (scoring.Input, error) {
	chores, err := s.chores.ListByHousehold(householdID)
	if err != nil {
		return scoring.Input{}, fmt.Errorf("failed to load chores: %w", err)
	}
	all, err := s.members.ListByHousehold(householdID, true)
	if err != nil {
		return scoring.Input{}, fmt.Errorf("failed to load members: %w", err)
	}
	members := make([]models.Member, 0, len(all))
	carried := make(map[string]int)
	for _, m := range all {
		if m.IsActive {
			members = append(members, m)
		}
		if m.CarriedPoints > 0 {
			carried[m.ID] = m.CarriedPoints
		}
	}

	ids := candidateIDs(chores, members)

	deductions, err := s.deductions.GetMany(ctx, householdID, ids)
	if err != nil {
		return scoring.Input{}, fmt.Errorf("failed to load deductions: %w", err)
	}
	persistence, err := s.persistence.GetMany(ctx, householdID, ids)
	if err != nil {
		return scoring.Input{}, fmt.Errorf("failed to load level persistence: %w", err)
	}

	return scoring.Input{
		Chores:      chores,
		Members:     members,
		Deductions:  deductions,
		Carried:     carried,
		Persistence: persistence,
		Now:         s.clock(),
	}, nil
}

// clock returns the current time in the household's timezone.
func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

// candidateIDs lists every id that can appear in the output.
func candidateIDs(chores []models.Chore, members []models.Member) []string {
	seen := make(map[string]struct{}, len(members))
	ids := make([]string, 0, len(members))
	add := func(id string) {
		if _, ok := seen[id]; ok || id == "" {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, m := range members {
		add(m.ID)
	}
	for _, c := range chores {
		if c.CompletedBy != nil {
			add(*c.CompletedBy)
		}
	}
	return ids
}
