// Package chores manages household chores and members: creation,
// completion with early and late adjustments, and the daily reset.
package chores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	prommetrics "github.com/homequest/chorequest/internal/metrics"
	"github.com/homequest/chorequest/internal/models"
	"github.com/homequest/chorequest/internal/repository"
	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/pkg/logger"
)

var (
	// ErrChoreNotFound is returned when a chore does not exist in the household.
	ErrChoreNotFound = errors.New("chore not found")
	// ErrMemberNotFound is returned when a member does not exist in the household.
	ErrMemberNotFound = errors.New("member not found")
	// ErrAlreadyCompleted is returned when completing a completed chore.
	ErrAlreadyCompleted = errors.New("chore already completed")
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// ChoreRepository interface for chore operations.
type ChoreRepository interface {
	Create(chore *models.Chore) error
	GetByID(householdID, id string) (*models.Chore, error)
	ListByHousehold(householdID string) ([]models.Chore, error)
	Update(chore *models.Chore) error
	UpdateWithCarryover(chore *models.Chore, memberID string, points int) error
	UpdateMany(chores []models.Chore) error
	Delete(householdID, id string) error
}

// MemberRepository interface for member operations.
type MemberRepository interface {
	Create(member *models.Member) error
	GetByID(householdID, id string) (*models.Member, error)
	ListByHousehold(householdID string, includeInactive bool) ([]models.Member, error)
}

// ResetRepository interface for reset state operations.
type ResetRepository interface {
	Get(householdID string) (*models.ResetState, error)
	Save(state *models.ResetState) error
}

// CreateChoreRequest describes a new chore. Points and DueDate are derived
// from difficulty and category when omitted.
type CreateChoreRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Difficulty  models.Difficulty `json:"difficulty"`
	Category    models.Category   `json:"category"`
	Priority    models.Priority   `json:"priority"`
	Points      *int              `json:"points"`
	DueDate     *time.Time        `json:"due_date"`
	AssignedTo  *string           `json:"assigned_to"`
}

// CreateMemberRequest describes a new household member.
type CreateMemberRequest struct {
	Name   string      `json:"name" binding:"required"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Avatar string      `json:"avatar"`
}

// Service handles chore and member operations.
type Service struct {
	chores   ChoreRepository
	members  MemberRepository
	resets   ResetRepository
	location *time.Location
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new chore service with concrete repository types.
// Day boundaries for the reset are taken in loc.
func NewService(
	choreRepo *repository.ChoreRepository,
	memberRepo *repository.MemberRepository,
	resetRepo *repository.ResetRepository,
	loc *time.Location,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(choreRepo, memberRepo, resetRepo, loc, log)
}

// NewServiceWithInterfaces creates a new chore service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	choreRepo ChoreRepository,
	memberRepo MemberRepository,
	resetRepo ResetRepository,
	loc *time.Location,
	log *logger.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		chores:   choreRepo,
		members:  memberRepo,
		resets:   resetRepo,
		location: loc,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

// CreateChore validates and stores a new chore.
func (s *Service) CreateChore(_ context.Context, householdID string, req CreateChoreRequest) (*models.Chore, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, difficulty)
	}

	category := req.Category
	if category == "" {
		category = models.CategoryDaily
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	points := scoring.BasePoints(difficulty)
	if req.Points != nil {
		if *req.Points < 0 {
			return nil, fmt.Errorf("%w: points must not be negative", ErrInvalidInput)
		}
		points = *req.Points
	}

	now := s.clock()
	due := req.DueDate
	if due == nil {
		d := scoring.DefaultDueDate(category, now)
		due = &d
	}

	chore := &models.Chore{
		ID:          uuid.NewString(),
		HouseholdID: householdID,
		Title:       title,
		Description: req.Description,
		Difficulty:  difficulty,
		Category:    category,
		Priority:    priority,
		Points:      points,
		DueDate:     due,
		AssignedTo:  req.AssignedTo,
	}
	if err := s.chores.Create(chore); err != nil {
		return nil, err
	}

	prommetrics.RecordChoreCreated(householdID, string(category))
	s.log.Info().
		Str("household", householdID).
		Str("chore_id", chore.ID).
		Str("difficulty", string(difficulty)).
		Int("points", points).
		Msg("Chore created")

	return chore, nil
}

// ListChores returns every chore of a household.
func (s *Service) ListChores(_ context.Context, householdID string) ([]models.Chore, error) {
	return s.chores.ListByHousehold(householdID)
}

// GetChore returns a single chore.
func (s *Service) GetChore(_ context.Context, householdID, choreID string) (*models.Chore, error) {
	chore, err := s.chores.GetByID(householdID, choreID)
	if err != nil {
		return nil, translateNotFound(err, ErrChoreNotFound)
	}
	return chore, nil
}

// DeleteChore removes a chore.
func (s *Service) DeleteChore(_ context.Context, householdID, choreID string) error {
	if err := s.chores.Delete(householdID, choreID); err != nil {
		return translateNotFound(err, ErrChoreNotFound)
	}
	s.log.Info().Str("household", householdID).Str("chore_id", choreID).Msg("Chore deleted")
	return nil
}

// CompleteChore marks a chore done by memberID and awards its points,
// adjusted for finishing early or late. Points kept from a cycle the daily
// reset closed are carried over to whoever earned them.
func (s *Service) CompleteChore(_ context.Context, householdID, choreID, memberID string) (*models.Chore, error) {
	chore, err := s.chores.GetByID(householdID, choreID)
	if err != nil {
		return nil, translateNotFound(err, ErrChoreNotFound)
	}
	if chore.Completed {
		return nil, ErrAlreadyCompleted
	}
	if _, err := s.members.GetByID(householdID, memberID); err != nil {
		return nil, translateNotFound(err, ErrMemberNotFound)
	}

	var carryTo string
	var carried int
	if chore.FinalPoints != nil && chore.CompletedBy != nil && *chore.FinalPoints > 0 {
		carryTo, carried = *chore.CompletedBy, *chore.FinalPoints
	}

	now := s.clock()
	points, message := scoring.CompletionPoints(*chore, now)

	chore.Completed = true
	chore.CompletedAt = &now
	chore.CompletedBy = &memberID
	chore.FinalPoints = &points
	chore.BonusMessage = nil
	if message != "" {
		chore.BonusMessage = &message
	}

	if carryTo != "" {
		err = s.chores.UpdateWithCarryover(chore, carryTo, carried)
	} else {
		err = s.chores.Update(chore)
	}
	if err != nil {
		return nil, err
	}

	prommetrics.RecordChoreCompleted(householdID, string(chore.Difficulty), completionTiming(*chore), points)
	s.log.Info().
		Str("household", householdID).
		Str("chore_id", choreID).
		Str("member_id", memberID).
		Int("base_points", chore.Points).
		Int("final_points", points).
		Int("carried_points", carried).
		Msg("Chore completed")

	return chore, nil
}

// RunReset applies the daily reset for a household and persists both the
// changed chores and the new reset timestamp.
func (s *Service) RunReset(_ context.Context, householdID string) (*ResetResult, error) {
	state, err := s.resets.Get(householdID)
	if err != nil {
		return nil, err
	}

	var lastReset time.Time
	count := 0
	if state != nil {
		lastReset = state.LastReset
		count = state.ResetCount
	}

	chores, err := s.chores.ListByHousehold(householdID)
	if err != nil {
		return nil, err
	}

	res := ApplyMidnightReset(s.clock(), lastReset, chores)
	if !res.Applied {
		s.log.Debug().Str("household", householdID).Time("last_reset", lastReset).Msg("Reset already ran today")
		return &res, nil
	}

	changed := make([]models.Chore, 0, len(res.Changed))
	for _, c := range res.Chores {
		for _, id := range res.Changed {
			if c.ID == id {
				changed = append(changed, c)
				break
			}
		}
	}
	if err := s.chores.UpdateMany(changed); err != nil {
		return nil, err
	}

	if err := s.resets.Save(&models.ResetState{
		HouseholdID: householdID,
		LastReset:   res.LastReset,
		ResetCount:  count + 1,
	}); err != nil {
		return nil, err
	}

	prommetrics.RecordChoresReset(householdID, len(res.Changed))
	s.log.Info().
		Str("household", householdID).
		Int("reset_chores", len(res.Changed)).
		Msg("Daily chores reset")

	return &res, nil
}

// AddMember adds a member to a household.
func (s *Service) AddMember(_ context.Context, householdID string, req CreateMemberRequest) (*models.Member, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	role := req.Role
	switch role {
	case "":
		role = models.RoleMember
	case models.RoleAdmin, models.RoleMember:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	member := &models.Member{
		ID:          uuid.NewString(),
		HouseholdID: householdID,
		Name:        name,
		Email:       req.Email,
		Role:        role,
		Avatar:      req.Avatar,
		JoinedAt:    s.clock(),
		IsActive:    true,
	}
	if err := s.members.Create(member); err != nil {
		return nil, err
	}

	s.log.Info().Str("household", householdID).Str("member_id", member.ID).Msg("Member added")
	return member, nil
}

// ListMembers returns the active members of a household.
func (s *Service) ListMembers(_ context.Context, householdID string) ([]models.Member, error) {
	return s.members.ListByHousehold(householdID, false)
}

func completionTiming(c models.Chore) string {
	switch {
	case c.DueDate == nil || c.CompletedAt == nil:
		return "undated"
	case c.CompletedAt.After(*c.DueDate):
		return "late"
	default:
		return "early"
	}
}

func translateNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}
