// Package dashboard provides REST API handlers for household chores,
// members, statistics, leaderboards and point redemptions.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homequest/chorequest/internal/models"
	"github.com/homequest/chorequest/internal/scoring"
	"github.com/homequest/chorequest/internal/service/chores"
	"github.com/homequest/chorequest/internal/service/leaderboard"
	"github.com/homequest/chorequest/internal/service/redemption"
	"github.com/homequest/chorequest/internal/service/stats"
	"github.com/homequest/chorequest/pkg/logger"
)

// ChoreService interface for chore and member operations.
type ChoreService interface {
	CreateChore(ctx context.Context, householdID string, req chores.CreateChoreRequest) (*models.Chore, error)
	ListChores(ctx context.Context, householdID string) ([]models.Chore, error)
	DeleteChore(ctx context.Context, householdID, choreID string) error
	CompleteChore(ctx context.Context, householdID, choreID, memberID string) (*models.Chore, error)
	AddMember(ctx context.Context, householdID string, req chores.CreateMemberRequest) (*models.Member, error)
	ListMembers(ctx context.Context, householdID string) ([]models.Member, error)
}

// StatsService interface for statistics.
type StatsService interface {
	HouseholdStats(ctx context.Context, householdID string) ([]scoring.UserStats, error)
	UserStats(ctx context.Context, householdID, userID string) (*scoring.UserStats, error)
}

// LeaderboardService interface for leaderboard operations.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, householdID, metric string, limit int) ([]leaderboard.Entry, error)
}

// RedemptionService interface for point redemptions.
type RedemptionService interface {
	ApproveRedemption(ctx context.Context, householdID string, req redemption.Request) (*redemption.Result, error)
	ClearLevelPersistence(ctx context.Context, householdID, userID string) error
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handler handles dashboard API requests.
type Handler struct {
	choreService       ChoreService
	statsService       StatsService
	leaderboardService LeaderboardService
	redemptionService  RedemptionService
	healthChecks       map[string]HealthCheck
	log                *logger.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(
	choreService *chores.Service,
	statsService *stats.Service,
	leaderboardService *leaderboard.Service,
	redemptionService *redemption.Service,
	log *logger.Logger,
) *Handler {
	return NewHandlerWithInterfaces(choreService, statsService, leaderboardService, redemptionService, log)
}

// NewHandlerWithInterfaces creates a new dashboard handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(
	choreService ChoreService,
	statsService StatsService,
	leaderboardService LeaderboardService,
	redemptionService RedemptionService,
	log *logger.Logger,
) *Handler {
	return &Handler{
		choreService:       choreService,
		statsService:       statsService,
		leaderboardService: leaderboardService,
		redemptionService:  redemptionService,
		healthChecks:       make(map[string]HealthCheck),
		log:                log,
	}
}

// AddHealthCheck registers a dependency checked by the health endpoint.
func (h *Handler) AddHealthCheck(name string, check HealthCheck) {
	h.healthChecks[name] = check
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1/households/:household")
	api.GET("/stats", h.GetHouseholdStats)
	api.GET("/users/:id/stats", h.GetUserStats)
	api.GET("/leaderboard", h.GetLeaderboard)

	api.GET("/chores", h.ListChores)
	api.POST("/chores", h.CreateChore)
	api.POST("/chores/:id/complete", h.CompleteChore)
	api.DELETE("/chores/:id", h.DeleteChore)

	api.GET("/members", h.ListMembers)
	api.POST("/members", h.AddMember)

	api.POST("/redemptions", h.ApproveRedemption)
	api.DELETE("/users/:id/level-persistence", h.ClearLevelPersistence)
}

// Health reports the status of every registered dependency.
// GET /health.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.healthChecks))
	for name, check := range h.healthChecks {
		if err := check(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}

// GetHouseholdStats returns stats for every member of a household.
// GET /api/v1/households/:household/stats.
func (h *Handler) GetHouseholdStats(c *gin.Context) {
	household := c.Param("household")

	userStats, err := h.statsService.HouseholdStats(c.Request.Context(), household)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve household stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"household":    household,
		"stats":        userStats,
		"total_users":  len(userStats),
		"generated_at": time.Now().UTC(),
	})
}

// GetUserStats returns stats for a single user.
// GET /api/v1/households/:household/users/:id/stats.
func (h *Handler) GetUserStats(c *gin.Context) {
	household := c.Param("household")
	userID := c.Param("id")

	st, err := h.statsService.UserStats(c.Request.Context(), household, userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve user stats")
		return
	}

	c.JSON(http.StatusOK, st)
}

// GetLeaderboard returns the household leaderboard.
// GET /api/v1/households/:household/leaderboard?metric=earned_points&limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	household := c.Param("household")
	metric := c.DefaultQuery("metric", leaderboard.MetricEarnedPoints)
	limit, err := h.parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if !leaderboard.ValidMetric(metric) {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid metric: %s (valid: %s, %s, %s, %s, %s)", metric,
			leaderboard.MetricEarnedPoints, leaderboard.MetricEfficiencyScore, leaderboard.MetricCurrentStreak,
			leaderboard.MetricCompletedChores, leaderboard.MetricLevel))
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), household, metric, limit)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve leaderboard")
		return
	}

	h.log.Info().
		Str("household", household).
		Str("metric", metric).
		Int("limit", limit).
		Int("entries", len(entries)).
		Msg("Retrieved leaderboard")

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"metric":        metric,
		"total_entries": len(entries),
		"generated_at":  time.Now().UTC(),
	})
}

// ApproveRedemption redeems points for a user.
// POST /api/v1/households/:household/redemptions.
func (h *Handler) ApproveRedemption(c *gin.Context) {
	household := c.Param("household")

	var req redemption.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result, err := h.redemptionService.ApproveRedemption(c.Request.Context(), household, req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to approve redemption")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearLevelPersistence removes a user's persisted level.
// DELETE /api/v1/households/:household/users/:id/level-persistence.
func (h *Handler) ClearLevelPersistence(c *gin.Context) {
	household := c.Param("household")
	userID := c.Param("id")

	if err := h.redemptionService.ClearLevelPersistence(c.Request.Context(), household, userID); err != nil {
		h.handleServiceError(c, err, "Failed to clear level persistence")
		return
	}

	c.Status(http.StatusNoContent)
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}

	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}

	if limit > 1000 {
		return 0, fmt.Errorf("limit cannot exceed 1000")
	}

	return limit, nil
}

// handleServiceError maps service errors to HTTP status codes. Unknown
// errors are logged and reported with fallback.
func (h *Handler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, chores.ErrInvalidInput),
		errors.Is(err, redemption.ErrInvalidPoints),
		errors.Is(err, leaderboard.ErrUnknownMetric):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, chores.ErrChoreNotFound),
		errors.Is(err, chores.ErrMemberNotFound),
		errors.Is(err, stats.ErrUserNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, chores.ErrAlreadyCompleted),
		errors.Is(err, redemption.ErrInsufficientPoints):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		h.errorResponse(c, http.StatusInternalServerError, fallback)
	}
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
