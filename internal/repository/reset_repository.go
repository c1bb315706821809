package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/homequest/chorequest/internal/models"
)

// ResetRepository stores the last daily reset per household.
type ResetRepository struct {
	db *DB
}

// NewResetRepository creates a new reset state repository.
func NewResetRepository(db *DB) *ResetRepository {
	return &ResetRepository{db: db}
}

// Get returns the household's reset state, or nil if it never ran.
func (r *ResetRepository) Get(householdID string) (*models.ResetState, error) {
	var state models.ResetState
	err := r.db.Where("household_id = ?", householdID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset state: %w", err)
	}
	return &state, nil
}

// Save upserts the household's reset state.
func (r *ResetRepository) Save(state *models.ResetState) error {
	if err := r.db.Save(state).Error; err != nil {
		return fmt.Errorf("failed to save reset state: %w", err)
	}
	return nil
}
