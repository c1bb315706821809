package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/homequest/chorequest/internal/models"
)

// ChoreRepository handles chore-related database operations.
type ChoreRepository struct {
	db *DB
}

// NewChoreRepository creates a new chore repository.
func NewChoreRepository(db *DB) *ChoreRepository {
	return &ChoreRepository{db: db}
}

// Create creates a new chore.
func (r *ChoreRepository) Create(chore *models.Chore) error {
	if err := r.db.Create(chore).Error; err != nil {
		return fmt.Errorf("failed to create chore: %w", err)
	}
	return nil
}

// GetByID retrieves a chore within a household.
func (r *ChoreRepository) GetByID(householdID, id string) (*models.Chore, error) {
	var chore models.Chore
	err := r.db.Where("household_id = ? AND id = ?", householdID, id).First(&chore).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get chore %s: %w", id, err)
	}
	return &chore, nil
}

// ListByHousehold retrieves all chores of a household in creation order.
func (r *ChoreRepository) ListByHousehold(householdID string) ([]models.Chore, error) {
	var chores []models.Chore
	err := r.db.Where("household_id = ?", householdID).
		Order("created_at ASC, id ASC").
		Find(&chores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chores: %w", err)
	}
	return chores, nil
}

// Update saves all fields of a chore.
func (r *ChoreRepository) Update(chore *models.Chore) error {
	if err := r.db.Save(chore).Error; err != nil {
		return fmt.Errorf("failed to update chore: %w", err)
	}
	return nil
}

// UpdateMany saves several chores in one transaction.
func (r *ChoreRepository) UpdateMany(chores []models.Chore) error {
	if len(chores) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range chores {
			if err := tx.Save(&chores[i]).Error; err != nil {
				return fmt.Errorf("failed to update chore %s: %w", chores[i].ID, err)
			}
		}
		return nil
	})
}

// UpdateWithCarryover saves chore and, in the same transaction, adds points
// to the carried total of memberID in the chore's household.
func (r *ChoreRepository) UpdateWithCarryover(chore *models.Chore, memberID string, points int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Member{}).
			Where("household_id = ? AND id = ?", chore.HouseholdID, memberID).
			UpdateColumn("carried_points", gorm.Expr("carried_points + ?", points)).Error
		if err != nil {
			return fmt.Errorf("failed to carry points for %s: %w", memberID, err)
		}
		if err := tx.Save(chore).Error; err != nil {
			return fmt.Errorf("failed to update chore: %w", err)
		}
		return nil
	})
}

// Delete removes a chore. Returns gorm.ErrRecordNotFound when nothing matched.
func (r *ChoreRepository) Delete(householdID, id string) error {
	res := r.db.Where("household_id = ? AND id = ?", householdID, id).Delete(&models.Chore{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete chore: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete chore %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// ListHouseholds returns every household id that owns chores or members.
func (r *ChoreRepository) ListHouseholds() ([]string, error) {
	var ids []string
	err := r.db.Raw(
		"SELECT household_id FROM chores UNION SELECT household_id FROM members ORDER BY household_id",
	).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	return ids, nil
}
