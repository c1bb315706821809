package repository

import (
	"fmt"

	"github.com/homequest/chorequest/internal/models"
)

// MemberRepository handles household member database operations.
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create creates a new member.
func (r *MemberRepository) Create(member *models.Member) error {
	if err := r.db.Create(member).Error; err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// GetByID retrieves a member within a household.
func (r *MemberRepository) GetByID(householdID, id string) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("household_id = ? AND id = ?", householdID, id).First(&member).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", id, err)
	}
	return &member, nil
}

// ListByHousehold retrieves the members of a household in join order.
// Inactive members are included only when includeInactive is set.
func (r *MemberRepository) ListByHousehold(householdID string, includeInactive bool) ([]models.Member, error) {
	query := r.db.Where("household_id = ?", householdID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var members []models.Member
	if err := query.Order("joined_at ASC, id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// Update saves all fields of a member.
func (r *MemberRepository) Update(member *models.Member) error {
	if err := r.db.Save(member).Error; err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}
