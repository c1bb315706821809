package models

import (
	"time"
)

// ResetState records when the daily chore reset last ran for a household.
type ResetState struct {
	HouseholdID string    `gorm:"primaryKey;size:64" json:"household_id"`
	LastReset   time.Time `gorm:"not null" json:"last_reset"`
	ResetCount  int       `gorm:"not null;default:0" json:"reset_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for ResetState model.
func (ResetState) TableName() string {
	return "reset_states"
}
