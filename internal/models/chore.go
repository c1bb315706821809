// Package models defines domain models for the chore gamification system.
package models

import (
	"time"
)

// Difficulty grades how hard a chore is; it drives the default point value.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Category governs recurrence and the default due date.
type Category string

const (
	CategoryDaily    Category = "daily"
	CategoryWeekly   Category = "weekly"
	CategoryMonthly  Category = "monthly"
	CategorySeasonal Category = "seasonal"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryDaily, CategoryWeekly, CategoryMonthly, CategorySeasonal:
		return true
	}
	return false
}

// Priority is display-only and never affects scoring.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Chore represents a unit of household work.
//
// FinalPoints is kept when a recurring chore is reset to incomplete so that
// lifetime totals survive the cycle. CompletedBy is kept for the same reason.
// When the chore is completed again, the kept FinalPoints move to the
// previous completer's Member.CarriedPoints before being overwritten.
type Chore struct {
	ID           string     `gorm:"primaryKey;size:64" json:"id"`
	HouseholdID  string     `gorm:"not null;index;size:64" json:"household_id"`
	Title        string     `gorm:"not null;size:255" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Difficulty   Difficulty `gorm:"not null;size:16" json:"difficulty"`
	Category     Category   `gorm:"not null;size:16;index" json:"category"`
	Priority     Priority   `gorm:"size:16" json:"priority"`
	Points       int        `gorm:"not null" json:"points"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CompletedBy  *string    `gorm:"size:64;index" json:"completed_by,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	AssignedTo   *string    `gorm:"size:64" json:"assigned_to,omitempty"`
	FinalPoints  *int       `json:"final_points,omitempty"`
	BonusMessage *string    `gorm:"size:255" json:"bonus_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Chore model.
func (Chore) TableName() string {
	return "chores"
}

// EarnedPoints returns the points a completed chore is worth: the awarded
// value when one was recorded, the base value otherwise.
func (c *Chore) EarnedPoints() int {
	if c.FinalPoints != nil {
		return *c.FinalPoints
	}
	return c.Points
}
