package models

import (
	"time"
)

// Role of a household member.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Member represents a person belonging to a household.
//
// CarriedPoints holds points from earlier cycles of recurring chores that a
// later completion has overwritten on the chore row.
type Member struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	HouseholdID   string    `gorm:"not null;index;size:64" json:"household_id"`
	Name          string    `gorm:"not null;size:255" json:"name"`
	Email         string    `gorm:"size:255" json:"email"`
	Role          Role      `gorm:"size:16" json:"role"`
	Avatar        string    `gorm:"size:255" json:"avatar"`
	JoinedAt      time.Time `json:"joined_at"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CarriedPoints int       `gorm:"not null;default:0" json:"carried_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Member model.
func (Member) TableName() string {
	return "members"
}
