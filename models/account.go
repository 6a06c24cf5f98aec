package models

import (
	"time"

	"gorm.io/gorm"
)

// Account owns a user's point balance, streak state and referral stats.
// Passwords are stored as bcrypt hashes only.
type Account struct {
	ID                   string     `gorm:"primaryKey;size:36" json:"id"`
	Email                string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash         string     `gorm:"size:255" json:"-"`
	DisplayName          string     `gorm:"size:64" json:"display_name"`
	TotalPoints          int        `gorm:"not null;default:0" json:"total_points"`
	StreakCount          int        `gorm:"not null;default:0" json:"streak_count"`
	LastCheckInDate      *time.Time `json:"last_check_in_date"`
	ReferralCode         string     `gorm:"size:16;uniqueIndex" json:"referral_code"`
	TotalReferrals       int        `gorm:"not null;default:0" json:"total_referrals"`
	ReferralPointsEarned int        `gorm:"not null;default:0" json:"referral_points_earned"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// BeforeCreate hook assigns identifiers and timestamps when not provided.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.ReferralCode == "" {
		a.ReferralCode = NewReferralCode()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}
