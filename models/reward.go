package models

import (
	"time"

	"gorm.io/gorm"
)

// RewardCategory classifies catalog entries.
type RewardCategory string

const (
	CategoryGiftCard RewardCategory = "gift_card"
	CategoryCourse   RewardCategory = "course"
	CategoryPremium  RewardCategory = "premium"
	CategoryOther    RewardCategory = "other"
)

// RewardStatus controls whether a reward can be redeemed.
type RewardStatus string

const (
	RewardActive     RewardStatus = "active"
	RewardComingSoon RewardStatus = "coming_soon"
	RewardRetired    RewardStatus = "retired"
)

// Reward is a redeemable catalog item. Completed redemptions snapshot the cost,
// so editing or retiring a reward never rewrites history.
type Reward struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	Description string         `gorm:"size:512" json:"description"`
	PointsCost  int            `gorm:"not null;default:0" json:"points_cost"`
	Category    RewardCategory `gorm:"size:32;not null;default:other" json:"category"`
	Status      RewardStatus   `gorm:"size:32;not null;default:active;index" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c RewardCategory) bool {
	switch c {
	case CategoryGiftCard, CategoryCourse, CategoryPremium, CategoryOther:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s RewardStatus) bool {
	switch s {
	case RewardActive, RewardComingSoon, RewardRetired:
		return true
	}
	return false
}

// BeforeCreate assigns an ID and timestamps when not provided.
func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	return nil
}
