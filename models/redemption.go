package models

import (
	"time"

	"gorm.io/gorm"
)

// Redemption is the immutable audit record of a completed reward purchase.
// PointsSpent snapshots the reward cost at redemption time.
type Redemption struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	AccountID        string    `gorm:"size:36;index;not null" json:"account_id"`
	RewardID         string    `gorm:"size:36;index;not null" json:"reward_id"`
	PointsSpent      int       `gorm:"not null" json:"points_spent"`
	ResultingBalance int       `gorm:"not null" json:"resulting_balance"`
	CreatedAt        time.Time `json:"created_at"`
}

// BeforeCreate assigns an ID when not provided.
func (r *Redemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}
