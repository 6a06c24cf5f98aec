package models

import "time"

// CheckIn stores one daily check-in per account per calendar date.
// The composite unique index is the idempotency key: a retried check-in for the
// same day fails the insert instead of awarding twice.
type CheckIn struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AccountID      string    `gorm:"size:36;not null;uniqueIndex:idx_checkins_account_date" json:"account_id"`
	CheckinDate    time.Time `gorm:"not null;uniqueIndex:idx_checkins_account_date" json:"checkin_date"`
	PointsAwarded  int       `json:"points_awarded"`
	StreakAchieved int       `json:"streak_achieved"`
	CreatedAt      time.Time `json:"created_at"`
}
