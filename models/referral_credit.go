package models

import "time"

// ReferralCredit records a referral bonus paid to a referrer for one referred
// signup. The unique pair index makes the credit idempotent: a retried trigger
// for the same signup hits the index instead of paying twice.
type ReferralCredit struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReferrerID    string    `gorm:"size:36;not null;uniqueIndex:idx_referral_pair" json:"referrer_id"`
	ReferredID    string    `gorm:"size:36;not null;uniqueIndex:idx_referral_pair" json:"referred_id"`
	PointsAwarded int       `gorm:"not null" json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}
