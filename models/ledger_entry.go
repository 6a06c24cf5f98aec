package models

import "time"

// Ledger entry reasons. Every balance mutation carries one.
const (
	ReasonDailyCheckin  = "daily_checkin"
	ReasonRedemption    = "reward_redemption"
	ReasonReferralBonus = "referral_bonus"
)

// LedgerEntry is an append-only record of a single balance mutation.
// ResultingBalance is the account balance immediately after the delta applied,
// so the history is auditable without replaying it.
type LedgerEntry struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AccountID        string    `gorm:"size:36;index;not null" json:"account_id"`
	Delta            int       `gorm:"not null" json:"delta"`
	Reason           string    `gorm:"size:64;not null" json:"reason"`
	ReferenceID      string    `gorm:"size:36" json:"reference_id,omitempty"`
	ResultingBalance int       `gorm:"not null" json:"resulting_balance"`
	CreatedAt        time.Time `json:"created_at"`
}
