package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/models"
)

// ReferralService credits the referrer when a referred signup completes.
// Credits are idempotent per (referrer, referred) pair: the unique index on
// referral_credits absorbs retried triggers without paying twice.
type ReferralService struct {
	db          *gorm.DB
	ledger      *LedgerService
	bonusPoints int
}

// NewReferralService creates the handler with the configured bonus per signup.
func NewReferralService(db *gorm.DB, ledger *LedgerService, bonusPoints int) *ReferralService {
	return &ReferralService{db: db, ledger: ledger, bonusPoints: bonusPoints}
}

// ResolveCode finds the account owning a referral code.
func (s *ReferralService) ResolveCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "referral_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewFault(KindNotFound, "referral code not found")
		}
		return nil, internalFault(err)
	}
	return &account, nil
}

// CreditReferral pays the referral bonus to referrerID for the signup of
// referredID. Replaying the same pair returns the referrer unchanged.
func (s *ReferralService) CreditReferral(ctx context.Context, referrerID, referredID string) (*models.Account, error) {
	if referrerID == referredID {
		return nil, NewFault(KindInvalidArgument, "accounts cannot refer themselves")
	}

	var account *models.Account
	err := s.ledger.withAccountTx(ctx, referrerID, func(tx *gorm.DB) error {
		var existing models.ReferralCredit
		err := tx.Where("referrer_id = ? AND referred_id = ?", referrerID, referredID).First(&existing).Error
		if err == nil {
			// Already credited; replay is a no-op.
			var a models.Account
			if err := tx.First(&a, "id = ?", referrerID).Error; err != nil {
				return internalFault(err)
			}
			account = &a
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return internalFault(err)
		}

		credit := models.ReferralCredit{
			ReferrerID:    referrerID,
			ReferredID:    referredID,
			PointsAwarded: s.bonusPoints,
		}
		if err := tx.Create(&credit).Error; err != nil {
			if isDuplicateKey(err) {
				return NewFault(KindConflict, "referral already credited")
			}
			return internalFault(err)
		}

		a, err := s.ledger.applyDeltaTx(tx, referrerID, s.bonusPoints, models.ReasonReferralBonus, referredID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", referrerID).
			Updates(map[string]interface{}{
				"total_referrals":        gorm.Expr("total_referrals + 1"),
				"referral_points_earned": gorm.Expr("referral_points_earned + ?", s.bonusPoints),
			}).Error; err != nil {
			return internalFault(err)
		}

		a.TotalReferrals++
		a.ReferralPointsEarned += s.bonusPoints
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}
