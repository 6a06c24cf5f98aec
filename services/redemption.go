package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/models"
)

// RedemptionService exchanges points for catalog rewards. The balance check
// and the debit happen in one guarded update, so two simultaneous redemptions
// against a balance that only covers one can never both succeed.
type RedemptionService struct {
	db      *gorm.DB
	ledger  *LedgerService
	catalog *CatalogService
}

// NewRedemptionService creates the handler.
func NewRedemptionService(db *gorm.DB, ledger *LedgerService, catalog *CatalogService) *RedemptionService {
	return &RedemptionService{db: db, ledger: ledger, catalog: catalog}
}

// RedemptionResult reports a completed redemption.
type RedemptionResult struct {
	Redemption      *models.Redemption `json:"redemption"`
	RemainingPoints int                `json:"remaining_points"`
	Message         string             `json:"message"`
}

// Redeem debits the reward cost from the account and appends the audit record.
// Fails with not_found, reward_unavailable or insufficient_balance; on any
// failure the balance is untouched.
func (s *RedemptionService) Redeem(ctx context.Context, accountID, rewardID string) (*RedemptionResult, error) {
	reward, err := s.catalog.GetReward(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if reward.Status != models.RewardActive {
		return nil, NewFault(KindRewardUnavailable, fmt.Sprintf("%s is not available for redemption", reward.Name))
	}

	var result RedemptionResult
	err = s.ledger.withAccountTx(ctx, accountID, func(tx *gorm.DB) error {
		record := models.Redemption{
			ID:          models.NewID(),
			AccountID:   accountID,
			RewardID:    reward.ID,
			PointsSpent: reward.PointsCost,
		}

		account, err := s.ledger.applyDeltaTx(tx, accountID, -reward.PointsCost, models.ReasonRedemption, record.ID)
		if err != nil {
			return err
		}

		record.ResultingBalance = account.TotalPoints
		if err := tx.Create(&record).Error; err != nil {
			return internalFault(err)
		}

		result = RedemptionResult{
			Redemption:      &record,
			RemainingPoints: account.TotalPoints,
			Message:         fmt.Sprintf("%s redeemed successfully!", reward.Name),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// History returns the account's redemptions, newest first.
func (s *RedemptionService) History(ctx context.Context, accountID string) ([]models.Redemption, error) {
	var records []models.Redemption
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Redemption{}, nil
		}
		return nil, internalFault(err)
	}
	return records, nil
}
