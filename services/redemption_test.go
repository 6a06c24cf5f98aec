package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/services"
)

func newRedemptionFixture(t *testing.T) (*gorm.DB, *services.RedemptionService, *services.LedgerService) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	catalog := services.NewCatalogService(db)
	return db, services.NewRedemptionService(db, ledger, catalog), ledger
}

func TestRedeemExactBalance(t *testing.T) {
	db, redemptions, ledger := newRedemptionFixture(t)
	ctx := context.Background()
	account := seedAccount(t, db, 5000)
	reward := seedReward(t, db, "$5 PayPal International", 5000, models.RewardActive)

	result, err := redemptions.Redeem(ctx, account.ID, reward.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RemainingPoints)
	assert.Contains(t, result.Message, "$5 PayPal International")

	fresh, err := ledger.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.TotalPoints)

	// The audit record snapshots cost and the balance after the debit.
	var record models.Redemption
	require.NoError(t, db.First(&record, "account_id = ?", account.ID).Error)
	assert.Equal(t, reward.ID, record.RewardID)
	assert.Equal(t, 5000, record.PointsSpent)
	assert.Equal(t, 0, record.ResultingBalance)

	entries, _, err := ledger.History(ctx, account.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, -5000, entries[0].Delta)
	assert.Equal(t, models.ReasonRedemption, entries[0].Reason)
	assert.Equal(t, record.ID, entries[0].ReferenceID)
}

func TestRedeemInsufficientBalance(t *testing.T) {
	db, redemptions, ledger := newRedemptionFixture(t)
	ctx := context.Background()
	account := seedAccount(t, db, 10)
	reward := seedReward(t, db, "$5 Amazon Gift Card", 5000, models.RewardActive)

	_, err := redemptions.Redeem(ctx, account.ID, reward.ID)
	require.Error(t, err)
	assert.True(t, services.IsKind(err, services.KindInsufficientBalance))

	fresh, err := ledger.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.TotalPoints, "failed redemption must not touch the balance")

	var count int64
	require.NoError(t, db.Model(&models.Redemption{}).Where("account_id = ?", account.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRedeemUnavailableReward(t *testing.T) {
	db, redemptions, _ := newRedemptionFixture(t)
	ctx := context.Background()
	account := seedAccount(t, db, 100000)

	comingSoon := seedReward(t, db, "Flowva Pro Yearly", 50000, models.RewardComingSoon)
	retired := seedReward(t, db, "Legacy Bundle", 1000, models.RewardRetired)

	_, err := redemptions.Redeem(ctx, account.ID, comingSoon.ID)
	assert.True(t, services.IsKind(err, services.KindRewardUnavailable))

	_, err = redemptions.Redeem(ctx, account.ID, retired.ID)
	assert.True(t, services.IsKind(err, services.KindRewardUnavailable))
}

func TestRedeemNotFound(t *testing.T) {
	db, redemptions, _ := newRedemptionFixture(t)
	ctx := context.Background()
	account := seedAccount(t, db, 5000)
	reward := seedReward(t, db, "$5 Apple Gift Card", 5000, models.RewardActive)

	_, err := redemptions.Redeem(ctx, account.ID, "missing-reward")
	assert.True(t, services.IsKind(err, services.KindNotFound))

	_, err = redemptions.Redeem(ctx, "missing-account", reward.ID)
	assert.True(t, services.IsKind(err, services.KindNotFound))
}

func TestConcurrentRedemptionsSpendOnce(t *testing.T) {
	db, redemptions, ledger := newRedemptionFixture(t)
	ctx := context.Background()
	account := seedAccount(t, db, 5000)
	reward := seedReward(t, db, "$5 Google Play Card", 5000, models.RewardActive)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = redemptions.Redeem(ctx, account.ID, reward.ID)
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case services.IsKind(err, services.KindInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the concurrent redemptions may win")
	assert.Equal(t, 1, insufficient)

	fresh, err := ledger.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.TotalPoints)
}

func TestRedemptionHistory(t *testing.T) {
	db, redemptions, _ := newRedemptionFixture(t)
	ctx := context.Background()
	account := seedAccount(t, db, 15000)
	cheap := seedReward(t, db, "$5 Virtual Visa Card", 5000, models.RewardActive)
	pricey := seedReward(t, db, "$10 Amazon Gift Card", 10000, models.RewardActive)

	_, err := redemptions.Redeem(ctx, account.ID, cheap.ID)
	require.NoError(t, err)
	_, err = redemptions.Redeem(ctx, account.ID, pricey.ID)
	require.NoError(t, err)

	records, err := redemptions.History(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
