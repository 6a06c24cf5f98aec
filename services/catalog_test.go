package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/services"
)

func TestListRewardsOrderedByCost(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)
	ctx := context.Background()

	seedReward(t, db, "Tech Gadget Lucky Box", 100000, models.RewardComingSoon)
	seedReward(t, db, "$5 PayPal International", 5000, models.RewardActive)
	seedReward(t, db, "$10 Amazon Gift Card", 10000, models.RewardActive)

	rewards, err := catalog.ListRewards(ctx, services.CatalogFilter{Status: models.RewardActive})
	require.NoError(t, err)
	require.Len(t, rewards, 2)
	assert.Equal(t, "$5 PayPal International", rewards[0].Name)
	assert.Equal(t, "$10 Amazon Gift Card", rewards[1].Name)
}

func TestListRewardsFilters(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)
	ctx := context.Background()

	course := models.Reward{Name: "Mastering AI Course", PointsCost: 25000, Category: models.CategoryCourse, Status: models.RewardActive}
	require.NoError(t, catalog.CreateReward(ctx, &course))
	seedReward(t, db, "$5 Apple Gift Card", 5000, models.RewardActive)
	seedReward(t, db, "Flowva Pro Yearly", 50000, models.RewardComingSoon)

	byCategory, err := catalog.ListRewards(ctx, services.CatalogFilter{Category: models.CategoryCourse})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Mastering AI Course", byCategory[0].Name)

	byStatus, err := catalog.ListRewards(ctx, services.CatalogFilter{Status: models.RewardComingSoon})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Flowva Pro Yearly", byStatus[0].Name)
}

func TestGetRewardNotFound(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)

	_, err := catalog.GetReward(context.Background(), "missing")
	assert.True(t, services.IsKind(err, services.KindNotFound))
}

func TestCreateRewardValidation(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)
	ctx := context.Background()

	err := catalog.CreateReward(ctx, &models.Reward{Name: "", PointsCost: 100})
	assert.True(t, services.IsKind(err, services.KindInvalidArgument))

	err = catalog.CreateReward(ctx, &models.Reward{Name: "Broken", PointsCost: -1})
	assert.True(t, services.IsKind(err, services.KindInvalidArgument))

	err = catalog.CreateReward(ctx, &models.Reward{Name: "Broken", PointsCost: 100, Category: "vehicle"})
	assert.True(t, services.IsKind(err, services.KindInvalidArgument))

	// Defaults fill in category and status.
	reward := models.Reward{Name: "$5 Google Play Gift Card", PointsCost: 5000}
	require.NoError(t, catalog.CreateReward(ctx, &reward))
	assert.Equal(t, models.CategoryOther, reward.Category)
	assert.Equal(t, models.RewardActive, reward.Status)
	assert.NotEmpty(t, reward.ID)
}

func TestUpdateRewardPartialPatch(t *testing.T) {
	db := newTestDB(t)
	catalog := services.NewCatalogService(db)
	ctx := context.Background()

	reward := seedReward(t, db, "$5 Virtual Visa Card", 5000, models.RewardActive)

	newCost := 6000
	newStatus := models.RewardRetired
	updated, err := catalog.UpdateReward(ctx, reward.ID, services.RewardPatch{
		PointsCost: &newCost,
		Status:     &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, 6000, updated.PointsCost)
	assert.Equal(t, models.RewardRetired, updated.Status)
	assert.Equal(t, "$5 Virtual Visa Card", updated.Name)

	_, err = catalog.UpdateReward(ctx, "missing", services.RewardPatch{PointsCost: &newCost})
	assert.True(t, services.IsKind(err, services.KindNotFound))
}

func TestUpdateRewardLeavesRedemptionsAlone(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	catalog := services.NewCatalogService(db)
	redemptions := services.NewRedemptionService(db, ledger, catalog)
	ctx := context.Background()

	account := seedAccount(t, db, 5000)
	reward := seedReward(t, db, "$5 Apple Gift Card", 5000, models.RewardActive)

	result, err := redemptions.Redeem(ctx, account.ID, reward.ID)
	require.NoError(t, err)
	require.Equal(t, 5000, result.Redemption.PointsSpent)

	newCost := 9000
	_, err = catalog.UpdateReward(ctx, reward.ID, services.RewardPatch{PointsCost: &newCost})
	require.NoError(t, err)

	var stored models.Redemption
	require.NoError(t, db.First(&stored, "id = ?", result.Redemption.ID).Error)
	assert.Equal(t, 5000, stored.PointsSpent)
	assert.Equal(t, 0, stored.ResultingBalance)
}
