package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/services"
)

func TestApplyDeltaCreditAndDebit(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	ctx := context.Background()
	account := seedAccount(t, db, 0)

	updated, err := ledger.ApplyDelta(ctx, account.ID, 150, models.ReasonDailyCheckin, "")
	require.NoError(t, err)
	assert.Equal(t, 150, updated.TotalPoints)

	updated, err = ledger.ApplyDelta(ctx, account.ID, -50, models.ReasonRedemption, "")
	require.NoError(t, err)
	assert.Equal(t, 100, updated.TotalPoints)

	entries, total, err := ledger.History(ctx, account.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	// Newest first, each carrying the balance after its delta.
	assert.Equal(t, -50, entries[0].Delta)
	assert.Equal(t, 100, entries[0].ResultingBalance)
	assert.Equal(t, 150, entries[1].Delta)
	assert.Equal(t, 150, entries[1].ResultingBalance)
}

func TestApplyDeltaRejectsNegativeBalance(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	ctx := context.Background()
	account := seedAccount(t, db, 30)

	_, err := ledger.ApplyDelta(ctx, account.ID, -31, models.ReasonRedemption, "")
	require.Error(t, err)
	assert.True(t, services.IsKind(err, services.KindInsufficientBalance))

	fresh, err := ledger.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, fresh.TotalPoints)

	_, total, err := ledger.History(ctx, account.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total, "a rejected delta must not leave a ledger entry")
}

func TestApplyDeltaUnknownAccount(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)

	_, err := ledger.ApplyDelta(context.Background(), "missing", 10, models.ReasonDailyCheckin, "")
	assert.True(t, services.IsKind(err, services.KindNotFound))

	_, err = ledger.GetAccount(context.Background(), "missing")
	assert.True(t, services.IsKind(err, services.KindNotFound))
}

func TestBalanceNeverNegativeUnderMixedDeltas(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	ctx := context.Background()
	account := seedAccount(t, db, 0)

	deltas := []int{5, -3, 10, -20, 7, -2, -50, 100, -90, -40}
	for _, d := range deltas {
		_, err := ledger.ApplyDelta(ctx, account.ID, d, models.ReasonDailyCheckin, "")
		if err != nil {
			assert.True(t, services.IsKind(err, services.KindInsufficientBalance))
		}
		fresh, gerr := ledger.GetAccount(ctx, account.ID)
		require.NoError(t, gerr)
		assert.GreaterOrEqual(t, fresh.TotalPoints, 0)
	}
}

func TestHistoryPagination(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	ctx := context.Background()
	account := seedAccount(t, db, 0)

	for i := 0; i < 5; i++ {
		_, err := ledger.ApplyDelta(ctx, account.ID, 1, models.ReasonDailyCheckin, "")
		require.NoError(t, err)
	}

	page1, total, err := ledger.History(ctx, account.ID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)

	page2, _, err := ledger.History(ctx, account.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Greater(t, page1[0].ID, page2[0].ID)
}
