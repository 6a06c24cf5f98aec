package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/services"
)

func TestCreditReferral(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	referrals := services.NewReferralService(db, ledger, 1000)
	ctx := context.Background()

	referrer := seedAccount(t, db, 0)
	referred := seedAccount(t, db, 0)

	account, err := referrals.CreditReferral(ctx, referrer.ID, referred.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000, account.TotalPoints)
	assert.Equal(t, 1, account.TotalReferrals)
	assert.Equal(t, 1000, account.ReferralPointsEarned)

	entries, _, err := ledger.History(ctx, referrer.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ReasonReferralBonus, entries[0].Reason)
	assert.Equal(t, referred.ID, entries[0].ReferenceID)
}

func TestCreditReferralIdempotentPerPair(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	referrals := services.NewReferralService(db, ledger, 1000)
	ctx := context.Background()

	referrer := seedAccount(t, db, 0)
	referred := seedAccount(t, db, 0)

	_, err := referrals.CreditReferral(ctx, referrer.ID, referred.ID)
	require.NoError(t, err)

	// Retried trigger for the same signup pays nothing extra.
	account, err := referrals.CreditReferral(ctx, referrer.ID, referred.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000, account.TotalPoints)
	assert.Equal(t, 1, account.TotalReferrals)

	// A different referred signup is a fresh credit.
	other := seedAccount(t, db, 0)
	account, err = referrals.CreditReferral(ctx, referrer.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000, account.TotalPoints)
	assert.Equal(t, 2, account.TotalReferrals)
}

func TestCreditReferralSelfReferralRejected(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	referrals := services.NewReferralService(db, ledger, 1000)

	account := seedAccount(t, db, 0)
	_, err := referrals.CreditReferral(context.Background(), account.ID, account.ID)
	assert.True(t, services.IsKind(err, services.KindInvalidArgument))
}

func TestCreditReferralUnknownReferrer(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	referrals := services.NewReferralService(db, ledger, 1000)

	referred := seedAccount(t, db, 0)
	_, err := referrals.CreditReferral(context.Background(), "missing", referred.ID)
	assert.True(t, services.IsKind(err, services.KindNotFound))

	// The rolled-back attempt must not leave a credit row behind.
	var count int64
	require.NoError(t, db.Model(&models.ReferralCredit{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestResolveCode(t *testing.T) {
	db := newTestDB(t)
	ledger := services.NewLedgerService(db)
	referrals := services.NewReferralService(db, ledger, 1000)
	ctx := context.Background()

	account := seedAccount(t, db, 0)
	require.NotEmpty(t, account.ReferralCode)

	found, err := referrals.ResolveCode(ctx, account.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = referrals.ResolveCode(ctx, "FLW-NOPE")
	assert.True(t, services.IsKind(err, services.KindNotFound))
}
