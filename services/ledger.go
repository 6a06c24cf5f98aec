package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/utils"
)

// LedgerService owns account rows and their balance mutations. Every delta is
// applied through a balance-guarded UPDATE (the balance can never go negative)
// and appended to the ledger history inside the same transaction. Mutations on
// one account are serialized with a per-account mutex; different accounts run
// concurrently.
type LedgerService struct {
	db    *gorm.DB
	locks *accountLocks
}

// NewLedgerService creates the ledger over the given database handle.
func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db, locks: newAccountLocks()}
}

// GetAccount loads an account by id.
func (s *LedgerService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewFault(KindNotFound, "account not found")
		}
		return nil, internalFault(err)
	}
	return &account, nil
}

// ApplyDelta atomically adds delta to the account balance and records a ledger
// entry. A delta that would drive the balance negative fails with
// insufficient_balance and leaves the account untouched.
func (s *LedgerService) ApplyDelta(ctx context.Context, id string, delta int, reason, referenceID string) (*models.Account, error) {
	var account *models.Account
	err := s.withAccountTx(ctx, id, func(tx *gorm.DB) error {
		var err error
		account, err = s.applyDeltaTx(tx, id, delta, reason, referenceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// withAccountTx runs fn inside a transaction while holding the per-account
// mutex. A conflict fault gets one internal retry with fresh state before it
// surfaces to the caller.
func (s *LedgerService) withAccountTx(ctx context.Context, id string, fn func(tx *gorm.DB) error) error {
	s.locks.lock(id)
	defer s.locks.unlock(id)

	err := s.db.WithContext(ctx).Transaction(fn)
	if IsKind(err, KindConflict) {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("ledger conflict on account %s, retrying once", id)
		}
		err = s.db.WithContext(ctx).Transaction(fn)
	}
	return err
}

// applyDeltaTx performs the guarded balance update within an open transaction.
// Callers must hold the account lock via withAccountTx.
func (s *LedgerService) applyDeltaTx(tx *gorm.DB, id string, delta int, reason, referenceID string) (*models.Account, error) {
	res := tx.Model(&models.Account{}).
		Where("id = ? AND total_points + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"total_points": gorm.Expr("total_points + ?", delta),
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return nil, internalFault(res.Error)
	}

	if res.RowsAffected == 0 {
		var exists int64
		if err := tx.Model(&models.Account{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return nil, internalFault(err)
		}
		if exists == 0 {
			return nil, NewFault(KindNotFound, "account not found")
		}
		return nil, NewFault(KindInsufficientBalance, "insufficient points balance")
	}

	var account models.Account
	if err := tx.First(&account, "id = ?", id).Error; err != nil {
		return nil, internalFault(err)
	}

	entry := models.LedgerEntry{
		AccountID:        id,
		Delta:            delta,
		Reason:           reason,
		ReferenceID:      referenceID,
		ResultingBalance: account.TotalPoints,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, internalFault(err)
	}

	return &account, nil
}

// History returns the most recent ledger entries for an account, newest first.
func (s *LedgerService) History(ctx context.Context, id string, limit, offset int) ([]models.LedgerEntry, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.LedgerEntry{}).Where("account_id = ?", id).Count(&total).Error; err != nil {
		return nil, 0, internalFault(err)
	}

	var entries []models.LedgerEntry
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", id).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, 0, internalFault(err)
	}
	return entries, total, nil
}

// isDuplicateKey reports whether err is a unique-constraint violation. Covers
// the MySQL driver, the sqlite test driver and gorm's translated error.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
