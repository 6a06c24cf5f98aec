package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/models"
)

// CheckinService applies the once-per-day check-in rule against the ledger.
//
// Day boundaries are UTC calendar dates. The client compares date strings, so
// the service pins one timezone for everyone rather than trusting client clocks.
type CheckinService struct {
	db          *gorm.DB
	ledger      *LedgerService
	basePoints  int
	streakBonus int
}

// NewCheckinService creates the handler. basePoints is the flat daily award;
// streakBonus adds bonus points per consecutive day beyond the first (0 keeps
// the flat award).
func NewCheckinService(db *gorm.DB, ledger *LedgerService, basePoints, streakBonus int) *CheckinService {
	return &CheckinService{db: db, ledger: ledger, basePoints: basePoints, streakBonus: streakBonus}
}

// CheckinResult reports a completed daily check-in.
type CheckinResult struct {
	PointsEarned int    `json:"points_earned"`
	StreakCount  int    `json:"streak_count"`
	Message      string `json:"message"`
}

// DateUTC truncates t to its UTC calendar date.
func DateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn records a daily check-in for the account at time now. Calling it a
// second time on the same date returns already_checked_in with no mutation, so
// client retries never award twice.
func (s *CheckinService) CheckIn(ctx context.Context, accountID string, now time.Time) (*CheckinResult, error) {
	today := DateUTC(now)
	yesterday := today.AddDate(0, 0, -1)

	var result CheckinResult
	err := s.ledger.withAccountTx(ctx, accountID, func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewFault(KindNotFound, "account not found")
			}
			return internalFault(err)
		}

		if account.LastCheckInDate != nil && DateUTC(*account.LastCheckInDate).Equal(today) {
			return NewFault(KindAlreadyCheckedIn, "Already checked in today")
		}

		streak := 1
		if account.LastCheckInDate != nil && DateUTC(*account.LastCheckInDate).Equal(yesterday) {
			streak = account.StreakCount + 1
		}

		points := s.basePoints
		if s.streakBonus > 0 && streak > 1 {
			points += s.streakBonus * (streak - 1)
		}

		record := models.CheckIn{
			AccountID:      accountID,
			CheckinDate:    today,
			PointsAwarded:  points,
			StreakAchieved: streak,
		}
		if err := tx.Create(&record).Error; err != nil {
			// The unique (account, date) index closes the race between two
			// concurrent check-ins for the same day.
			if isDuplicateKey(err) {
				return NewFault(KindAlreadyCheckedIn, "Already checked in today")
			}
			return internalFault(err)
		}

		if _, err := s.ledger.applyDeltaTx(tx, accountID, points, models.ReasonDailyCheckin, ""); err != nil {
			return err
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", accountID).
			Updates(map[string]interface{}{
				"streak_count":       streak,
				"last_check_in_date": today,
			}).Error; err != nil {
			return internalFault(err)
		}

		result = CheckinResult{
			PointsEarned: points,
			StreakCount:  streak,
			Message:      "Check-in successful!",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Status returns the account's current streak state without mutating anything.
func (s *CheckinService) Status(ctx context.Context, accountID string, now time.Time) (streak int, checkedInToday bool, last *time.Time, err error) {
	account, err := s.ledger.GetAccount(ctx, accountID)
	if err != nil {
		return 0, false, nil, err
	}
	today := DateUTC(now)
	if account.LastCheckInDate != nil && DateUTC(*account.LastCheckInDate).Equal(today) {
		checkedInToday = true
	}
	return account.StreakCount, checkedInToday, account.LastCheckInDate, nil
}
