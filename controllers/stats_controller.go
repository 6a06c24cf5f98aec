package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/services"
	"github.com/flowva/rewards-hub/utils"
)

// StatsController provides aggregate program statistics such as account counts
// and daily check-in activity.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the rewards program.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var accountCount int64
	var redemptionCount int64
	var checkinsToday int64
	var pointsOutstanding int64

	if err := s.db.Model(&models.Account{}).Count(&accountCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		accountCount = 0
	}

	if err := s.db.Model(&models.Redemption{}).Count(&redemptionCount).Error; err != nil {
		redemptionCount = 0
	}

	today := services.DateUTC(time.Now())
	if err := s.db.Model(&models.CheckIn{}).
		Where("checkin_date = ?", today).
		Count(&checkinsToday).Error; err != nil {
		checkinsToday = 0
	}

	if err := s.db.Model(&models.Account{}).
		Select("COALESCE(SUM(total_points),0)").
		Scan(&pointsOutstanding).Error; err != nil {
		pointsOutstanding = 0
	}

	utils.Success(ctx, gin.H{
		"account_count":      accountCount,
		"redemption_count":   redemptionCount,
		"checkins_today":     checkinsToday,
		"points_outstanding": pointsOutstanding,
	})
}
