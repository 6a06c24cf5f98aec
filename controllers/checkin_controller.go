package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowva/rewards-hub/middleware"
	"github.com/flowva/rewards-hub/services"
	"github.com/flowva/rewards-hub/utils"
)

// CheckinController exposes the daily check-in transaction.
type CheckinController struct {
	checkins *services.CheckinService
}

// NewCheckinController creates a new controller instance.
func NewCheckinController(checkins *services.CheckinService) *CheckinController {
	return &CheckinController{checkins: checkins}
}

// ClaimDaily performs the daily check-in for the authenticated account.
// The response mirrors the claim_daily_checkin contract: a same-day repeat is
// success:false payload, not an HTTP error.
func (c *CheckinController) ClaimDaily(ctx *gin.Context) {
	accountID := ctx.GetString(middleware.ContextAccountIDKey)

	result, err := c.checkins.CheckIn(ctx.Request.Context(), accountID, time.Now())
	if err != nil {
		if f, ok := services.AsFault(err); ok {
			switch f.Kind {
			case services.KindAlreadyCheckedIn:
				utils.Success(ctx, gin.H{
					"success": false,
					"message": f.Message,
				})
			case services.KindNotFound:
				utils.Error(ctx, http.StatusNotFound, 40402, f.Message)
			default:
				logFault(ctx, f)
				utils.Error(ctx, http.StatusInternalServerError, 50010, f.Message)
			}
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to record check-in")
		return
	}

	utils.Success(ctx, gin.H{
		"success":       true,
		"message":       result.Message,
		"points_earned": result.PointsEarned,
		"streak_count":  result.StreakCount,
	})
}

// Status returns the account's streak and whether today's check-in is done.
func (c *CheckinController) Status(ctx *gin.Context) {
	accountID := ctx.GetString(middleware.ContextAccountIDKey)

	streak, checkedInToday, last, err := c.checkins.Status(ctx.Request.Context(), accountID, time.Now())
	if err != nil {
		if services.IsKind(err, services.KindNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "account not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load check-in status")
		return
	}

	var lastDate *string
	if last != nil {
		s := services.DateUTC(*last).Format("2006-01-02")
		lastDate = &s
	}
	utils.Success(ctx, gin.H{
		"streak_count":       streak,
		"checked_in_today":   checkedInToday,
		"last_check_in_date": lastDate,
	})
}

// logFault records an internal fault with its underlying cause.
func logFault(ctx *gin.Context, f *services.Fault) {
	if utils.Sugar == nil {
		return
	}
	utils.Sugar.Errorw("request failed",
		"path", ctx.FullPath(),
		"kind", string(f.Kind),
		"cause", f.Unwrap(),
	)
}
