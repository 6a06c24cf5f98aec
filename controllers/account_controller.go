package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flowva/rewards-hub/middleware"
	"github.com/flowva/rewards-hub/services"
	"github.com/flowva/rewards-hub/utils"
)

// AccountController exposes balance, profile and ledger history reads.
type AccountController struct {
	ledger *services.LedgerService
}

// NewAccountController creates a new controller instance.
func NewAccountController(ledger *services.LedgerService) *AccountController {
	return &AccountController{ledger: ledger}
}

// Profile returns the authenticated account: balance, streak and referral stats.
func (a *AccountController) Profile(ctx *gin.Context) {
	accountID := ctx.GetString(middleware.ContextAccountIDKey)

	account, err := a.ledger.GetAccount(ctx.Request.Context(), accountID)
	if err != nil {
		if services.IsKind(err, services.KindNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40407, "account not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load account")
		return
	}
	utils.Success(ctx, account)
}

// Ledger returns the account's paginated mutation history, newest first.
func (a *AccountController) Ledger(ctx *gin.Context) {
	accountID := ctx.GetString(middleware.ContextAccountIDKey)

	page, pageSize := 1, 20
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	entries, total, err := a.ledger.History(ctx.Request.Context(), accountID, pageSize, (page-1)*pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load ledger history")
		return
	}

	utils.Success(ctx, utils.Paginated(entries, page, pageSize, total))
}
