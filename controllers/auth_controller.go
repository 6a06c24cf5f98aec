package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/middleware"
	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/services"
	"github.com/flowva/rewards-hub/utils"
)

const tokenDuration = 72 * time.Hour

// AuthController handles signup and session endpoints. Referral crediting for
// referred signups is delegated to the referral service.
type AuthController struct {
	db        *gorm.DB
	referrals *services.ReferralService
}

// NewAuthController creates a new controller instance.
func NewAuthController(db *gorm.DB, referrals *services.ReferralService) *AuthController {
	return &AuthController{db: db, referrals: referrals}
}

type registerRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	DisplayName  string `json:"display_name"`
	ReferralCode string `json:"referral_code"`
}

// Register creates an account. A valid referral code on the request credits
// the referrer exactly once, even when the signup request is retried.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid email address")
		return
	}
	if !validPassword(req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "password must be 8-72 characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to process password")
		return
	}

	account := models.Account{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
	}
	if err := a.db.Create(&account).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create account")
		return
	}

	// A bad referral code never blocks signup; the credit is simply skipped.
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		if referrer, err := a.referrals.ResolveCode(ctx.Request.Context(), code); err == nil {
			if _, err := a.referrals.CreditReferral(ctx.Request.Context(), referrer.ID, account.ID); err != nil {
				if utils.Sugar != nil {
					utils.Sugar.Warnf("referral credit failed for code %s: %v", code, err)
				}
			}
		} else if utils.Sugar != nil {
			utils.Sugar.Debugf("unknown referral code on signup: %s", code)
		}
	}

	token, err := utils.GenerateToken(account.ID, account.Email, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":   token,
		"account": account,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "email and password are required")
		return
	}

	var account models.Account
	err := a.db.First(&account, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil || !utils.CheckPassword(account.PasswordHash, req.Password) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to load account")
			return
		}
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}

	token, err := utils.GenerateToken(account.ID, account.Email, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":   token,
		"account": account,
	})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 {
		token := strings.TrimSpace(parts[1])
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated account.
func (a *AuthController) Me(ctx *gin.Context) {
	accountID := ctx.GetString(middleware.ContextAccountIDKey)

	var account models.Account
	if err := a.db.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "account not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to load account")
		return
	}
	utils.Success(ctx, account)
}

func validEmail(s string) bool {
	if len(s) < 3 || len(s) > 255 {
		return false
	}
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.Contains(s, " ")
}

func validPassword(s string) bool {
	return len(s) >= 8 && len(s) <= 72
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
