package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/config"
	"github.com/flowva/rewards-hub/controllers"
	"github.com/flowva/rewards-hub/middleware"
	"github.com/flowva/rewards-hub/services"
	"github.com/flowva/rewards-hub/utils"
)

// SetupRouter wires routes, middlewares, services, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	ledger := services.NewLedgerService(db)
	catalog := services.NewCatalogService(db)
	checkins := services.NewCheckinService(db, ledger, cfg.CheckinBasePoints, cfg.CheckinStreakBonus)
	redemptions := services.NewRedemptionService(db, ledger, catalog)
	referrals := services.NewReferralService(db, ledger, cfg.ReferralBonusPoints)

	authController := controllers.NewAuthController(db, referrals)
	accountController := controllers.NewAccountController(ledger)
	checkinController := controllers.NewCheckinController(checkins)
	rewardsController := controllers.NewRewardsController(catalog, redemptions)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public catalog reads
	api.GET("/rewards", rewardsController.List)
	api.GET("/rewards/:id", rewardsController.Get)
	api.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/checkin/daily", checkinController.ClaimDaily)
	protected.GET("/checkin/status", checkinController.Status)
	protected.POST("/rewards/:id/redeem", rewardsController.Redeem)
	protected.GET("/redemptions", rewardsController.History)
	protected.GET("/accounts/me", accountController.Profile)
	protected.GET("/accounts/me/ledger", accountController.Ledger)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.POST("/rewards", rewardsController.Create)
	admin.PATCH("/rewards/:id", rewardsController.Update)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
