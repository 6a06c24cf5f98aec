package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flowva/rewards-hub/middleware"
	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/services"
	"github.com/flowva/rewards-hub/utils"
)

// RewardsController exposes the reward catalog and the redemption transaction.
type RewardsController struct {
	catalog     *services.CatalogService
	redemptions *services.RedemptionService
}

// NewRewardsController creates a new controller instance.
func NewRewardsController(catalog *services.CatalogService, redemptions *services.RedemptionService) *RewardsController {
	return &RewardsController{catalog: catalog, redemptions: redemptions}
}

// List returns catalog rewards ordered by cost, optionally filtered by
// ?status= and ?category=.
func (r *RewardsController) List(ctx *gin.Context) {
	filter := services.CatalogFilter{}
	if v := strings.TrimSpace(ctx.Query("status")); v != "" {
		s := models.RewardStatus(v)
		if !models.ValidStatus(s) {
			utils.Error(ctx, http.StatusBadRequest, 40010, "unknown status filter")
			return
		}
		filter.Status = s
	}
	if v := strings.TrimSpace(ctx.Query("category")); v != "" {
		c := models.RewardCategory(v)
		if !models.ValidCategory(c) {
			utils.Error(ctx, http.StatusBadRequest, 40011, "unknown category filter")
			return
		}
		filter.Category = c
	}

	rewards, err := r.catalog.ListRewards(ctx.Request.Context(), filter)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list rewards")
		return
	}
	utils.Success(ctx, gin.H{"items": rewards})
}

// Get returns a single reward by id.
func (r *RewardsController) Get(ctx *gin.Context) {
	reward, err := r.catalog.GetReward(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if services.IsKind(err, services.KindNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "reward not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load reward")
		return
	}
	utils.Success(ctx, reward)
}

// Redeem exchanges the authenticated account's points for the reward.
// Business failures (insufficient balance, unavailable reward) come back as
// success:false payloads matching the redeem_reward contract.
func (r *RewardsController) Redeem(ctx *gin.Context) {
	accountID := ctx.GetString(middleware.ContextAccountIDKey)
	rewardID := ctx.Param("id")

	result, err := r.redemptions.Redeem(ctx.Request.Context(), accountID, rewardID)
	if err != nil {
		if f, ok := services.AsFault(err); ok {
			switch f.Kind {
			case services.KindInsufficientBalance, services.KindRewardUnavailable:
				utils.Success(ctx, gin.H{
					"success": false,
					"message": f.Message,
				})
			case services.KindNotFound:
				utils.Error(ctx, http.StatusNotFound, 40405, f.Message)
			default:
				logFault(ctx, f)
				utils.Error(ctx, http.StatusInternalServerError, 50022, f.Message)
			}
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to redeem reward")
		return
	}

	utils.Success(ctx, gin.H{
		"success":          true,
		"message":          result.Message,
		"remaining_points": result.RemainingPoints,
		"redemption_id":    result.Redemption.ID,
	})
}

// History lists the authenticated account's past redemptions.
func (r *RewardsController) History(ctx *gin.Context) {
	accountID := ctx.GetString(middleware.ContextAccountIDKey)

	records, err := r.redemptions.History(ctx.Request.Context(), accountID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load redemptions")
		return
	}
	utils.Success(ctx, gin.H{"items": records})
}

// Create adds a catalog reward. Admin only.
func (r *RewardsController) Create(ctx *gin.Context) {
	var reward models.Reward
	if err := ctx.ShouldBindJSON(&reward); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid reward payload")
		return
	}

	if err := r.catalog.CreateReward(ctx.Request.Context(), &reward); err != nil {
		if services.IsKind(err, services.KindInvalidArgument) {
			utils.Error(ctx, http.StatusBadRequest, 40013, err.Error())
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to create reward")
		return
	}
	utils.Success(ctx, reward)
}

// Update applies a partial edit to a reward. Admin only. Historical
// redemptions are untouched by price or status changes.
func (r *RewardsController) Update(ctx *gin.Context) {
	var patch services.RewardPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid patch payload")
		return
	}

	reward, err := r.catalog.UpdateReward(ctx.Request.Context(), ctx.Param("id"), patch)
	if err != nil {
		if services.IsKind(err, services.KindNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40406, "reward not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update reward")
		return
	}
	utils.Success(ctx, reward)
}
