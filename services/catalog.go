package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/flowva/rewards-hub/models"
	"github.com/flowva/rewards-hub/utils"
)

const (
	catalogCachePrefix = "cache:rewards"
	catalogCacheTTL    = 10 * time.Minute
)

// CatalogService is the read-mostly store of redeemable rewards. The
// unfiltered listing goes through a fail-open Redis cache; catalog edits
// invalidate it but never touch historical redemption records.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates the catalog over the given database handle.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CatalogFilter narrows a listing. Zero values mean no filtering.
type CatalogFilter struct {
	Status   models.RewardStatus
	Category models.RewardCategory
}

func (f CatalogFilter) empty() bool {
	return f.Status == "" && f.Category == ""
}

// ListRewards returns rewards ordered by points_cost ascending.
func (s *CatalogService) ListRewards(ctx context.Context, filter CatalogFilter) ([]models.Reward, error) {
	if filter.empty() {
		if b, ok := utils.CacheGetBytes(catalogCachePrefix + ":all"); ok {
			var cached []models.Reward
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	q := s.db.WithContext(ctx).Model(&models.Reward{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var rewards []models.Reward
	if err := q.Order("points_cost ASC, name ASC").Find(&rewards).Error; err != nil {
		return nil, internalFault(err)
	}

	if filter.empty() {
		utils.CacheSetJSON(catalogCachePrefix+":all", rewards, catalogCacheTTL)
	}
	return rewards, nil
}

// GetReward loads a single reward by id.
func (s *CatalogService) GetReward(ctx context.Context, id string) (*models.Reward, error) {
	var reward models.Reward
	if err := s.db.WithContext(ctx).First(&reward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewFault(KindNotFound, "reward not found")
		}
		return nil, internalFault(err)
	}
	return &reward, nil
}

// CreateReward adds a catalog entry. Administrative operation.
func (s *CatalogService) CreateReward(ctx context.Context, reward *models.Reward) error {
	if reward.Name == "" || reward.PointsCost < 0 {
		return NewFault(KindInvalidArgument, "invalid reward definition")
	}
	if reward.Category == "" {
		reward.Category = models.CategoryOther
	}
	if reward.Status == "" {
		reward.Status = models.RewardActive
	}
	if !models.ValidCategory(reward.Category) || !models.ValidStatus(reward.Status) {
		return NewFault(KindInvalidArgument, "invalid reward definition")
	}
	if err := s.db.WithContext(ctx).Create(reward).Error; err != nil {
		return internalFault(err)
	}
	utils.InvalidateByPrefix(catalogCachePrefix)
	return nil
}

// RewardPatch carries the fields an administrator may change.
type RewardPatch struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	PointsCost  *int                   `json:"points_cost"`
	Category    *models.RewardCategory `json:"category"`
	Status      *models.RewardStatus   `json:"status"`
}

// UpdateReward applies a partial edit. Historical redemptions keep their
// snapshotted points_spent regardless of price or status changes here.
func (s *CatalogService) UpdateReward(ctx context.Context, id string, patch RewardPatch) (*models.Reward, error) {
	reward, err := s.GetReward(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil && *patch.Name != "" {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.PointsCost != nil && *patch.PointsCost >= 0 {
		updates["points_cost"] = *patch.PointsCost
	}
	if patch.Category != nil && models.ValidCategory(*patch.Category) {
		updates["category"] = *patch.Category
	}
	if patch.Status != nil && models.ValidStatus(*patch.Status) {
		updates["status"] = *patch.Status
	}
	if len(updates) == 0 {
		return reward, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.db.WithContext(ctx).Model(&models.Reward{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, internalFault(err)
	}
	utils.InvalidateByPrefix(catalogCachePrefix)
	return s.GetReward(ctx, id)
}
