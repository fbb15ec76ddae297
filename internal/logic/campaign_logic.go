package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/logger"
	"github.com/xyrille1/SuiCare/internal/metrics"
	"github.com/xyrille1/SuiCare/internal/model"
)

// CampaignReader 读取活动所需的链上能力
type CampaignReader interface {
	GetObject(ctx context.Context, id string) (*ledger.ObjectResponse, error)
	GetDynamicFields(ctx context.Context, parentID string, cursor *string) (*ledger.DynamicFieldPage, error)
	MultiGetObjects(ctx context.Context, ids []string) ([]ledger.ObjectResponse, error)
}

type campaignSnapshot struct {
	campaigns []model.Campaign
	index     map[string]int
	fetchedAt time.Time
}

// CampaignLogic 活动快照存储，每次刷新整体替换
type CampaignLogic struct {
	reader     CampaignReader
	registryID string
	network    string

	snapshot atomic.Pointer[campaignSnapshot]

	mu      sync.RWMutex
	lastErr error
}

// NewCampaignLogic 创建活动存储
func NewCampaignLogic(reader CampaignReader, registryID, network string) *CampaignLogic {
	return &CampaignLogic{
		reader:     reader,
		registryID: registryID,
		network:    network,
	}
}

// FetchCampaigns 从链上读取全部活动
// 单个对象异常只记录日志并跳过，不影响其他活动
func (c *CampaignLogic) FetchCampaigns(ctx context.Context) ([]model.Campaign, error) {
	registry, err := c.reader.GetObject(ctx, c.registryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign registry: %w", err)
	}
	if registry.Error.NotExists() {
		return nil, &RegistryNotFoundError{Network: c.network, ObjectID: c.registryID}
	}

	ids, err := c.childIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Campaign{}, nil
	}

	objects, err := c.reader.MultiGetObjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign objects: %w", err)
	}

	seen := make(map[string]bool, len(objects))
	campaigns := make([]model.Campaign, 0, len(objects))
	for _, obj := range objects {
		campaign, err := NormalizeCampaign(obj)
		if err != nil {
			metrics.MalformedObjects.Inc()
			logger.Warn("Skipping campaign object: %v", err)
			continue
		}
		key := ledger.NormalizeAddress(campaign.ID)
		if seen[key] {
			continue
		}
		seen[key] = true
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, nil
}

// childIDs 遍历注册表的全部动态字段
func (c *CampaignLogic) childIDs(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor *string
	)
	for {
		page, err := c.reader.GetDynamicFields(ctx, c.registryID, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list registry children: %w", err)
		}
		for _, f := range page.Data {
			ids = append(ids, f.ObjectID)
		}
		if !page.HasNextPage || page.NextCursor == nil {
			return ids, nil
		}
		cursor = page.NextCursor
	}
}

// Refresh 重新拉取并原子替换快照，失败时保留旧快照
func (c *CampaignLogic) Refresh(ctx context.Context) error {
	start := time.Now()
	campaigns, err := c.FetchCampaigns(ctx)
	metrics.CampaignRefreshDuration.Observe(time.Since(start).Seconds())

	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	if err != nil {
		metrics.CampaignRefreshes.WithLabelValues("error").Inc()
		if errors.Is(err, ErrRegistryNotFound) {
			logger.Error("%v", err)
		} else {
			logger.Error("Failed to refresh campaigns: %v", err)
		}
		return err
	}

	c.store(campaigns)
	metrics.CampaignRefreshes.WithLabelValues("ok").Inc()
	metrics.CampaignsCached.Set(float64(len(campaigns)))
	logger.Debug("Campaign snapshot refreshed: %d campaigns", len(campaigns))
	return nil
}

func (c *CampaignLogic) store(campaigns []model.Campaign) {
	index := make(map[string]int, len(campaigns))
	for i, campaign := range campaigns {
		index[ledger.NormalizeAddress(campaign.ID)] = i
	}
	c.snapshot.Store(&campaignSnapshot{
		campaigns: campaigns,
		index:     index,
		fetchedAt: time.Now(),
	})
}

// Campaigns 当前快照中的全部活动
func (c *CampaignLogic) Campaigns() []model.Campaign {
	snap := c.snapshot.Load()
	if snap == nil {
		return []model.Campaign{}
	}
	out := make([]model.Campaign, len(snap.campaigns))
	copy(out, snap.campaigns)
	return out
}

// GetCampaign 按ID查询缓存的活动
func (c *CampaignLogic) GetCampaign(id string) (model.Campaign, bool) {
	snap := c.snapshot.Load()
	if snap == nil {
		return model.Campaign{}, false
	}
	i, ok := snap.index[ledger.NormalizeAddress(id)]
	if !ok {
		return model.Campaign{}, false
	}
	return snap.campaigns[i], true
}

// Loaded 是否已成功加载过快照
func (c *CampaignLogic) Loaded() bool {
	return c.snapshot.Load() != nil
}

// FetchedAt 最近一次成功刷新的时间
func (c *CampaignLogic) FetchedAt() time.Time {
	if snap := c.snapshot.Load(); snap != nil {
		return snap.fetchedAt
	}
	return time.Time{}
}

// LastError 最近一次刷新的错误
func (c *CampaignLogic) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
