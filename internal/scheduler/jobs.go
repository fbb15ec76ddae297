package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/xyrille1/SuiCare/internal/logger"
)

// Refresher 活动快照刷新
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Indexer 链上事件索引
type Indexer interface {
	IndexEvents(ctx context.Context) (int, error)
}

// CampaignRefreshJob 定时刷新活动快照
type CampaignRefreshJob struct {
	refresher Refresher
	interval  time.Duration
}

// NewCampaignRefreshJob 创建活动刷新任务
func NewCampaignRefreshJob(r Refresher, interval time.Duration) *CampaignRefreshJob {
	return &CampaignRefreshJob{refresher: r, interval: interval}
}

// GetName 获取任务名称
func (j *CampaignRefreshJob) GetName() string {
	return "campaign_refresher"
}

// GetSchedule 获取调度配置
func (j *CampaignRefreshJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务，超时为一个调度周期
func (j *CampaignRefreshJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	// 错误已在刷新内部记录
	_ = j.refresher.Refresh(ctx)
}

// ActivityIndexJob 定时索引链上事件
type ActivityIndexJob struct {
	indexer  Indexer
	interval time.Duration
}

// NewActivityIndexJob 创建事件索引任务
func NewActivityIndexJob(i Indexer, interval time.Duration) *ActivityIndexJob {
	return &ActivityIndexJob{indexer: i, interval: interval}
}

// GetName 获取任务名称
func (j *ActivityIndexJob) GetName() string {
	return "activity_indexer"
}

// GetSchedule 获取调度配置
func (j *ActivityIndexJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *ActivityIndexJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	n, err := j.indexer.IndexEvents(ctx)
	if err != nil {
		logger.Error("Activity indexing failed after %d events: %v", n, err)
		return
	}
	if n > 0 {
		logger.Info("Indexed %d activity events", n)
	}
}
