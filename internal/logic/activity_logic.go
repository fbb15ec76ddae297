package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/logger"
	"github.com/xyrille1/SuiCare/internal/metrics"
	"github.com/xyrille1/SuiCare/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	eventPageSize   = 50
	maxPagesPerRun  = 20
	defaultPageSize = 20
	maxListPageSize = 100
)

// EventSource 链上事件查询
type EventSource interface {
	QueryEvents(ctx context.Context, filter ledger.EventFilter, cursor *ledger.EventID, limit int) (*ledger.EventPage, error)
}

// ActivityQuery 活动流查询条件
type ActivityQuery struct {
	Filter     model.ActivityFilter
	CampaignID string
	Actor      string
	Page       int
	PageSize   int
}

// ActivityLogic 链上事件索引与活动流查询
type ActivityLogic struct {
	db        *gorm.DB
	source    EventSource
	packageID string
	module    string
}

// NewActivityLogic 创建活动索引
func NewActivityLogic(db *gorm.DB, source EventSource, packageID, module string) *ActivityLogic {
	return &ActivityLogic{
		db:        db,
		source:    source,
		packageID: packageID,
		module:    module,
	}
}

func (a *ActivityLogic) cursorKey() string {
	return a.packageID + "::" + a.module
}

// IndexEvents 从上次游标处继续拉取事件并入库，返回新入库的事件数
func (a *ActivityLogic) IndexEvents(ctx context.Context) (int, error) {
	cursor, err := a.loadCursor()
	if err != nil {
		return 0, err
	}

	filter := ledger.EventFilter{MoveModule: &ledger.MoveModuleFilter{Package: a.packageID, Module: a.module}}
	total := 0
	for i := 0; i < maxPagesPerRun; i++ {
		page, err := a.source.QueryEvents(ctx, filter, cursor, eventPageSize)
		if err != nil {
			return total, fmt.Errorf("failed to query events: %w", err)
		}
		if len(page.Data) == 0 {
			return total, nil
		}

		items := make([]model.ActivityEventModel, 0, len(page.Data))
		for _, ev := range page.Data {
			items = append(items, MapEvent(ev))
		}
		if err := a.persist(items); err != nil {
			return total, err
		}
		total += len(items)

		next := page.NextCursor
		if next == nil {
			last := page.Data[len(page.Data)-1].ID
			next = &last
		}
		if err := a.saveCursor(*next); err != nil {
			return total, err
		}
		cursor = next

		if !page.HasNextPage {
			break
		}
	}
	return total, nil
}

func (a *ActivityLogic) loadCursor() (*ledger.EventID, error) {
	var c model.ActivityCursorModel
	err := a.db.Where("module = ?", a.cursorKey()).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("获取事件游标失败: %w", err)
	}
	return &ledger.EventID{TxDigest: c.TxDigest, EventSeq: c.EventSeq}, nil
}

func (a *ActivityLogic) saveCursor(id ledger.EventID) error {
	c := model.ActivityCursorModel{Module: a.cursorKey(), TxDigest: id.TxDigest, EventSeq: id.EventSeq}
	err := a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "module"}},
		DoUpdates: clause.AssignmentColumns([]string{"tx_digest", "event_seq", "updated_at"}),
	}).Create(&c).Error
	if err != nil {
		return fmt.Errorf("保存事件游标失败: %w", err)
	}
	return nil
}

// persist 按活动分组并发写入，重复事件忽略
func (a *ActivityLogic) persist(items []model.ActivityEventModel) error {
	groups := make(map[string][]model.ActivityEventModel)
	for _, item := range items {
		groups[item.CampaignId] = append(groups[item.CampaignId], item)
	}
	if len(groups) == 0 {
		return nil
	}

	pool, err := ants.NewPool(len(groups))
	if err != nil {
		return fmt.Errorf("failed to create pool for %d groups: %w", len(groups), err)
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for campaignID, group := range groups {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			err := a.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "item_id"}},
				DoNothing: true,
			}).Create(&group).Error
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("campaign %q: %w", campaignID, err))
				mu.Unlock()
				return
			}
			for _, item := range group {
				metrics.ActivityEventsIndexed.WithLabelValues(string(item.Filter)).Inc()
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit task to pool: %v", err)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("保存活动事件失败: %w", errors.Join(errs...))
	}
	return nil
}

// ListActivity 分页查询活动流，按时间倒序
func (a *ActivityLogic) ListActivity(q ActivityQuery) ([]model.ActivityEventModel, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxListPageSize {
		q.PageSize = maxListPageSize
	}

	query := a.db.Model(&model.ActivityEventModel{})
	if q.Filter != "" && q.Filter != model.ActivityAll {
		query = query.Where("filter = ?", q.Filter)
	}
	if q.CampaignID != "" {
		query = query.Where("campaign_id = ?", ledger.NormalizeAddress(q.CampaignID))
	}
	if q.Actor != "" {
		query = query.Where("actor = ?", ledger.NormalizeAddress(q.Actor))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动总数失败: %w", err)
	}

	var items []model.ActivityEventModel
	offset := (q.Page - 1) * q.PageSize
	if err := query.Order("timestamp_ms DESC, id DESC").Offset(offset).Limit(q.PageSize).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动列表失败: %w", err)
	}
	return items, total, nil
}

// MapEvent 将链上事件转换为活动记录
func MapEvent(ev ledger.Event) model.ActivityEventModel {
	eventType := ev.Type
	if i := strings.LastIndex(eventType, "::"); i >= 0 {
		eventType = eventType[i+2:]
	}
	if eventType == "" {
		eventType = "UnknownEvent"
	}

	var parsed map[string]json.RawMessage
	if len(ev.ParsedJSON) > 0 {
		if err := json.Unmarshal(ev.ParsedJSON, &parsed); err != nil {
			logger.Debug("Failed to parse event %s-%s payload: %v", ev.ID.TxDigest, ev.ID.EventSeq, err)
		}
	}

	digest := ev.ID.TxDigest
	if digest == "" {
		digest = "unknown"
	}
	seq := ev.ID.EventSeq
	if seq == "" {
		seq = "0"
	}
	ts, _ := strconv.ParseInt(ev.TimestampMs, 10, 64)

	item := model.ActivityEventModel{
		ItemId:      digest + "-" + seq,
		Filter:      model.ActivityAll,
		EventType:   eventType,
		TypeLabel:   eventType,
		CampaignId:  addressField(parsed, "campaign_id"),
		TxDigest:    ev.ID.TxDigest,
		EventSeq:    ev.ID.EventSeq,
		TimestampMs: ts,
		Data:        string(ev.ParsedJSON),
	}

	switch eventType {
	case "Donated":
		item.Filter = model.ActivityDonations
		item.TypeLabel = "Donation"
		item.Actor = addressField(parsed, "donor")
		item.AmountMist = amountField(parsed, "amount")
	case "MilestoneStatusUpdated":
		item.Filter = model.ActivityMilestones
		switch status := amountField(parsed, "status"); status {
		case int64(model.MilestoneRequested):
			item.TypeLabel = "Milestone Requested"
		case int64(model.MilestoneReleased):
			item.TypeLabel = "Milestone Released"
		default:
			item.TypeLabel = "Milestone Updated"
		}
		item.AmountMist = amountField(parsed, "amount")
	case "CampaignCreated":
		item.Filter = model.ActivityAdmin
		item.TypeLabel = "Campaign Created"
		item.Actor = addressField(parsed, "creator")
	case "CampaignUpdated":
		item.Filter = model.ActivityAdmin
		item.TypeLabel = "Campaign Updated"
		item.Actor = addressField(parsed, "updater")
	case "CampaignDeleted":
		item.Filter = model.ActivityAdmin
		item.TypeLabel = "Campaign Deleted"
		item.Actor = addressField(parsed, "deleter")
	case "AdminTransferred":
		item.Filter = model.ActivityAdmin
		item.TypeLabel = "Admin Transferred"
		item.Actor = addressField(parsed, "new_admin")
	}
	return item
}

func addressField(parsed map[string]json.RawMessage, key string) string {
	var s string
	if err := json.Unmarshal(parsed[key], &s); err != nil {
		return ""
	}
	return ledger.NormalizeAddress(s)
}

func amountField(parsed map[string]json.RawMessage, key string) int64 {
	raw, ok := parsed[key]
	if !ok {
		return 0
	}
	v, err := parseAmount(raw)
	if err != nil || v > math.MaxInt64 {
		return 0
	}
	return int64(v)
}
