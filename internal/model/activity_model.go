package model

import (
	"time"
)

// ActivityFilter 活动流分类
type ActivityFilter string

const (
	ActivityAll        ActivityFilter = "all"
	ActivityDonations  ActivityFilter = "donations"
	ActivityMilestones ActivityFilter = "milestones"
	ActivityAdmin      ActivityFilter = "admin"
)

// ParseActivityFilter 解析分类，空值视为 all
func ParseActivityFilter(s string) (ActivityFilter, bool) {
	switch f := ActivityFilter(s); f {
	case "":
		return ActivityAll, true
	case ActivityAll, ActivityDonations, ActivityMilestones, ActivityAdmin:
		return f, true
	default:
		return "", false
	}
}

// ActivityEventModel 链上事件记录
type ActivityEventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ItemId      string         `json:"item_id" gorm:"uniqueIndex;not null"` // <txDigest>-<eventSeq>
	Filter      ActivityFilter `json:"filter" gorm:"index;not null"`
	EventType   string         `json:"event_type" gorm:"not null"`
	TypeLabel   string         `json:"type_label"`
	Actor       string         `json:"actor"`
	CampaignId  string         `json:"campaign_id" gorm:"index"`
	AmountMist  int64          `json:"amount_mist"`
	TxDigest    string         `json:"tx_digest" gorm:"not null"`
	EventSeq    string         `json:"event_seq"`
	TimestampMs int64          `json:"timestamp_ms" gorm:"index"`
	Data        string         `json:"data" gorm:"type:text"`
}

// TableName 自定义表名
func (ActivityEventModel) TableName() string {
	return "activity_event"
}

// ActivityCursorModel 事件索引游标
type ActivityCursorModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	UpdatedAt time.Time `json:"updated_at"`

	Module   string `json:"module" gorm:"uniqueIndex;not null"` // <package>::<module>
	TxDigest string `json:"tx_digest"`
	EventSeq string `json:"event_seq"`
}

// TableName 自定义表名
func (ActivityCursorModel) TableName() string {
	return "activity_cursor"
}
