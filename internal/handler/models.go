package handler

import (
	"encoding/json"
	"time"

	"github.com/xyrille1/SuiCare/internal/logic"
	"github.com/xyrille1/SuiCare/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

// 活动相关请求模型

// CampaignRequest 创建/更新活动请求，goal 以 SUI 为单位
type CampaignRequest struct {
	Title            string      `json:"title" binding:"required"`
	Description      string      `json:"description" binding:"required"`
	Goal             json.Number `json:"goal" binding:"required"`
	RecipientAddress string      `json:"recipientAddress" binding:"required"`
}

func (r CampaignRequest) input() logic.CampaignInput {
	return logic.CampaignInput{
		Title:            r.Title,
		Description:      r.Description,
		Goal:             r.Goal.String(),
		RecipientAddress: r.RecipientAddress,
	}
}

// DonationRequest 捐赠请求，amount 以 SUI 为单位
type DonationRequest struct {
	Amount json.Number `json:"amount" binding:"required"`
}

// MilestoneRequest 新增里程碑请求
type MilestoneRequest struct {
	Description string `json:"description" binding:"required"`
	Percentage  int    `json:"percentage" binding:"required"`
}

// 活动相关响应模型

// CampaignResponse 活动响应模型
type CampaignResponse struct {
	model.Campaign
	Goal             string `json:"goal"`
	Raised           string `json:"raised"`
	Escrow           string `json:"escrow"`
	MilestoneWarning string `json:"milestoneWarning,omitempty"`
}

func toCampaignResponse(c model.Campaign) CampaignResponse {
	resp := CampaignResponse{
		Campaign: c,
		Goal:     logic.MistToSui(c.TargetAmount),
		Raised:   logic.MistToSui(c.DonatedAmount),
		Escrow:   logic.MistToSui(c.EscrowBalance),
	}
	if resp.Milestones == nil {
		resp.Milestones = []model.Milestone{}
	}
	if len(c.Milestones) > 0 {
		if err := logic.CheckMilestones(c.Milestones); err != nil {
			resp.MilestoneWarning = err.Error()
		}
	}
	return resp
}

// CampaignListResponse 活动列表响应
type CampaignListResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
	Loaded    bool               `json:"loaded"`
	FetchedAt time.Time          `json:"fetchedAt"`
	Error     string             `json:"error,omitempty"`
}

// AccountResponse 当前钱包状态
type AccountResponse struct {
	Address   string `json:"address"`
	Connected bool   `json:"connected"`
	IsAdmin   bool   `json:"isAdmin"`
	Pending   bool   `json:"pending"`
}

// SuggestionResponse 捐赠建议
type SuggestionResponse struct {
	CampaignID  string   `json:"campaignId"`
	Suggestions []uint64 `json:"suggestions"`
}

// ActivityItemResponse 活动流条目
type ActivityItemResponse struct {
	ID         string               `json:"id"`
	Filter     model.ActivityFilter `json:"filter"`
	TypeLabel  string               `json:"typeLabel"`
	Actor      string               `json:"actor,omitempty"`
	CampaignID string               `json:"campaignId,omitempty"`
	AmountSui  string               `json:"amountSui,omitempty"`
	Digest     string               `json:"digest,omitempty"`
	Timestamp  time.Time            `json:"timestamp"`
}

func toActivityItem(e model.ActivityEventModel) ActivityItemResponse {
	item := ActivityItemResponse{
		ID:         e.ItemId,
		Filter:     e.Filter,
		TypeLabel:  e.TypeLabel,
		Actor:      e.Actor,
		CampaignID: e.CampaignId,
		Digest:     e.TxDigest,
		Timestamp:  time.UnixMilli(e.TimestampMs).UTC(),
	}
	if e.AmountMist > 0 {
		item.AmountSui = logic.MistToSui(uint64(e.AmountMist))
	}
	return item
}

// ActivityListResponse 活动流分页响应
type ActivityListResponse struct {
	Items      []ActivityItemResponse `json:"items"`
	Pagination Pagination             `json:"pagination"`
}
