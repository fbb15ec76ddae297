package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyrille1/SuiCare/internal/logic"
	"github.com/xyrille1/SuiCare/internal/model"
)

// CampaignStore 活动快照读取
type CampaignStore interface {
	Campaigns() []model.Campaign
	GetCampaign(id string) (model.Campaign, bool)
	Refresh(ctx context.Context) error
	Loaded() bool
	LastError() error
	FetchedAt() time.Time
}

// Dispatcher 交易分发
type Dispatcher interface {
	CreateCampaign(ctx context.Context, in logic.CampaignInput) (*logic.TxResult, error)
	UpdateCampaign(ctx context.Context, campaignID string, in logic.CampaignInput) (*logic.TxResult, error)
	DeleteCampaign(ctx context.Context, campaignID string) (*logic.TxResult, error)
	Donate(ctx context.Context, campaignID, amount string) (*logic.TxResult, error)
	AddMilestone(ctx context.Context, campaignID string, in logic.MilestoneInput) (*logic.TxResult, error)
	RequestRelease(ctx context.Context, campaignID string, index int) (*logic.TxResult, error)
	VerifyAndRelease(ctx context.Context, campaignID string, index int) (*logic.TxResult, error)
	Account() string
	IsAdmin() bool
	Pending() bool
}

// Suggester 捐赠建议
type Suggester interface {
	Suggest(ctx context.Context, title, description string, goal uint64) []uint64
}

type CampaignHandler struct {
	store      CampaignStore
	dispatcher Dispatcher
	suggester  Suggester
}

func NewCampaignHandler(store CampaignStore, dispatcher Dispatcher, suggester Suggester) *CampaignHandler {
	return &CampaignHandler{
		store:      store,
		dispatcher: dispatcher,
		suggester:  suggester,
	}
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	campaigns := h.store.Campaigns()
	resp := CampaignListResponse{
		Campaigns: make([]CampaignResponse, 0, len(campaigns)),
		Loaded:    h.store.Loaded(),
		FetchedAt: h.store.FetchedAt(),
	}
	for _, campaign := range campaigns {
		resp.Campaigns = append(resp.Campaigns, toCampaignResponse(campaign))
	}
	if err := h.store.LastError(); err != nil {
		resp.Error = err.Error()
	}

	SuccessResponse(c, http.StatusOK, "ok", resp)
}

// GetCampaign 获取单个活动
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, ok := h.store.GetCampaign(c.Param("id"))
	if !ok {
		if err := h.store.LastError(); err != nil && !h.store.Loaded() {
			respondError(c, err)
			return
		}
		respondError(c, logic.ErrCampaignNotFound)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", toCampaignResponse(campaign))
}

// RefreshCampaigns 立即刷新快照
func (h *CampaignHandler) RefreshCampaigns(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "活动已刷新", gin.H{"count": len(h.store.Campaigns())})
}

// GetAccount 当前钱包状态
func (h *CampaignHandler) GetAccount(c *gin.Context) {
	addr := h.dispatcher.Account()
	SuccessResponse(c, http.StatusOK, "ok", AccountResponse{
		Address:   addr,
		Connected: addr != "",
		IsAdmin:   h.dispatcher.IsAdmin(),
		Pending:   h.dispatcher.Pending(),
	})
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.dispatcher.CreateCampaign(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "活动创建成功", res)
}

// UpdateCampaign 更新活动
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.dispatcher.UpdateCampaign(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "活动更新成功", res)
}

// DeleteCampaign 退款并删除活动
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	res, err := h.dispatcher.DeleteCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "活动已删除", res)
}

// Donate 捐赠
func (h *CampaignHandler) Donate(c *gin.Context) {
	var req DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.dispatcher.Donate(c.Request.Context(), c.Param("id"), req.Amount.String())
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "捐赠成功", res)
}

// AddMilestone 新增里程碑
func (h *CampaignHandler) AddMilestone(c *gin.Context) {
	var req MilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.dispatcher.AddMilestone(c.Request.Context(), c.Param("id"), logic.MilestoneInput{
		Description: req.Description,
		Percentage:  req.Percentage,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "里程碑已添加", res)
}

// RequestRelease 申请释放里程碑资金
func (h *CampaignHandler) RequestRelease(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的里程碑序号")
		return
	}

	res, err := h.dispatcher.RequestRelease(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "已申请释放", res)
}

// VerifyAndRelease 审核并释放里程碑资金
func (h *CampaignHandler) VerifyAndRelease(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的里程碑序号")
		return
	}

	res, err := h.dispatcher.VerifyAndRelease(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "资金已释放", res)
}

// GetSuggestions 获取捐赠金额建议
func (h *CampaignHandler) GetSuggestions(c *gin.Context) {
	campaign, ok := h.store.GetCampaign(c.Param("id"))
	if !ok {
		respondError(c, logic.ErrCampaignNotFound)
		return
	}

	amounts := h.suggester.Suggest(c.Request.Context(), campaign.Title, campaign.Description, logic.MistToWholeSui(campaign.TargetAmount))
	SuccessResponse(c, http.StatusOK, "ok", SuggestionResponse{CampaignID: campaign.ID, Suggestions: amounts})
}
