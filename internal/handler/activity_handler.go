package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xyrille1/SuiCare/internal/logic"
	"github.com/xyrille1/SuiCare/internal/model"
)

// ActivityLister 活动流查询
type ActivityLister interface {
	ListActivity(q logic.ActivityQuery) ([]model.ActivityEventModel, int64, error)
}

const maxPageSize = 100

type ActivityHandler struct {
	activity ActivityLister
}

// NewActivityHandler activity 为 nil 时表示未配置数据库
func NewActivityHandler(activity ActivityLister) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// GetActivity 获取活动流
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	if h.activity == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, "活动流未启用")
		return
	}

	filter, ok := model.ParseActivityFilter(c.Query("filter"))
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的分类: "+c.Query("filter"))
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		ErrorResponse(c, http.StatusBadRequest, "无效的页码")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		ErrorResponse(c, http.StatusBadRequest, "无效的分页大小")
		return
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := logic.ActivityQuery{
		Filter:     filter,
		CampaignID: c.Query("campaign"),
		Actor:      c.Query("actor"),
		Page:       page,
		PageSize:   pageSize,
	}
	events, total, err := h.activity.ListActivity(query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]ActivityItemResponse, 0, len(events))
	for _, e := range events {
		items = append(items, toActivityItem(e))
	}
	SuccessResponse(c, http.StatusOK, "ok", ActivityListResponse{
		Items:      items,
		Pagination: newPagination(page, pageSize, total),
	})
}
