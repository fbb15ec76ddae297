package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xyrille1/SuiCare/internal/logic"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// StatusFor 业务错误对应的HTTP状态码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, logic.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, logic.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, logic.ErrGoalAlreadyReached):
		return http.StatusConflict
	case errors.Is(err, logic.ErrSimulationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, logic.ErrSubmissionFailed), errors.Is(err, logic.ErrRegistryNotFound):
		return http.StatusBadGateway
	case errors.Is(err, logic.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrCampaignNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrMutationPending):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	ErrorResponse(c, StatusFor(err), err.Error())
}
