package router

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xyrille1/SuiCare/internal/handler"
)

const requestIDHeader = "X-Request-ID"

// Options 路由安全配置
type Options struct {
	// APIToken 写操作所需的 Bearer 令牌，为空时写操作全部返回401
	APIToken string
	// AllowedOrigins 允许跨域发起写操作的来源，其余来源只能跨域读取
	AllowedOrigins []string
}

func Setup(campaignHandler *handler.CampaignHandler, activityHandler *handler.ActivityHandler, opts Options) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(corsMiddleware(opts.AllowedOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "suicare",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API版本组
	v1 := r.Group("/api/v1")
	{
		v1.GET("/account", campaignHandler.GetAccount)
		v1.GET("/activity", activityHandler.GetActivity)

		// 活动相关路由（只读）
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.GET("/:id/suggestions", campaignHandler.GetSuggestions)
		}

		// 写操作使用服务端钱包签名，必须认证
		writes := v1.Group("/campaigns", authMiddleware(opts.APIToken))
		{
			writes.POST("", campaignHandler.CreateCampaign)
			writes.POST("/refresh", campaignHandler.RefreshCampaigns)
			writes.PUT("/:id", campaignHandler.UpdateCampaign)
			writes.DELETE("/:id", campaignHandler.DeleteCampaign)
			writes.POST("/:id/donations", campaignHandler.Donate)
			writes.POST("/:id/milestones", campaignHandler.AddMilestone)
			writes.POST("/:id/milestones/:index/request", campaignHandler.RequestRelease)
			writes.POST("/:id/milestones/:index/release", campaignHandler.VerifyAndRelease)
		}
	}

	return r
}

// 认证中间件，校验 Authorization: Bearer <token>
func authMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			handler.ErrorResponse(c, http.StatusUnauthorized, "写操作未启用：未配置 API 令牌")
			c.Abort()
			return
		}

		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
			c.Header("WWW-Authenticate", `Bearer realm="suicare"`)
			handler.ErrorResponse(c, http.StatusUnauthorized, "未认证")
			c.Abort()
			return
		}

		c.Next()
	}
}

// 请求ID中间件，沿用客户端传入的ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// CORS中间件，任意来源可跨域读取，写操作只对白名单来源开放
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[strings.ToLower(o)] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[strings.ToLower(origin)]; ok && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		} else {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		}
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
