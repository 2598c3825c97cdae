package service

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taysluxe/tayai/app/core"
	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/app/response"
	"github.com/taysluxe/tayai/cmd/service/handler"
	"github.com/taysluxe/tayai/cmd/service/middleware"
	"github.com/taysluxe/tayai/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User.ID
		}, opts...)
	}
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func apiMetrics(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := appCore.Metrics().ApiResponseTimer(c.FullPath())
		c.Next()
		timer.ObserveDuration()
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			appCore.Metrics().ApiErrorInc(c.Request.Method, c.FullPath(), status)
		}
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	userLimit := GetUserLimitBuilder(s.Core)
	ipLimit := GetIPLimitBuilder(s.Core)

	s.Engine.Use(gin.Recovery(), middleware.I18n(), response.NewResponse(), apiMetrics(s.Core))
	s.Engine.Use(middleware.Cors)

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.GET("/mode", ipLimit("mode"), func(c *gin.Context) {
			response.APISuccess(c, s.Core.Plugins.Name())
		})

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		authed.GET("/connect", handler.Websocket(s.Core))

		chat := authed.Group("/chat")
		{
			chat.POST("/message", userLimit("chat_message", core.WithLimit(20), core.WithRange(time.Minute)), s.SendMessage)
			chat.POST("/stream", userLimit("chat_message", core.WithLimit(20), core.WithRange(time.Minute)), s.StreamMessage)
			chat.GET("/history", s.ListChatHistory)
			chat.DELETE("/history", s.ClearChatHistory)
		}

		user := authed.Group("/user")
		{
			user.GET("/profile", s.GetProfile)
			user.GET("/usage", s.GetUsageStatus)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.AdminOnly)
		{
			knowledge := admin.Group("/knowledge")
			{
				knowledge.POST("", s.CreateKnowledge)
				knowledge.GET("/list", s.ListKnowledge)
				knowledge.GET("/stats", s.KnowledgeStats)
				knowledge.POST("/reindex", s.ReindexAllKnowledge)
				knowledge.GET("/:id", s.GetKnowledge)
				knowledge.PUT("/:id", s.UpdateKnowledge)
				knowledge.DELETE("/:id", s.DeleteKnowledge)
				knowledge.POST("/:id/reindex", s.ReindexKnowledge)
			}

			curation := admin.Group("/curation")
			{
				curation.GET("/missing", s.ListMissingKBItems)
				curation.PUT("/missing/:id/resolve", s.ResolveMissingKBItem)
				curation.POST("/missing/:id/resolve", s.ResolveMissingKBItemWithKnowledge)
			}

			insights := admin.Group("/insights")
			{
				insights.GET("/questions", s.TopQuestions)
				insights.GET("/categories", s.CategoryCounts)
				insights.GET("/coverage", s.NamespaceCoverage)
			}

			users := admin.Group("/users")
			{
				users.POST("", s.CreateUser)
				users.GET("/list", s.ListUsers)
				users.PUT("/:id/tier", s.SetUserTier)
			}
		}
	}
}
