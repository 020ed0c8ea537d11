package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vocab_learn_backend/docs"
	"vocab_learn_backend/internal/config"
	"vocab_learn_backend/internal/middleware"
	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.DELETE("/profile/learning-data", c.user.EraseLearningData)

		// 词库查询
		authGroup.GET("/words", c.vocab.ListWords)
		authGroup.GET("/words/:id", c.vocab.GetWord)

		// 复习引擎
		authGroup.POST("/reviews", c.review.SubmitReview)
		authGroup.GET("/reviews/due", c.review.GetDueReviews)
		authGroup.GET("/reviews/due/count", c.review.CountDue)
		authGroup.POST("/reviews/cache/repair", c.review.RepairCache)

		// 学习计划与每日任务
		authGroup.POST("/plans", c.plan.CreatePlan)
		authGroup.GET("/plans/active", c.plan.GetActivePlan)
		authGroup.POST("/plans/adjust", c.plan.AdjustPlan)
		authGroup.GET("/tasks", c.plan.GetDailyTasks)
		authGroup.PUT("/tasks/:id/progress", c.plan.MarkTaskProgress)

		// 学习分析
		authGroup.GET("/analytics/profile", c.analytics.GetLearningProfile)
		authGroup.POST("/analytics/profile/refresh", c.analytics.RefreshLearningProfile)
		authGroup.GET("/analytics/progress", c.analytics.GetProgressCurve)
		authGroup.GET("/analytics/streak", c.analytics.GetStreak)

		// 成就
		authGroup.GET("/achievements", c.achievement.ListAchievements)
		authGroup.GET("/achievements/unlocked", c.achievement.ListUnlocked)
	}

	// 管理员路由：词库维护
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/words", c.vocab.CreateWord)
		adminGroup.PUT("/words/:id", c.vocab.UpdateWord)
		adminGroup.POST("/words/import", c.vocab.ImportWords)
		adminGroup.POST("/words/:id/audio", c.vocab.UploadAudio)
	}
}
