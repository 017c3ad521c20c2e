package app

import (
	"froggocodes_backend/docs"
	"froggocodes_backend/internal/config"
	"froggocodes_backend/internal/middleware"
	"froggocodes_backend/internal/model"
	"froggocodes_backend/pkg/monitoring"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)
		public.GET("/courses/:id/features", c.course.GetFeatures)
		public.GET("/courses/:id/pricing", c.course.GetPricing)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/my-courses", c.course.MyCourses)
		authGroup.POST("/courses/:id/visit", c.course.VisitCourse)
		authGroup.GET("/courses/:id/access", c.course.CheckAccess)
		authGroup.GET("/courses/:id/progress", c.progress.GetCourseProgress)
		authGroup.POST("/progress", c.progress.RecordProgress)
		authGroup.POST("/vimeo-token", c.video.VimeoToken)
		authGroup.POST("/verify-payment", c.payment.VerifyPayment)

		// 发起结账单独套按用户限流
		paymentLimiter := middleware.PaymentRateLimiter(
			a.Redis,
			cfg.RateLimit.PaymentMaxRequests,
			time.Duration(cfg.RateLimit.PaymentWindowSeconds)*time.Second,
		)
		authGroup.POST("/create-payment", paymentLimiter, c.payment.CreatePayment)
	}

	// 3. 管理员相关接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.PUT("/courses", c.admin.UpsertCourse)
		adminGroup.DELETE("/courses/:id", c.admin.DeleteCourse)
		adminGroup.PUT("/courses/:id/features", c.admin.UpsertFeatures)
		adminGroup.PUT("/courses/:id/videos", c.admin.UpsertVideo)
		adminGroup.DELETE("/courses/:id/videos/:videoId", c.admin.DeleteVideo)
		adminGroup.POST("/courses/:id/thumbnail", c.admin.UploadThumbnail)
	}
}
