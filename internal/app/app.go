package app

import (
	"context"
	"froggocodes_backend/internal/config"
	"froggocodes_backend/internal/controller"
	"froggocodes_backend/internal/repository"
	"froggocodes_backend/internal/service"
	"froggocodes_backend/pkg/database"
	"froggocodes_backend/pkg/logger"
	"froggocodes_backend/pkg/monitoring"
	"froggocodes_backend/pkg/security"
	"froggocodes_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	video      *repository.VideoRepository
	payment    *repository.PaymentRepository
	enrollment *repository.EnrollmentRepository
	progress   *repository.ProgressRepository
	accessLog  *repository.AccessLogRepository
}

type services struct {
	auth     *service.AuthService
	storage  *service.StorageService
	pricing  *service.PricingService
	gateway  *service.GatewayService
	payment  *service.PaymentService
	course   *service.CourseService
	access   *service.AccessService
	progress *service.ProgressService
}

type controllers struct {
	auth     *controller.AuthController
	course   *controller.CourseController
	payment  *controller.PaymentController
	video    *controller.VideoController
	progress *controller.ProgressController
	admin    *controller.AdminController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，由 configwatcher 调用
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		video:      repository.NewVideoRepository(db),
		payment:    repository.NewPaymentRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		progress:   repository.NewProgressRepository(db),
		accessLog:  repository.NewAccessLogRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.pricing = service.NewPricingService(&cfg.Pricing)
	s.gateway = service.NewGatewayService(&cfg.Razorpay)
	s.payment = service.NewPaymentService(repos.payment, repos.enrollment, repos.course, s.gateway, db)
	s.access = service.NewAccessService(repos.enrollment, repos.payment, repos.video, repos.accessLog, &cfg.Video)
	s.course = service.NewCourseService(repos.course, repos.video, repos.enrollment, s.pricing)
	s.progress = service.NewProgressService(repos.progress, repos.video)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		course:   controller.NewCourseController(s.course, s.access),
		payment:  controller.NewPaymentController(s.payment, s.course, s.pricing, s.gateway),
		video:    controller.NewVideoController(s.access),
		progress: controller.NewProgressController(s.progress, s.access),
		admin:    controller.NewAdminController(repos.course, repos.video, s.storage),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis 不可用时支付限流退回进程内窗口，服务照常启动
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, payment rate limiting falls back to in-process window", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db)
	controllers := app.initControllers(services, repos, db, rdb)

	// 密钥轮换：配置重载后换入网关密钥对与播放令牌密钥
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.gateway.UpdateCredentials(&newCfg.Razorpay)
		services.access.UpdateTokenConfig(&newCfg.Video)
	})

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("froggocodes-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
