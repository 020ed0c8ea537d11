package app

import (
	"context"
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

	"vocab_learn_backend/internal/cache"
	"vocab_learn_backend/internal/config"
	"vocab_learn_backend/internal/controller"
	"vocab_learn_backend/internal/repository"
	"vocab_learn_backend/internal/scheduler"
	"vocab_learn_backend/internal/service"
	"vocab_learn_backend/pkg/configwatcher"
	"vocab_learn_backend/pkg/database"
	"vocab_learn_backend/pkg/logger"
	"vocab_learn_backend/pkg/monitoring"
	"vocab_learn_backend/pkg/security"
	"vocab_learn_backend/pkg/tracing"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Scheduler       *scheduler.Scheduler
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	word        *repository.WordRepository
	record      *repository.MemoryRecordRepository
	plan        *repository.StudyPlanRepository
	task        *repository.DailyTaskRepository
	profile     *repository.LearningProfileRepository
	streak      *repository.StreakRepository
	achievement *repository.AchievementRepository
	reviewLog   *repository.ReviewLogRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	vocab       *service.VocabService
	streak      *service.StreakService
	achievement *service.AchievementService
	review      *service.ReviewService
	plan        *service.PlanService
	analytics   *service.AnalyticsService
	user        *service.UserService
}

type controllers struct {
	auth        *controller.AuthController
	review      *controller.ReviewController
	plan        *controller.PlanController
	analytics   *controller.AnalyticsController
	achievement *controller.AchievementController
	vocab       *controller.VocabController
	user        *controller.UserController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		word:        repository.NewWordRepository(db),
		record:      repository.NewMemoryRecordRepository(db),
		plan:        repository.NewStudyPlanRepository(db),
		task:        repository.NewDailyTaskRepository(db),
		profile:     repository.NewLearningProfileRepository(db),
		streak:      repository.NewStreakRepository(db),
		achievement: repository.NewAchievementRepository(db),
		reviewLog:   repository.NewReviewLogRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, cacheLayer *cache.Layer) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.vocab = service.NewVocabService(repos.word, s.storage)
	s.streak = service.NewStreakService(repos.streak)
	s.achievement = service.NewAchievementService(repos.achievement, repos.record, repos.streak)
	s.review = service.NewReviewService(repos.record, repos.word, repos.reviewLog, s.streak, s.achievement, cacheLayer, cfg)
	s.plan = service.NewPlanService(repos.plan, repos.task, repos.profile, repos.word, repos.record, cacheLayer, cfg)
	s.analytics = service.NewAnalyticsService(repos.profile, repos.record, repos.reviewLog, cacheLayer, cfg)
	s.user = service.NewUserService(
		repos.user, repos.record, repos.plan, repos.task,
		repos.profile, repos.streak, repos.achievement, repos.reviewLog,
		cacheLayer,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		review:      controller.NewReviewController(s.review),
		plan:        controller.NewPlanController(s.plan),
		analytics:   controller.NewAnalyticsController(s.analytics, s.streak),
		achievement: controller.NewAchievementController(s.achievement),
		vocab:       controller.NewVocabController(s.vocab),
		user:        controller.NewUserController(s.user),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	cacheLayer := cache.NewLayer(cache.NewRedisStore(rdb))

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, cacheLayer)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("vocab-learn", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	if cfg.Scheduler.Enabled {
		app.Scheduler = scheduler.New(services.plan, services.analytics, services.review, cfg)
		if err := app.Scheduler.Start(); err != nil {
			logger.Log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// 配置热更新：回调方各自决定哪些项可以运行中生效
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		updated, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("config reloaded")
		for _, callback := range app.configCallbacks {
			callback(updated)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

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

	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
