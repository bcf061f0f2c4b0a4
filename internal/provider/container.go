package provider

import (
	"github.com/parcelkeep/internal/cache"
	"github.com/parcelkeep/internal/config"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/queue"
	"github.com/parcelkeep/internal/repository"
	"github.com/parcelkeep/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	PackageRepo      repository.PackageRepository
	RecipientRepo    repository.RecipientRepository
	PackageEventRepo repository.PackageEventRepository

	// Services
	TrackingAllocator   *service.TrackingAllocator
	PackageEventService *service.PackageEventService
	PackageService      *service.PackageService
	RecipientService    *service.RecipientService
	ImportService       *service.ImportService
}

// NewContainer 初始化容器，使用全局数据库连接
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}
	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 基于指定连接与队列客户端组装容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.PackageRepo = repository.NewPackageRepository(db)
	c.RecipientRepo = repository.NewRecipientRepository(db)
	c.PackageEventRepo = repository.NewPackageEventRepository(db)
}

func (c *Container) initServices() {
	c.TrackingAllocator = service.NewTrackingAllocator(c.PackageRepo, c.Config.Tracking.MaxAllocationAttempts)
	c.PackageEventService = service.NewPackageEventService(c.PackageEventRepo, c.PackageRepo, c.QueueClient)
	c.PackageService = service.NewPackageService(
		c.PackageRepo,
		c.RecipientRepo,
		c.PackageEventRepo,
		c.TrackingAllocator,
		c.PackageEventService,
	)
	c.RecipientService = service.NewRecipientService(c.RecipientRepo)
	c.ImportService = service.NewImportService(c.Config, c.PackageService, c.RecipientService)
}
