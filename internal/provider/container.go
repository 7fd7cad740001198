package provider

import (
	"github.com/bonosalud/bonos-api/internal/authz"
	"github.com/bonosalud/bonos-api/internal/cache"
	"github.com/bonosalud/bonos-api/internal/config"
	"github.com/bonosalud/bonos-api/internal/logger"
	"github.com/bonosalud/bonos-api/internal/models"
	"github.com/bonosalud/bonos-api/internal/queue"
	"github.com/bonosalud/bonos-api/internal/repository"
	"github.com/bonosalud/bonos-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	VoucherRepo        repository.VoucherRepository
	ScanRecordRepo     repository.ScanRecordRepository
	UnresolvedScanRepo repository.UnresolvedScanRepository
	AffiliateRepo      repository.AffiliateRepository
	ProviderRepo       repository.ProviderRepository
	ActorRepo          repository.ActorRepository

	// Services
	AuthzService   *authz.Service
	ActorService   *service.ActorService
	VoucherService *service.VoucherService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.VoucherRepo = repository.NewVoucherRepository(db)
	c.ScanRecordRepo = repository.NewScanRecordRepository(db)
	c.UnresolvedScanRepo = repository.NewUnresolvedScanRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.ProviderRepo = repository.NewProviderRepository(db)
	c.ActorRepo = repository.NewActorRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.ActorService = service.NewActorService(c.Config, c.ActorRepo)
	c.VoucherService = service.NewVoucherService(
		c.Config,
		c.VoucherRepo,
		c.ScanRecordRepo,
		c.UnresolvedScanRepo,
		c.AffiliateRepo,
		c.ProviderRepo,
		c.ActorRepo,
		c.QueueClient,
	)
}
