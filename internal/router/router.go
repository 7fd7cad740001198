package router

import (
	"fmt"
	"strings"

	"github.com/bonosalud/bonos-api/internal/cache"
	"github.com/bonosalud/bonos-api/internal/config"
	prestadorhandlers "github.com/bonosalud/bonos-api/internal/http/handlers/prestador"
	publichandlers "github.com/bonosalud/bonos-api/internal/http/handlers/public"
	staffhandlers "github.com/bonosalud/bonos-api/internal/http/handlers/staff"
	"github.com/bonosalud/bonos-api/internal/logger"
	"github.com/bonosalud/bonos-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/工作人员/服务机构分组）
	publicHandler := publichandlers.New(c)
	staffHandler := staffhandlers.New(c)
	prestadorHandler := prestadorhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bono"
	}
	redisClient := cache.Client()
	verifyRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:verify", redisPrefix),
		WindowSeconds: cfg.Security.VerifyRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.VerifyRateLimit.MaxRequests,
		Message:       "too many verify attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口：验券匿名可用，带令牌时记录操作员归属
		public := apiV1.Group("/public")
		{
			public.POST("/vouchers/verify",
				RateLimitMiddleware(redisClient, verifyRule, KeyByIP),
				OptionalActorAuthMiddleware(c.ActorService),
				publicHandler.VerifyVoucher,
			)
		}

		// 需鉴权接口：JWT + RBAC，能力由角色策略决定
		authorized := apiV1.Group("")
		authorized.Use(ActorJWTAuthMiddleware(c.ActorService), RBACMiddleware(c.AuthzService))
		{
			authorized.POST("/vouchers", staffHandler.IssueVoucher)
			authorized.GET("/vouchers", staffHandler.GetVouchers)
			authorized.GET("/vouchers/:id", staffHandler.GetVoucher)
			authorized.GET("/vouchers/:id/scans", staffHandler.GetVoucherScans)
			authorized.POST("/vouchers/:id/cancel", staffHandler.CancelVoucher)
			authorized.POST("/vouchers/redeem", prestadorHandler.RedeemVoucher)
			authorized.GET("/unresolved-scans", staffHandler.GetUnresolvedScans)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
