package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/bonosalud/bonos-api/internal/authz"
	"github.com/bonosalud/bonos-api/internal/cache"
	"github.com/bonosalud/bonos-api/internal/config"
	"github.com/bonosalud/bonos-api/internal/http/response"
	"github.com/bonosalud/bonos-api/internal/logger"
	"github.com/bonosalud/bonos-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

const actorIDContextKey = "actor_id"
const actorRoleContextKey = "actor_role"
const actorUsernameContextKey = "actor_username"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// ActorJWTAuthMiddleware 操作员 JWT 鉴权中间件
// 令牌由统一登录系统签发，这里校验签名、启用状态与令牌版本。
func ActorJWTAuthMiddleware(actorService *service.ActorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := resolveBearerActor(c, actorService, true)
		if !ok {
			return
		}
		setActorContext(c, actor)
		c.Next()
	}
}

// OptionalActorAuthMiddleware 可选鉴权中间件
// 公开验券接口匿名可用，带合法令牌时把操作员写入上下文用于记录归属。
func OptionalActorAuthMiddleware(actorService *service.ActorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		if actor, ok := resolveBearerActor(c, actorService, false); ok && actor != nil {
			setActorContext(c, actor)
		}
		c.Next()
	}
}

type resolvedActor struct {
	ID       uint
	Username string
	Role     string
}

func setActorContext(c *gin.Context, actor *resolvedActor) {
	if actor == nil {
		return
	}
	c.Set(actorIDContextKey, actor.ID)
	c.Set(actorUsernameContextKey, actor.Username)
	c.Set(actorRoleContextKey, actor.Role)
}

// resolveBearerActor 解析 Bearer 令牌并反查操作员
// strict 为真时失败直接 401 终止请求，为假时静默放行。
func resolveBearerActor(c *gin.Context, actorService *service.ActorService, strict bool) (*resolvedActor, bool) {
	abort := func(msg string) (*resolvedActor, bool) {
		if strict {
			response.Unauthorized(c, msg)
			c.Abort()
		}
		return nil, false
	}

	if actorService == nil {
		return abort("unauthorized")
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return abort("authorization header missing")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return abort("authorization header invalid")
	}

	claims, err := actorService.ParseToken(parts[1])
	if err != nil || claims == nil || claims.ActorID == 0 {
		return abort("token invalid")
	}

	if cached, hit, cacheErr := cache.GetActorAuthState(c.Request.Context(), claims.ActorID); cacheErr == nil && hit && cached != nil {
		if !cached.Active {
			return abort("actor disabled")
		}
		if claims.TokenVersion != cached.TokenVersion {
			return abort("token revoked")
		}
		return &resolvedActor{ID: cached.ActorID, Username: cached.Username, Role: cached.Role}, true
	}

	actor, err := actorService.ResolveActor(c.Request.Context(), claims)
	if err != nil || actor == nil {
		return abort("token invalid")
	}
	_ = cache.SetActorAuthState(c.Request.Context(), cache.BuildActorAuthState(actor))

	return &resolvedActor{ID: actor.ID, Username: actor.Username, Role: actor.Role}, true
}

// RBACMiddleware 角色授权中间件
// 角色是封闭集合，所有能力判断统一走授权服务，不做散落的角色比较。
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		roleRaw, exists := c.Get(actorRoleContextKey)
		role, _ := roleRaw.(string)
		if !exists || strings.TrimSpace(role) == "" {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			logger.Warnw("rbac_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Forbidden(c, "forbidden")
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, "forbidden")
			c.Abort()
			return
		}

		c.Next()
	}
}
