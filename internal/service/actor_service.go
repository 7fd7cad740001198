package service

import (
	"context"
	"errors"

	"github.com/bonosalud/bonos-api/internal/config"
	"github.com/bonosalud/bonos-api/internal/models"
	"github.com/bonosalud/bonos-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// ActorService 操作员服务
// 说明：令牌由统一登录系统签发，这里只做校验与反查，不提供登录接口。
type ActorService struct {
	cfg       *config.Config
	actorRepo repository.ActorRepository
}

// NewActorService 创建操作员服务
func NewActorService(cfg *config.Config, actorRepo repository.ActorRepository) *ActorService {
	return &ActorService{
		cfg:       cfg,
		actorRepo: actorRepo,
	}
}

// ActorClaims 操作员令牌声明
type ActorClaims struct {
	ActorID      uint   `json:"actor_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// ParseToken 解析操作员令牌
func (s *ActorService) ParseToken(tokenString string) (*ActorClaims, error) {
	if s == nil || s.cfg == nil {
		return nil, ErrTokenInvalid
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ActorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}

// ResolveActor 按令牌声明反查操作员，校验启用状态与令牌版本
func (s *ActorService) ResolveActor(ctx context.Context, claims *ActorClaims) (*models.Actor, error) {
	if s == nil || s.actorRepo == nil || claims == nil {
		return nil, ErrTokenInvalid
	}
	actor, err := s.actorRepo.GetByID(ctx, claims.ActorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrActorNotFound
	}
	if !actor.Active {
		return nil, ErrActorDisabled
	}
	if actor.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	return actor, nil
}

// ResolveProvider 解析操作员绑定的服务机构ID（prestador 专用）
func (s *ActorService) ResolveProvider(ctx context.Context, actorID uint) (uint, error) {
	if s == nil || s.actorRepo == nil {
		return 0, errors.New("actor service unavailable")
	}
	actor, err := s.actorRepo.GetByID(ctx, actorID)
	if err != nil {
		return 0, err
	}
	if actor == nil {
		return 0, ErrActorNotFound
	}
	if actor.ProviderID == nil || *actor.ProviderID == 0 {
		return 0, ErrActorNotProvider
	}
	return *actor.ProviderID, nil
}
