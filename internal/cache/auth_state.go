package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bonosalud/bonos-api/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// ActorAuthState 操作员鉴权快照
// 缓存启用状态、角色与令牌版本，减少每个请求的数据库反查。
type ActorAuthState struct {
	ActorID      uint   `json:"actor_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	ProviderID   uint   `json:"provider_id"`
	Active       bool   `json:"active"`
	TokenVersion int    `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

func actorAuthStateKey(actorID uint) string {
	return fmt.Sprintf("auth:actor:%d", actorID)
}

// BuildActorAuthState 从操作员模型构建鉴权快照
func BuildActorAuthState(actor *models.Actor) *ActorAuthState {
	if actor == nil {
		return nil
	}
	state := &ActorAuthState{
		ActorID:      actor.ID,
		Username:     actor.Username,
		Role:         actor.Role,
		Active:       actor.Active,
		TokenVersion: actor.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
	if actor.ProviderID != nil {
		state.ProviderID = *actor.ProviderID
	}
	return state
}

// GetActorAuthState 获取操作员鉴权快照
func GetActorAuthState(ctx context.Context, actorID uint) (*ActorAuthState, bool, error) {
	if actorID == 0 {
		return nil, false, nil
	}
	var state ActorAuthState
	hit, err := GetJSON(ctx, actorAuthStateKey(actorID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetActorAuthState 写入操作员鉴权快照
func SetActorAuthState(ctx context.Context, state *ActorAuthState) error {
	if state == nil || state.ActorID == 0 {
		return nil
	}
	return SetJSON(ctx, actorAuthStateKey(state.ActorID), state, authStateCacheTTL)
}

// DelActorAuthState 删除操作员鉴权快照
func DelActorAuthState(ctx context.Context, actorID uint) error {
	if actorID == 0 {
		return nil
	}
	return Del(ctx, actorAuthStateKey(actorID))
}
