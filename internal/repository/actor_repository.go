package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bonosalud/bonos-api/internal/models"

	"gorm.io/gorm"
)

// ActorRepository 操作员数据访问接口
type ActorRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Actor, error)
	GetByUsername(ctx context.Context, username string) (*models.Actor, error)
}

// GormActorRepository GORM 实现
type GormActorRepository struct {
	db *gorm.DB
}

// NewActorRepository 创建操作员仓库
func NewActorRepository(db *gorm.DB) *GormActorRepository {
	return &GormActorRepository{db: db}
}

// GetByID 根据 ID 查询操作员
func (r *GormActorRepository) GetByID(ctx context.Context, id uint) (*models.Actor, error) {
	if id == 0 {
		return nil, nil
	}
	var actor models.Actor
	if err := r.db.WithContext(ctx).First(&actor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &actor, nil
}

// GetByUsername 根据用户名查询操作员
func (r *GormActorRepository) GetByUsername(ctx context.Context, username string) (*models.Actor, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, nil
	}
	var actor models.Actor
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &actor, nil
}
