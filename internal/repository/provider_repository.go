package repository

import (
	"context"
	"errors"

	"github.com/bonosalud/bonos-api/internal/models"

	"gorm.io/gorm"
)

// ProviderRepository 服务机构名录数据访问接口
type ProviderRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Provider, error)
}

// GormProviderRepository GORM 实现
type GormProviderRepository struct {
	db *gorm.DB
}

// NewProviderRepository 创建服务机构名录仓库
func NewProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// GetByID 根据 ID 查询服务机构
func (r *GormProviderRepository) GetByID(ctx context.Context, id uint) (*models.Provider, error) {
	if id == 0 {
		return nil, nil
	}
	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}
