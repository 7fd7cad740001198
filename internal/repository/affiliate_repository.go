package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bonosalud/bonos-api/internal/models"

	"gorm.io/gorm"
)

// AffiliateRepository 参保人名录数据访问接口
type AffiliateRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Affiliate, error)
	GetByDocument(ctx context.Context, document string) (*models.Affiliate, error)
}

// GormAffiliateRepository GORM 实现
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建参保人名录仓库
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// GetByID 根据 ID 查询参保人
func (r *GormAffiliateRepository) GetByID(ctx context.Context, id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.WithContext(ctx).First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByDocument 根据证件号查询参保人
func (r *GormAffiliateRepository) GetByDocument(ctx context.Context, document string) (*models.Affiliate, error) {
	document = strings.TrimSpace(document)
	if document == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.WithContext(ctx).Where("document = ?", document).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}
