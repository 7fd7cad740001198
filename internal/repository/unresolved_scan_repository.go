package repository

import (
	"context"
	"strings"

	"github.com/bonosalud/bonos-api/internal/models"

	"gorm.io/gorm"
)

// UnresolvedScanListFilter 未命中验券记录筛选
type UnresolvedScanListFilter struct {
	Code     string
	ClientIP string
	Page     int
	PageSize int
}

// UnresolvedScanRepository 未命中验券记录数据访问接口
type UnresolvedScanRepository interface {
	Create(ctx context.Context, scan *models.UnresolvedScan) error
	List(ctx context.Context, filter UnresolvedScanListFilter) ([]models.UnresolvedScan, int64, error)
}

// GormUnresolvedScanRepository GORM 实现
type GormUnresolvedScanRepository struct {
	db *gorm.DB
}

// NewUnresolvedScanRepository 创建未命中验券记录仓库
func NewUnresolvedScanRepository(db *gorm.DB) *GormUnresolvedScanRepository {
	return &GormUnresolvedScanRepository{db: db}
}

// Create 追加未命中验券记录
func (r *GormUnresolvedScanRepository) Create(ctx context.Context, scan *models.UnresolvedScan) error {
	if scan == nil {
		return nil
	}
	return r.db.WithContext(ctx).Create(scan).Error
}

// List 查询未命中验券记录列表
func (r *GormUnresolvedScanRepository) List(ctx context.Context, filter UnresolvedScanListFilter) ([]models.UnresolvedScan, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UnresolvedScan{})
	if code := strings.TrimSpace(strings.ToUpper(filter.Code)); code != "" {
		query = query.Where("code LIKE ?", "%"+code+"%")
	}
	if ip := strings.TrimSpace(filter.ClientIP); ip != "" {
		query = query.Where("client_ip = ?", ip)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var scans []models.UnresolvedScan
	if err := query.Order("id desc").Find(&scans).Error; err != nil {
		return nil, 0, err
	}
	return scans, total, nil
}
