package repository

import (
	"context"

	"github.com/bonosalud/bonos-api/internal/models"

	"gorm.io/gorm"
)

// ScanRecordRepository 验券记录数据访问接口
type ScanRecordRepository interface {
	Create(ctx context.Context, record *models.ScanRecord) error
	ListByVoucher(ctx context.Context, voucherID uint, page, pageSize int) ([]models.ScanRecord, int64, error)
}

// GormScanRecordRepository GORM 实现
type GormScanRecordRepository struct {
	db *gorm.DB
}

// NewScanRecordRepository 创建验券记录仓库
func NewScanRecordRepository(db *gorm.DB) *GormScanRecordRepository {
	return &GormScanRecordRepository{db: db}
}

// Create 追加验券记录
func (r *GormScanRecordRepository) Create(ctx context.Context, record *models.ScanRecord) error {
	if record == nil {
		return nil
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByVoucher 按券查询验券记录
func (r *GormScanRecordRepository) ListByVoucher(ctx context.Context, voucherID uint, page, pageSize int) ([]models.ScanRecord, int64, error) {
	if voucherID == 0 {
		return []models.ScanRecord{}, 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.ScanRecord{}).Where("voucher_id = ?", voucherID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var records []models.ScanRecord
	if err := query.Order("id desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
