package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/models"

	"gorm.io/gorm"
)

// VoucherListFilter 就诊券列表筛选
type VoucherListFilter struct {
	Code        string
	Search      string
	Status      string
	AffiliateID uint
	ProviderID  uint
	IssuedFrom  *time.Time
	IssuedTo    *time.Time
	Page        int
	PageSize    int
}

// VoucherRepository 就诊券仓储接口
type VoucherRepository interface {
	Create(ctx context.Context, voucher *models.Voucher) error
	GetByID(ctx context.Context, id uint) (*models.Voucher, error)
	GetByCode(ctx context.Context, code string) (*models.Voucher, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter VoucherListFilter) ([]models.Voucher, int64, error)
	MarkUsed(ctx context.Context, id uint, providerID uint, usedAt time.Time) (int64, error)
	MarkCancelled(ctx context.Context, id uint, actorID uint, cancelledAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormVoucherRepository
}

// GormVoucherRepository GORM 就诊券仓储实现
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository 创建就诊券仓储
func NewVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVoucherRepository) WithTx(tx *gorm.DB) *GormVoucherRepository {
	if tx == nil {
		return r
	}
	return &GormVoucherRepository{db: tx}
}

// Create 创建就诊券
func (r *GormVoucherRepository) Create(ctx context.Context, voucher *models.Voucher) error {
	if voucher == nil {
		return errors.New("invalid voucher")
	}
	return r.db.WithContext(ctx).Create(voucher).Error
}

// GetByID 根据 ID 查询就诊券
func (r *GormVoucherRepository) GetByID(ctx context.Context, id uint) (*models.Voucher, error) {
	if id == 0 {
		return nil, nil
	}
	var voucher models.Voucher
	if err := r.db.WithContext(ctx).First(&voucher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetByCode 根据券码查询就诊券
func (r *GormVoucherRepository) GetByCode(ctx context.Context, code string) (*models.Voucher, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, nil
	}
	var voucher models.Voucher
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// CodeExists 判断券码是否已占用
func (r *GormVoucherRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Voucher{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 查询就诊券列表
func (r *GormVoucherRepository) List(ctx context.Context, filter VoucherListFilter) ([]models.Voucher, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Voucher{})
	if code := strings.TrimSpace(strings.ToUpper(filter.Code)); code != "" {
		query = query.Where("code LIKE ?", "%"+code+"%")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"affiliate_name", "affiliate_document", "provider_name", "practice"})
		if argCount > 0 {
			query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
		}
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		now := time.Now()
		switch status {
		case constants.ScanResultExpired:
			// 过期不是持久化状态，按 valid + 截止时间派生筛选
			query = query.Where("status = ? AND expires_at < ?", constants.VoucherStatusValid, now)
		case constants.VoucherStatusValid:
			query = query.Where("status = ? AND expires_at >= ?", constants.VoucherStatusValid, now)
		default:
			query = query.Where("status = ?", status)
		}
	}
	if filter.AffiliateID > 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.ProviderID > 0 {
		query = query.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.IssuedFrom != nil {
		query = query.Where("issued_at >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		query = query.Where("issued_at <= ?", *filter.IssuedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var vouchers []models.Voucher
	if err := query.Order("id desc").Find(&vouchers).Error; err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}

// MarkUsed 条件核销：仅当券仍为 valid 时置为 used
// 返回受影响行数，0 表示状态已被并发修改，由调用方判定语义。
func (r *GormVoucherRepository) MarkUsed(ctx context.Context, id uint, providerID uint, usedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if usedAt.IsZero() {
		usedAt = time.Now()
	}
	result := r.db.WithContext(ctx).Model(&models.Voucher{}).
		Where("id = ? AND status = ?", id, constants.VoucherStatusValid).
		Updates(map[string]interface{}{
			"status":              constants.VoucherStatusUsed,
			"used_at":             usedAt,
			"used_by_provider_id": providerID,
			"updated_at":          usedAt,
		})
	return result.RowsAffected, result.Error
}

// MarkCancelled 条件作废：仅当券仍为 valid 时置为 cancelled
func (r *GormVoucherRepository) MarkCancelled(ctx context.Context, id uint, actorID uint, cancelledAt time.Time) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if cancelledAt.IsZero() {
		cancelledAt = time.Now()
	}
	result := r.db.WithContext(ctx).Model(&models.Voucher{}).
		Where("id = ? AND status = ?", id, constants.VoucherStatusValid).
		Updates(map[string]interface{}{
			"status":                constants.VoucherStatusCancelled,
			"cancelled_at":          cancelledAt,
			"cancelled_by_actor_id": actorID,
			"updated_at":            cancelledAt,
		})
	return result.RowsAffected, result.Error
}
