package service

import (
	"context"
	"strings"
	"time"

	"github.com/bonosalud/bonos-api/internal/config"
	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/models"
	"github.com/bonosalud/bonos-api/internal/queue"
	"github.com/bonosalud/bonos-api/internal/repository"
)

// VoucherService 就诊券服务
type VoucherService struct {
	cfg            *config.Config
	repo           repository.VoucherRepository
	scanRepo       repository.ScanRecordRepository
	unresolvedRepo repository.UnresolvedScanRepository
	affiliateRepo  repository.AffiliateRepository
	providerRepo   repository.ProviderRepository
	actorRepo      repository.ActorRepository
	queueClient    *queue.Client
}

// NewVoucherService 创建就诊券服务
func NewVoucherService(
	cfg *config.Config,
	repo repository.VoucherRepository,
	scanRepo repository.ScanRecordRepository,
	unresolvedRepo repository.UnresolvedScanRepository,
	affiliateRepo repository.AffiliateRepository,
	providerRepo repository.ProviderRepository,
	actorRepo repository.ActorRepository,
	queueClient *queue.Client,
) *VoucherService {
	return &VoucherService{
		cfg:            cfg,
		repo:           repo,
		scanRepo:       scanRepo,
		unresolvedRepo: unresolvedRepo,
		affiliateRepo:  affiliateRepo,
		providerRepo:   providerRepo,
		actorRepo:      actorRepo,
		queueClient:    queueClient,
	}
}

// IssueVoucherInput 开券输入
type IssueVoucherInput struct {
	AffiliateID     uint
	ProviderID      uint
	Practice        string
	AttentionDate   string
	VisitID         string
	Copay           *models.Money
	ExpiresAt       string
	IssuedByActorID uint
}

// VoucherListInput 就诊券列表输入
type VoucherListInput struct {
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

// IssueVoucher 开券
// 说明：参保人与服务机构的展示字段在此刻快照进券内，之后名录变更不影响已开的券。
func (s *VoucherService) IssueVoucher(ctx context.Context, input IssueVoucherInput) (*models.Voucher, error) {
	if s == nil || s.repo == nil {
		return nil, ErrVoucherCreateFailed
	}

	practice := strings.TrimSpace(input.Practice)
	if practice == "" || input.AffiliateID == 0 || input.ProviderID == 0 {
		return nil, ErrVoucherInvalid
	}

	affiliate, err := s.affiliateRepo.GetByID(ctx, input.AffiliateID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil || !affiliate.Active {
		return nil, ErrAffiliateNotFound
	}

	provider, err := s.providerRepo.GetByID(ctx, input.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil || !provider.Active {
		return nil, ErrProviderNotFound
	}

	now := time.Now()
	voucher := &models.Voucher{
		Status:            constants.VoucherStatusValid,
		AffiliateID:       affiliate.ID,
		ProviderID:        provider.ID,
		AffiliateName:     affiliate.Name,
		AffiliateDocument: affiliate.Document,
		ProviderName:      provider.Name,
		Practice:          practice,
		AttentionDate:     strings.TrimSpace(input.AttentionDate),
		VisitID:           strings.TrimSpace(input.VisitID),
		Copay:             input.Copay,
		IssuedByActorID:   input.IssuedByActorID,
		IssuedAt:          now,
		ExpiresAt:         s.resolveExpiry(now, input.ExpiresAt),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.createWithUniqueCode(ctx, voucher, now); err != nil {
		return nil, err
	}
	return voucher, nil
}

// resolveExpiry 解析过期时间：显式值可解析则照单采用（过去的时间开出即过期），
// 否则按默认有效期计算
func (s *VoucherService) resolveExpiry(issuedAt time.Time, raw string) time.Time {
	days := constants.VoucherDefaultValidityDays
	if s != nil && s.cfg != nil && s.cfg.Voucher.ValidityDays > 0 {
		days = s.cfg.Voucher.ValidityDays
	}
	fallback := issuedAt.AddDate(0, 0, days)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// createWithUniqueCode 生成券码并插入，码冲突时有限重试
// 说明：预检只是减少无谓写入，唯一索引才是防重的最终保证。
func (s *VoucherService) createWithUniqueCode(ctx context.Context, voucher *models.Voucher, now time.Time) error {
	prefix := constants.VoucherCodePrefix
	digits := constants.VoucherCodeDigits
	attempts := constants.VoucherCodeMaxAttempts
	if s.cfg != nil {
		if s.cfg.Voucher.CodePrefix != "" {
			prefix = s.cfg.Voucher.CodePrefix
		}
		if s.cfg.Voucher.CodeDigits > 0 {
			digits = s.cfg.Voucher.CodeDigits
		}
		if s.cfg.Voucher.CodeMaxAttempts > 0 {
			attempts = s.cfg.Voucher.CodeMaxAttempts
		}
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		code := generateVoucherCode(prefix, digits)
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		voucher.Code = code
		if err := s.repo.Create(ctx, voucher); err != nil {
			// 并发撞码时插入会被唯一索引拒绝，换码重试
			lastErr = err
			continue
		}
		return nil
	}

	voucher.Code = fallbackVoucherCode(prefix, now)
	if err := s.repo.Create(ctx, voucher); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}

// GetVoucher 查询就诊券详情
func (s *VoucherService) GetVoucher(ctx context.Context, id uint) (*models.Voucher, error) {
	if s == nil || s.repo == nil {
		return nil, ErrVoucherNotFound
	}
	voucher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	return voucher, nil
}

// ListVouchers 查询就诊券列表
func (s *VoucherService) ListVouchers(ctx context.Context, input VoucherListInput) ([]models.Voucher, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrVoucherNotFound
	}
	return s.repo.List(ctx, repository.VoucherListFilter{
		Code:        input.Code,
		Search:      input.Search,
		Status:      input.Status,
		AffiliateID: input.AffiliateID,
		ProviderID:  input.ProviderID,
		IssuedFrom:  input.IssuedFrom,
		IssuedTo:    input.IssuedTo,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
}

// ListScanRecords 查询某券的验券记录
func (s *VoucherService) ListScanRecords(ctx context.Context, voucherID uint, page, pageSize int) ([]models.ScanRecord, int64, error) {
	if s == nil || s.scanRepo == nil {
		return nil, 0, ErrVoucherNotFound
	}
	voucher, err := s.repo.GetByID(ctx, voucherID)
	if err != nil {
		return nil, 0, err
	}
	if voucher == nil {
		return nil, 0, ErrVoucherNotFound
	}
	return s.scanRepo.ListByVoucher(ctx, voucherID, page, pageSize)
}

// ListUnresolvedScans 查询未命中验券记录
func (s *VoucherService) ListUnresolvedScans(ctx context.Context, filter repository.UnresolvedScanListFilter) ([]models.UnresolvedScan, int64, error) {
	if s == nil || s.unresolvedRepo == nil {
		return nil, 0, ErrVoucherNotFound
	}
	return s.unresolvedRepo.List(ctx, filter)
}

// CancelVoucher 作废就诊券
// 说明：重复作废幂等返回；已核销的券不可作废。
func (s *VoucherService) CancelVoucher(ctx context.Context, id uint, actorID uint) (*models.Voucher, error) {
	if s == nil || s.repo == nil {
		return nil, ErrVoucherNotFound
	}
	voucher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	switch voucher.Status {
	case constants.VoucherStatusUsed:
		return nil, ErrVoucherUsed
	case constants.VoucherStatusCancelled:
		return voucher, nil
	}

	now := time.Now()
	rows, err := s.repo.MarkCancelled(ctx, id, actorID, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// 条件更新落空说明状态被并发改掉了，重读判定语义
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Status == constants.VoucherStatusCancelled {
			return current, nil
		}
		return nil, ErrVoucherUsed
	}

	voucher.Status = constants.VoucherStatusCancelled
	voucher.CancelledAt = &now
	voucher.CancelledByActorID = &actorID
	voucher.UpdatedAt = now
	return voucher, nil
}
