package service

import (
	"context"
	"strings"
	"time"

	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/logger"
	"github.com/bonosalud/bonos-api/internal/models"
	"github.com/bonosalud/bonos-api/internal/queue"
)

// VerifyVoucherInput 验券输入
type VerifyVoucherInput struct {
	Code      string
	Token     string // 预留的出示令牌字段，当前不参与判定
	ActorID   *uint
	ClientIP  string
	UserAgent string
	RequestID string
}

// VoucherSummary 验券响应中的券面信息
type VoucherSummary struct {
	Code          string        `json:"code"`
	AffiliateName string        `json:"affiliate_name"`
	ProviderName  string        `json:"provider_name"`
	Practice      string        `json:"practice"`
	AttentionDate string        `json:"attention_date,omitempty"`
	Copay         *models.Money `json:"copay,omitempty"`
	IssuedAt      time.Time     `json:"issued_at"`
	ExpiresAt     time.Time     `json:"expires_at"`
	UsedAt        *time.Time    `json:"used_at,omitempty"`
}

// VerifyVoucherResult 验券结果
// Success 只在券当场可用（result=valid）时为真；Found 表示码存在，两者语义不同。
type VerifyVoucherResult struct {
	Success bool            `json:"success"`
	Found   bool            `json:"found"`
	Result  string          `json:"result"`
	Voucher *VoucherSummary `json:"voucher,omitempty"`
}

// VerifyVoucher 验券
// 说明：对未知码不报错，只返回 not_found；所有旁路记账都是尽力而为，
// 记账失败只记日志，绝不影响验券响应。
func (s *VoucherService) VerifyVoucher(ctx context.Context, input VerifyVoucherInput) (*VerifyVoucherResult, error) {
	if s == nil || s.repo == nil {
		return nil, ErrVoucherInvalid
	}
	code := strings.TrimSpace(strings.ToUpper(input.Code))
	if code == "" {
		return nil, ErrVoucherInvalid
	}
	_ = input.Token

	now := time.Now()
	voucher, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		s.recordUnresolvedScan(ctx, code, input, now)
		return &VerifyVoucherResult{Success: false, Found: false, Result: constants.ScanResultNotFound}, nil
	}

	result := classifyVoucherState(voucher, now)
	s.recordScan(ctx, voucher.ID, result, input, now)

	return &VerifyVoucherResult{
		Success: result == constants.ScanResultValid,
		Found:   true,
		Result:  result,
		Voucher: &VoucherSummary{
			Code:          voucher.Code,
			AffiliateName: voucher.AffiliateName,
			ProviderName:  voucher.ProviderName,
			Practice:      voucher.Practice,
			AttentionDate: voucher.AttentionDate,
			Copay:         voucher.Copay,
			IssuedAt:      voucher.IssuedAt,
			ExpiresAt:     voucher.ExpiresAt,
			UsedAt:        voucher.UsedAt,
		},
	}, nil
}

// classifyVoucherState 判定呈现状态，优先级 cancelled > used > expired > valid
func classifyVoucherState(voucher *models.Voucher, now time.Time) string {
	switch voucher.Status {
	case constants.VoucherStatusCancelled:
		return constants.ScanResultCancelled
	case constants.VoucherStatusUsed:
		return constants.ScanResultUsed
	}
	if voucher.IsExpiredAt(now) {
		return constants.ScanResultExpired
	}
	return constants.ScanResultValid
}

// recordScan 追加验券记录（尽力而为）
func (s *VoucherService) recordScan(ctx context.Context, voucherID uint, result string, input VerifyVoucherInput, now time.Time) {
	if s.scanRepo == nil {
		return
	}
	record := &models.ScanRecord{
		VoucherID:        voucherID,
		Result:           result,
		ScannedByActorID: input.ActorID,
		ClientIP:         input.ClientIP,
		UserAgent:        input.UserAgent,
		RequestID:        input.RequestID,
		ScannedAt:        now,
	}
	if err := s.scanRepo.Create(ctx, record); err != nil {
		logger.Warnw("voucher_scan_record_failed",
			"voucher_id", voucherID,
			"result", result,
			"error", err,
		)
	}
}

// recordUnresolvedScan 落账未命中码：队列可用时异步，否则同步尽力写入
func (s *VoucherService) recordUnresolvedScan(ctx context.Context, code string, input VerifyVoucherInput, now time.Time) {
	payload := queue.UnresolvedScanPayload{
		Code:      code,
		ClientIP:  input.ClientIP,
		UserAgent: input.UserAgent,
		RequestID: input.RequestID,
		ScannedAt: now,
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueUnresolvedScan(payload)
		if err == nil {
			return
		}
		logger.Warnw("voucher_unresolved_scan_enqueue_failed", "code", code, "error", err)
	}
	if s.unresolvedRepo == nil {
		return
	}
	if err := s.unresolvedRepo.Create(ctx, &models.UnresolvedScan{
		Code:      code,
		ClientIP:  input.ClientIP,
		UserAgent: input.UserAgent,
		RequestID: input.RequestID,
		ScannedAt: now,
	}); err != nil {
		logger.Warnw("voucher_unresolved_scan_record_failed", "code", code, "error", err)
	}
}
