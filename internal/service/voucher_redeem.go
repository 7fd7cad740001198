package service

import (
	"context"
	"strings"
	"time"

	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/logger"
	"github.com/bonosalud/bonos-api/internal/models"
)

// RedeemVoucherInput 核销输入
type RedeemVoucherInput struct {
	ActorID uint
	Code    string
}

// RedeemVoucher 核销就诊券
// 前置校验顺序固定：存在 → 归属 → 未作废 → 未核销 → 未过期。
// 真正的一次性保证来自条件更新：只有仍为 valid 的行才会被置为 used，
// 受影响行数为 0 即判定为已被并发核销。
func (s *VoucherService) RedeemVoucher(ctx context.Context, input RedeemVoucherInput) (*models.Voucher, error) {
	if s == nil || s.repo == nil || s.actorRepo == nil {
		return nil, ErrVoucherNotFound
	}

	code := strings.TrimSpace(strings.ToUpper(input.Code))
	if code == "" {
		return nil, ErrVoucherInvalid
	}

	actor, err := s.actorRepo.GetByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrActorNotFound
	}
	if actor.ProviderID == nil || *actor.ProviderID == 0 {
		return nil, ErrActorNotProvider
	}
	providerID := *actor.ProviderID

	voucher, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	if voucher.ProviderID != providerID {
		return nil, ErrVoucherWrongProvider
	}
	switch voucher.Status {
	case constants.VoucherStatusCancelled:
		return nil, ErrVoucherCancelled
	case constants.VoucherStatusUsed:
		return nil, ErrVoucherUsed
	}

	now := time.Now()
	if voucher.IsExpiredAt(now) {
		return nil, ErrVoucherExpired
	}

	rows, err := s.repo.MarkUsed(ctx, voucher.ID, providerID, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// 读到的还是 valid 但更新落空，说明被并发核销或作废抢先
		current, err := s.repo.GetByID(ctx, voucher.ID)
		if err == nil && current != nil && current.Status == constants.VoucherStatusCancelled {
			return nil, ErrVoucherCancelled
		}
		return nil, ErrVoucherUsed
	}

	logger.Infow("voucher_redeemed",
		"voucher_id", voucher.ID,
		"code", voucher.Code,
		"provider_id", providerID,
		"actor_id", input.ActorID,
	)

	voucher.Status = constants.VoucherStatusUsed
	voucher.UsedAt = &now
	voucher.UsedByProviderID = &providerID
	voucher.UpdatedAt = now
	return voucher, nil
}
