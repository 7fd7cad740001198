package prestador

import (
	"errors"

	handlershared "github.com/bonosalud/bonos-api/internal/http/handlers/shared"
	"github.com/bonosalud/bonos-api/internal/http/response"
	"github.com/bonosalud/bonos-api/internal/service"

	"github.com/gin-gonic/gin"
)

// RedeemVoucherRequest 核销请求
type RedeemVoucherRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemVoucher 核销就诊券
// 说明：并发重复核销由数据层条件更新兜底，重复请求返回 already used。
func (h *Handler) RedeemVoucher(c *gin.Context) {
	actorID, ok := handlershared.GetContextUint(c, "actor_id")
	if !ok {
		return
	}
	var req RedeemVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	voucher, err := h.VoucherService.RedeemVoucher(c.Request.Context(), service.RedeemVoucherInput{
		ActorID: actorID,
		Code:    req.Code,
	})
	if err != nil {
		respondRedeemError(c, err)
		return
	}
	response.Success(c, gin.H{"voucher": voucher})
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondRedeemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVoucherInvalid):
		respondError(c, response.CodeBadRequest, "voucher code invalid", nil)
	case errors.Is(err, service.ErrVoucherNotFound):
		respondError(c, response.CodeNotFound, "voucher not found", nil)
	case errors.Is(err, service.ErrActorNotProvider):
		respondError(c, response.CodeForbidden, "actor has no provider profile", nil)
	case errors.Is(err, service.ErrVoucherWrongProvider):
		respondError(c, response.CodeConflict, "voucher belongs to another provider", nil)
	case errors.Is(err, service.ErrVoucherCancelled):
		respondError(c, response.CodeConflict, "voucher cancelled", nil)
	case errors.Is(err, service.ErrVoucherUsed):
		respondError(c, response.CodeConflict, "voucher already used", nil)
	case errors.Is(err, service.ErrVoucherExpired):
		respondError(c, response.CodeConflict, "voucher expired", nil)
	default:
		respondError(c, response.CodeInternal, "voucher redeem failed", err)
	}
}
