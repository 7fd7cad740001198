package public

import (
	"errors"

	handlershared "github.com/bonosalud/bonos-api/internal/http/handlers/shared"
	"github.com/bonosalud/bonos-api/internal/http/response"
	"github.com/bonosalud/bonos-api/internal/service"

	"github.com/gin-gonic/gin"
)

// VerifyVoucherRequest 验券请求
type VerifyVoucherRequest struct {
	Code  string `json:"code" binding:"required"`
	Token string `json:"token"`
}

// VerifyVoucher 验券
// 说明：未知码不是错误，结果为 not_found 时 found=false。
func (h *Handler) VerifyVoucher(c *gin.Context) {
	var req VerifyVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.VoucherService.VerifyVoucher(c.Request.Context(), service.VerifyVoucherInput{
		Code:      req.Code,
		Token:     req.Token,
		ActorID:   optionalActorID(c),
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: handlershared.GetContextString(c, "request_id"),
	})
	if err != nil {
		if errors.Is(err, service.ErrVoucherInvalid) {
			respondError(c, response.CodeBadRequest, "voucher code invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "voucher verify failed", err)
		return
	}
	response.Success(c, result)
}
