package staff

import (
	"errors"

	"github.com/bonosalud/bonos-api/internal/http/response"
	"github.com/bonosalud/bonos-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var voucherIssueErrorRules = []mappedHandlerError{
	{target: service.ErrVoucherInvalid, code: response.CodeBadRequest, msg: "voucher input invalid"},
	{target: service.ErrAffiliateNotFound, code: response.CodeNotFound, msg: "affiliate not found"},
	{target: service.ErrProviderNotFound, code: response.CodeNotFound, msg: "provider not found"},
}

var voucherCancelErrorRules = []mappedHandlerError{
	{target: service.ErrVoucherNotFound, code: response.CodeNotFound, msg: "voucher not found"},
	{target: service.ErrVoucherUsed, code: response.CodeConflict, msg: "voucher already used"},
}

func respondVoucherIssueError(c *gin.Context, err error) {
	respondWithMappedError(c, err, voucherIssueErrorRules, response.CodeInternal, "voucher create failed")
}

func respondVoucherCancelError(c *gin.Context, err error) {
	respondWithMappedError(c, err, voucherCancelErrorRules, response.CodeInternal, "voucher cancel failed")
}
