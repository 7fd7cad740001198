package staff

import (
	"strconv"
	"strings"

	"github.com/bonosalud/bonos-api/internal/http/response"
	"github.com/bonosalud/bonos-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetUnresolvedScans 未命中验券台账（仅 admin）
func (h *Handler) GetUnresolvedScans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	scans, total, err := h.VoucherService.ListUnresolvedScans(c.Request.Context(), repository.UnresolvedScanListFilter{
		Code:     strings.TrimSpace(c.Query("code")),
		ClientIP: strings.TrimSpace(c.Query("client_ip")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "unresolved scan fetch failed", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"scans": scans}, buildPagination(page, pageSize, total))
}
