package staff

import (
	"strconv"
	"strings"
	"time"

	"github.com/bonosalud/bonos-api/internal/http/response"
	"github.com/bonosalud/bonos-api/internal/models"
	"github.com/bonosalud/bonos-api/internal/service"

	"github.com/gin-gonic/gin"
)

// IssueVoucherRequest 开券请求
type IssueVoucherRequest struct {
	AffiliateID   uint   `json:"affiliate_id" binding:"required"`
	ProviderID    uint   `json:"provider_id" binding:"required"`
	Practice      string `json:"practice" binding:"required"`
	AttentionDate string `json:"attention_date"`
	VisitID       string `json:"visit_id"`
	Copay         string `json:"copay"`
	ExpiresAt     string `json:"expires_at"`
}

type staffVoucherItem struct {
	models.Voucher
	IsExpired bool `json:"is_expired"`
}

func newStaffVoucherItem(voucher models.Voucher, now time.Time) staffVoucherItem {
	return staffVoucherItem{
		Voucher:   voucher,
		IsExpired: voucher.IsExpiredAt(now),
	}
}

// IssueVoucher 工作人员开券
func (h *Handler) IssueVoucher(c *gin.Context) {
	actorID, ok := getActorID(c)
	if !ok {
		return
	}
	var req IssueVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	copay, err := models.ParseCopay(req.Copay)
	if err != nil {
		respondError(c, response.CodeBadRequest, "copay invalid", err)
		return
	}

	voucher, err := h.VoucherService.IssueVoucher(c.Request.Context(), service.IssueVoucherInput{
		AffiliateID:     req.AffiliateID,
		ProviderID:      req.ProviderID,
		Practice:        req.Practice,
		AttentionDate:   req.AttentionDate,
		VisitID:         req.VisitID,
		Copay:           copay,
		ExpiresAt:       req.ExpiresAt,
		IssuedByActorID: actorID,
	})
	if err != nil {
		respondVoucherIssueError(c, err)
		return
	}
	response.Success(c, gin.H{
		"voucher": newStaffVoucherItem(*voucher, time.Now()),
	})
}

// GetVouchers 就诊券列表
func (h *Handler) GetVouchers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	code := strings.TrimSpace(c.Query("code"))
	search := strings.TrimSpace(c.Query("search"))
	status := strings.TrimSpace(strings.ToLower(c.Query("status")))

	affiliateID, ok := parseUintQuery(c, "affiliate_id")
	if !ok {
		return
	}
	providerID, ok := parseUintQuery(c, "provider_id")
	if !ok {
		return
	}

	issuedFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("issued_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "issued_from invalid", err)
		return
	}
	issuedTo, err := parseTimeNullable(strings.TrimSpace(c.Query("issued_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "issued_to invalid", err)
		return
	}

	vouchers, total, err := h.VoucherService.ListVouchers(c.Request.Context(), service.VoucherListInput{
		Code:        code,
		Search:      search,
		Status:      status,
		AffiliateID: affiliateID,
		ProviderID:  providerID,
		IssuedFrom:  issuedFrom,
		IssuedTo:    issuedTo,
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "voucher fetch failed", err)
		return
	}

	now := time.Now()
	items := make([]staffVoucherItem, 0, len(vouchers))
	for _, voucher := range vouchers {
		items = append(items, newStaffVoucherItem(voucher, now))
	}

	response.SuccessWithPage(c, gin.H{"vouchers": items}, buildPagination(page, pageSize, total))
}

// GetVoucher 就诊券详情
func (h *Handler) GetVoucher(c *gin.Context) {
	voucherID, ok := parseVoucherID(c)
	if !ok {
		return
	}
	voucher, err := h.VoucherService.GetVoucher(c.Request.Context(), voucherID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrVoucherNotFound, code: response.CodeNotFound, msg: "voucher not found"},
		}, response.CodeInternal, "voucher fetch failed")
		return
	}
	response.Success(c, gin.H{
		"voucher": newStaffVoucherItem(*voucher, time.Now()),
	})
}

// GetVoucherScans 就诊券验券记录
func (h *Handler) GetVoucherScans(c *gin.Context) {
	voucherID, ok := parseVoucherID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	records, total, err := h.VoucherService.ListScanRecords(c.Request.Context(), voucherID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrVoucherNotFound, code: response.CodeNotFound, msg: "voucher not found"},
		}, response.CodeInternal, "scan record fetch failed")
		return
	}

	response.SuccessWithPage(c, gin.H{"scans": records}, buildPagination(page, pageSize, total))
}

// CancelVoucher 作废就诊券（重复作废按幂等处理）
func (h *Handler) CancelVoucher(c *gin.Context) {
	actorID, ok := getActorID(c)
	if !ok {
		return
	}
	voucherID, ok := parseVoucherID(c)
	if !ok {
		return
	}

	voucher, err := h.VoucherService.CancelVoucher(c.Request.Context(), voucherID, actorID)
	if err != nil {
		respondVoucherCancelError(c, err)
		return
	}
	response.Success(c, gin.H{
		"voucher": newStaffVoucherItem(*voucher, time.Now()),
	})
}

func parseVoucherID(c *gin.Context) (uint, bool) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, response.CodeBadRequest, "voucher id invalid", err)
		return 0, false
	}
	return uint(parsed), true
}

func parseUintQuery(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, response.CodeBadRequest, key+" invalid", err)
		return 0, false
	}
	return uint(parsed), true
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
