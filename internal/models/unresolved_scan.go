package models

import "time"

// UnresolvedScan 未命中验券记录
// 说明：被扫描但在券表中不存在的码无法外键到券，单独记账备查。
type UnresolvedScan struct {
	ID        uint      `gorm:"primarykey" json:"id"`                        // 主键
	Code      string    `gorm:"type:varchar(64);index;not null" json:"code"` // 被扫描的原始码
	ClientIP  string    `gorm:"type:varchar(64);index" json:"client_ip"`     // 客户端IP
	UserAgent string    `gorm:"type:text" json:"user_agent"`                 // 客户端UA
	RequestID string    `gorm:"type:varchar(64);index" json:"request_id"`    // 请求追踪ID
	ScannedAt time.Time `gorm:"index;not null" json:"scanned_at"`            // 扫码时间
	CreatedAt time.Time `json:"created_at"`                                  // 记录时间
}

// TableName 指定表名
func (UnresolvedScan) TableName() string {
	return "voucher_unresolved_scans"
}
