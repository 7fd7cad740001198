package models

import "time"

// ScanRecord 验券记录
// 说明：仅对存在的券追加记录，验券查询本身永远不因记录失败而报错。
type ScanRecord struct {
	ID               uint      `gorm:"primarykey" json:"id"`                          // 主键
	VoucherID        uint      `gorm:"index;not null" json:"voucher_id"`              // 券ID
	Result           string    `gorm:"type:varchar(16);index;not null" json:"result"` // 验券结果（valid/used/expired/cancelled）
	ScannedByActorID *uint     `gorm:"index" json:"scanned_by_actor_id,omitempty"`    // 扫码人ID（匿名为空）
	ClientIP         string    `gorm:"type:varchar(64);index" json:"client_ip"`       // 客户端IP
	UserAgent        string    `gorm:"type:text" json:"user_agent"`                   // 客户端UA
	RequestID        string    `gorm:"type:varchar(64);index" json:"request_id"`      // 请求追踪ID
	ScannedAt        time.Time `gorm:"index;not null" json:"scanned_at"`              // 扫码时间
	CreatedAt        time.Time `json:"created_at"`                                    // 记录时间
}

// TableName 指定表名
func (ScanRecord) TableName() string {
	return "voucher_scan_records"
}
