package models

import "time"

// Voucher 就诊券
// 说明：状态机只持久化 valid/used/cancelled 三种状态；
// 过期是根据 expires_at 派生的呈现状态，任何写路径都不会落盘 expired。
type Voucher struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                                          // 主键
	Code               string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`             // 券码（唯一索引为最终保证）
	Status             string     `gorm:"type:varchar(16);index;not null;default:'valid'" json:"status"` // 状态（valid/used/cancelled）
	AffiliateID        uint       `gorm:"index;not null" json:"affiliate_id"`                            // 参保人ID
	ProviderID         uint       `gorm:"index;not null" json:"provider_id"`                             // 服务机构ID
	AffiliateName      string     `gorm:"type:varchar(120);not null" json:"affiliate_name"`              // 参保人姓名快照（开券时冻结）
	AffiliateDocument  string     `gorm:"type:varchar(32);not null" json:"affiliate_document"`           // 参保人证件号快照
	ProviderName       string     `gorm:"type:varchar(120);not null" json:"provider_name"`               // 服务机构名称快照
	Practice           string     `gorm:"type:varchar(128);not null" json:"practice"`                    // 诊疗项目
	AttentionDate      string     `gorm:"type:varchar(64)" json:"attention_date"`                        // 就诊日期（原样保存的自由文本）
	VisitID            string     `gorm:"type:varchar(64)" json:"visit_id,omitempty"`                    // 外部就诊单号
	Copay              *Money     `gorm:"type:decimal(20,2)" json:"copay,omitempty"`                     // 自付金额
	IssuedByActorID    uint       `gorm:"index" json:"issued_by_actor_id"`                               // 开券人ID
	IssuedAt           time.Time  `gorm:"index;not null" json:"issued_at"`                               // 开券时间
	ExpiresAt          time.Time  `gorm:"index;not null" json:"expires_at"`                              // 过期时间
	UsedAt             *time.Time `gorm:"index" json:"used_at,omitempty"`                                // 核销时间
	UsedByProviderID   *uint      `gorm:"index" json:"used_by_provider_id,omitempty"`                    // 核销机构ID
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`                                        // 作废时间
	CancelledByActorID *uint      `json:"cancelled_by_actor_id,omitempty"`                               // 作废操作人ID
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt          time.Time  `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (Voucher) TableName() string {
	return "vouchers"
}

// IsExpiredAt 判断在给定时刻是否已过期（派生状态）
func (v *Voucher) IsExpiredAt(now time.Time) bool {
	if v == nil || v.ExpiresAt.IsZero() {
		return false
	}
	return now.After(v.ExpiresAt)
}
