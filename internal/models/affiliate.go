package models

import "time"

// Affiliate 参保人
// 说明：名录数据由种子脚本或外部系统同步，本服务只读；
// 开券时将展示字段快照进券内，之后名录变更不回写已开的券。
type Affiliate struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                  // 主键
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`                // 姓名
	Document  string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"document"` // 证件号
	Plan      string    `gorm:"type:varchar(64)" json:"plan"`                          // 参保计划
	Active    bool      `gorm:"index;not null;default:true" json:"active"`             // 是否在保
	CreatedAt time.Time `json:"created_at"`                                            // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (Affiliate) TableName() string {
	return "affiliates"
}
