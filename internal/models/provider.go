package models

import "time"

// Provider 服务机构（prestador）
type Provider struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                // 主键
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`              // 机构名称
	TaxID     string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"tax_id"` // 税号
	Specialty string    `gorm:"type:varchar(64)" json:"specialty"`                   // 专科
	Active    bool      `gorm:"index;not null;default:true" json:"active"`           // 是否启用
	CreatedAt time.Time `json:"created_at"`                                          // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                          // 更新时间
}

// TableName 指定表名
func (Provider) TableName() string {
	return "providers"
}
