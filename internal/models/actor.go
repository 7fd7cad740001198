package models

import "time"

// Actor 操作员
// 说明：身份令牌由统一登录系统签发，本服务只按 claims 中的
// actor_id 反查此表做存在性与角色校验；prestador 角色必须绑定机构。
type Actor struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                  // 主键
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"` // 用户名
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`                   // 密码哈希（bcrypt）
	Role         string    `gorm:"type:varchar(16);index;not null" json:"role"`           // 角色（admin/recepcion/prestador）
	ProviderID   *uint     `gorm:"index" json:"provider_id,omitempty"`                    // 绑定的服务机构ID（prestador 必填）
	Active       bool      `gorm:"index;not null;default:true" json:"active"`             // 是否启用
	TokenVersion int       `gorm:"not null;default:0" json:"-"`                           // 令牌版本（吊销用）
	CreatedAt    time.Time `json:"created_at"`                                            // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (Actor) TableName() string {
	return "actors"
}
