package staff

import "github.com/bonosalud/bonos-api/internal/provider"

// Handler 工作人员接口处理器入口
// 说明：该处理器仅用于 admin / recepcion 角色的开券与台账 API。
type Handler struct {
	*provider.Container
}

// New 创建工作人员处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
