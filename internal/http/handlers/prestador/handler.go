package prestador

import "github.com/bonosalud/bonos-api/internal/provider"

// Handler 服务机构端处理器入口
// 说明：该处理器仅用于 prestador 角色的核销 API。
type Handler struct {
	*provider.Container
}

// New 创建服务机构端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
