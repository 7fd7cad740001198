package public

import (
	handlershared "github.com/bonosalud/bonos-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// optionalActorID 读取可选登录态：验券接口匿名也可用，带令牌时记录操作员。
func optionalActorID(c *gin.Context) *uint {
	value, exists := c.Get("actor_id")
	if !exists {
		return nil
	}
	if id, ok := value.(uint); ok && id > 0 {
		return &id
	}
	return nil
}
