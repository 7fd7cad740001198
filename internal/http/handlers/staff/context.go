package staff

import (
	handlershared "github.com/bonosalud/bonos-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getActorID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "actor_id")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
