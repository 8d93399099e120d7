package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/creator_match_api/internal/utils"
)

// RecoveryMiddleware turns a panic into a 500 INTERNAL_ERROR envelope.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("panic", fmt.Sprint(recovered)).
			Msg("Recovered from panic")

		utils.Error(c, http.StatusInternalServerError, utils.CodeInternal, "An internal error occurred")
		c.Abort()
	})
}
