package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loggpt/components-room/internal/common"
)

// Recovery turns panics into the standard error envelope instead of gin's
// plain 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				common.Fail(c, http.StatusInternalServerError, 50000, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
