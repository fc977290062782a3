package mw

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"asset-tracking-backend/internal/apperr"
)

// Recovery turns panics into a generic 500 and logs the details.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		fields := []zap.Field{
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Stack("stack"),
		}
		if u := Caller(c); u != nil {
			fields = append(fields, zap.Int64("user_id", u.ID))
		}
		log.Error("panic recovered", fields...)

		abortWith(c, apperr.Internal("panic", err))
	})
}
