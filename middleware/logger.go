package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const REQUEST_ID_KEY = "requestId"

// RequestLogger tags every request with an id and emits one structured line
// per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := uuid.NewString()
		c.Set(REQUEST_ID_KEY, requestId)
		c.Header("X-Request-Id", requestId)

		start := time.Now()
		c.Next()

		event := log.Info()
		if len(c.Errors) > 0 || c.Writer.Status() >= 500 {
			event = log.Error()
		}
		event.
			Str("request_id", requestId).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Int64("person_id", GetPersonIdMaybe(c)).
			Msg("request")
	}
}
