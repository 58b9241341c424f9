package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "wealth/internal/errors"
	"wealth/internal/logger"
)

// StorageUnavailable answers every request with 503. It guards the API
// routes while the process runs without a database handle.
func StorageUnavailable(cause error) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Warnw("rejected request, storage unavailable",
			"path", c.Request.URL.Path,
			"error", cause.Error(),
		)
		abortWithError(c, apperrors.ErrUnavailable)
	}
}
