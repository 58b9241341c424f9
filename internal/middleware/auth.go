package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "wealth/internal/errors"
	"wealth/internal/identity"
	"wealth/internal/logger"
	"wealth/internal/models"
)

// Context keys set by the identity middlewares.
const (
	IdentityKey = "identity"
	UserIDKey   = "userID"
)

// UserChecker resolves, and on first sight provisions, the caller's user
// record. It reports absence instead of failing.
type UserChecker interface {
	CheckUser(ctx context.Context, ident *identity.Identity) (*models.User, bool)
}

// RequireIdentity verifies the caller's session with the identity provider
// and puts the identity on both the gin and the request context.
func RequireIdentity(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := provider.Authenticate(c.Request)
		if err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				appErr = apperrors.Wrap(apperrors.ErrInvalidToken, err)
			}
			if appErr.Internal != nil {
				logger.FromContext(c.Request.Context()).Infow("rejected session token", "error", appErr.Internal.Error())
			}
			abortWithError(c, appErr)
			return
		}
		if ident == nil {
			abortWithError(c, apperrors.ErrUnauthenticated)
			return
		}

		c.Set(IdentityKey, ident)
		c.Request = c.Request.WithContext(identity.NewContext(c.Request.Context(), ident))
		c.Next()
	}
}

// ProvisionUser makes sure a user record exists for the verified identity.
// Resolution failures are logged by the checker and the request continues;
// operations that need the record report its absence themselves.
func ProvisionUser(checker UserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := identity.FromContext(c.Request.Context())
		if ident == nil {
			c.Next()
			return
		}
		if user, ok := checker.CheckUser(c.Request.Context(), ident); ok {
			c.Set(UserIDKey, user.ID)
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
