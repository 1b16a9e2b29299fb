// internal/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/utils"
)

// AuthRequired verifies the bearer token and stores the principal under
// "user_id" and the full claim set under "claims".
func AuthRequired(verifier *utils.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := utils.ParseBearer(c.GetHeader("Authorization"))
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			if ae, ok := apperrors.As(err); ok {
				logrus.WithFields(logrus.Fields{
					"reason": ae.Reason,
					"path":   c.Request.URL.Path,
					"ip":     c.ClientIP(),
				}).Debug("Rejected bearer token")
			}
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", claims.Subject)
		c.Set("claims", claims.Claims)
		c.Next()
	}
}
