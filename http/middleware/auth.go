package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/utils"
)

// AuthMiddleware validates the caller's JWT when a signing key is configured.
// Without one the upload endpoint is open, which is the expected setup when an
// upstream gateway already authenticates requests.
func AuthMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	if cfg.JWT.SecretKey == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := utils.ExtractToken(c)
		if tokenString == "" {
			utils.JSON401(c, "missing access token")
			c.Abort()
			return
		}

		token, err := utils.ParseToken(tokenString, cfg)
		if err != nil || !token.Valid {
			utils.JSON401(c, "invalid access token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.JSON401(c, "invalid token claims")
			c.Abort()
			return
		}
		if err := utils.InjectClaimsToContext(c, claims); err != nil {
			utils.JSON401(c, err.Error())
			c.Abort()
			return
		}

		c.Next()
	}
}
