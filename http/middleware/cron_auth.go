package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/utils"
)

const cronTimestampSkew = 5 * time.Minute

// CronAuthMiddleware guards the prune trigger. A scheduler may pass the shared
// key as a query parameter, or sign the request with HMAC-SHA256 over
// METHOD\nPATH\nTIMESTAMP in the X-Signature and X-Timestamp headers.
func CronAuthMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.CronKey == "" {
			utils.JSON401(c, "cron endpoint is not configured")
			c.Abort()
			return
		}

		if key := c.Query("key"); key != "" {
			if !utils.SecureCompare(key, cfg.CronKey) {
				utils.JSON401(c, "invalid cron key")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		signature := c.GetHeader("X-Signature")
		timestampHeader := c.GetHeader("X-Timestamp")
		if signature == "" || timestampHeader == "" {
			utils.JSON401(c, "missing cron credentials")
			c.Abort()
			return
		}

		timestamp, err := strconv.ParseInt(timestampHeader, 10, 64)
		if err != nil {
			utils.JSON401(c, "invalid timestamp")
			c.Abort()
			return
		}
		if utils.Abs(time.Now().Unix()-timestamp) > int64(cronTimestampSkew.Seconds()) {
			utils.JSON401(c, "timestamp out of range")
			c.Abort()
			return
		}

		expected := utils.ComputeHMACSHA256(cfg.CronKey, utils.BuildStringToSign(c.Request.Method, c.Request.URL.Path, timestamp))
		if !utils.SecureCompare(signature, expected) {
			utils.JSON401(c, "invalid signature")
			c.Abort()
			return
		}

		c.Next()
	}
}
