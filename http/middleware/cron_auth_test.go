package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/utils"
)

func cronTestRouter(cronKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.EnvConfig{}
	cfg.CronKey = cronKey

	r := gin.New()
	r.GET("/cron/prune", CronAuthMiddleware(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestCronAuthKey(t *testing.T) {
	router := cronTestRouter("topsecret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/prune?key=topsecret", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/cron/prune?key=wrong", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCronAuthSignature(t *testing.T) {
	router := cronTestRouter("topsecret")

	timestamp := time.Now().Unix()
	signature := utils.ComputeHMACSHA256("topsecret", utils.BuildStringToSign(http.MethodGet, "/cron/prune", timestamp))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/prune", nil)
	req.Header.Set("X-Signature", signature)
	req.Header.Set("X-Timestamp", fmt.Sprintf("%d", timestamp))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCronAuthStaleTimestamp(t *testing.T) {
	router := cronTestRouter("topsecret")

	timestamp := time.Now().Add(-time.Hour).Unix()
	signature := utils.ComputeHMACSHA256("topsecret", utils.BuildStringToSign(http.MethodGet, "/cron/prune", timestamp))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/prune", nil)
	req.Header.Set("X-Signature", signature)
	req.Header.Set("X-Timestamp", fmt.Sprintf("%d", timestamp))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCronAuthMissingCredentials(t *testing.T) {
	router := cronTestRouter("topsecret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/prune", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCronAuthUnconfigured(t *testing.T) {
	router := cronTestRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/prune?key=anything", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
