package controller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegandiet705/next-upload/config"
	"github.com/vegandiet705/next-upload/infra"
	"github.com/vegandiet705/next-upload/provider"
	"github.com/vegandiet705/next-upload/repository"
)

type stubStorage struct {
	objects map[string]bool
}

func (s *stubStorage) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return true, nil
}

func (s *stubStorage) MakeBucket(ctx context.Context, bucket string) error {
	return nil
}

func (s *stubStorage) StatObject(ctx context.Context, bucket, key string) (bool, error) {
	return s.objects[bucket+"/"+key], nil
}

func (s *stubStorage) RemoveObject(ctx context.Context, bucket, key string) error {
	delete(s.objects, bucket+"/"+key)
	return nil
}

func (s *stubStorage) PresignedPostPolicy(ctx context.Context, input infra.PostPolicyInput) (string, map[string]string, error) {
	return "https://storage.local/" + input.Bucket, map[string]string{"key": input.Key}, nil
}

func newTestController(t *testing.T) (*Controller, *stubStorage) {
	t.Helper()

	envConfig := &config.EnvConfig{}
	envConfig.DeploymentHost = "localhost"
	envConfig.Environment.Mode = "test"
	envConfig.Upload.APIPath = "/upload"
	envConfig.Upload.MaxSize = 10 << 20
	envConfig.Upload.ExpirySeconds = 120
	envConfig.Upload.VerifyAssets = true
	envConfig.Upload.Types = map[string]config.UploadTypeConfig{
		config.DefaultUploadType: {},
	}
	cfg := &config.Config{EnvConfig: envConfig}

	logger := &infra.LoggerClient{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	infraInstance := &infra.Infra{Logger: logger}

	repo := &repository.Repository{
		AssetRepo: repository.NewAssetRepository(repository.NewMemoryKV(), "next-upload-localhost-test"),
	}

	storage := &stubStorage{objects: make(map[string]bool)}
	prov := provider.NewUploadProvider(envConfig, repo.AssetRepo, storage, logger)
	require.NoError(t, prov.Init(context.Background()))

	return NewController(cfg, infraInstance, repo, prov), storage
}

func uploadRequest(t *testing.T, ctrl *Controller, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/upload", ctrl.HandleUploadAction)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandleUploadActionGeneratePolicy(t *testing.T) {
	ctrl, _ := newTestController(t)

	w := uploadRequest(t, ctrl, `{"action":"generatePresignedPostPolicy","args":{"id":"a1","metadata":{"foo":"bar"}}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var policy provider.SignedPostPolicy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &policy))
	assert.Equal(t, "a1", policy.ID)
	assert.Equal(t, "https://storage.local/localhost-test", policy.URL)
	assert.Equal(t, "default/a1", policy.Data["key"])
}

func TestHandleUploadActionDuplicateID(t *testing.T) {
	ctrl, _ := newTestController(t)

	w := uploadRequest(t, ctrl, `{"action":"generatePresignedPostPolicy","args":{"id":"a1"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = uploadRequest(t, ctrl, `{"action":"generatePresignedPostPolicy","args":{"id":"a1"}}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "a1 already exists")
}

func TestHandleUploadActionUnknownType(t *testing.T) {
	ctrl, _ := newTestController(t)

	w := uploadRequest(t, ctrl, `{"action":"generatePresignedPostPolicy","args":{"type":"nope"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUploadActionVerify(t *testing.T) {
	ctrl, storage := newTestController(t)

	w := uploadRequest(t, ctrl, `{"action":"generatePresignedPostPolicy","args":{"id":"a1"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = uploadRequest(t, ctrl, `{"action":"verifyAsset","args":{"id":"a1"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verified":false`)

	storage.objects["localhost-test/default/a1"] = true

	w = uploadRequest(t, ctrl, `{"action":"verifyAsset","args":{"id":"a1"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verified":true`)
}

func TestHandleUploadActionVerifyMissing(t *testing.T) {
	ctrl, _ := newTestController(t)

	w := uploadRequest(t, ctrl, `{"action":"verifyAsset","args":{"id":"nope"}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = uploadRequest(t, ctrl, `{"action":"verifyAsset","args":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUploadActionUnknownAction(t *testing.T) {
	ctrl, _ := newTestController(t)

	w := uploadRequest(t, ctrl, `{"action":"selfDestruct"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
