package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deskbridge/internal/middleware"
	"deskbridge/internal/models"
	"deskbridge/internal/routes"
	"deskbridge/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.RegisterBridgeRoutes(r)
	routes.RegisterFSRoutes(r)
	routes.RegisterAuthRoutes(r, middleware.NewTokenRateLimiter())
	return r
}

func doRequest(r *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestGreetEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/bridge/greet?name=Ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Greeting string `json:"greeting"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "Hello, Ada! Welcome to DeskBridge.", body.Greeting)
}

func TestSystemEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/bridge/system", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var info models.SystemInfo
	decodeBody(t, rec, &info)
	assert.NotEmpty(t, info.OS)
	assert.NotEmpty(t, info.Arch)
	assert.NotEmpty(t, info.Family)
}

func TestHealthzEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDirectoryEndpoint(t *testing.T) {
	r := newTestRouter()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0755))

	rec := doRequest(r, http.MethodGet, "/fs/directory?path="+dir, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entries []models.DirectoryEntry `json:"entries"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "docs", body.Entries[0].Name)
	assert.Equal(t, "b.txt", body.Entries[1].Name)
}

func TestDirectoryEndpointMissingPathParam(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/fs/directory", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectoryEndpointNotFound(t *testing.T) {
	r := newTestRouter()
	missing := filepath.Join(t.TempDir(), "nope")

	rec := doRequest(r, http.MethodGet, "/fs/directory?path="+missing, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	assert.Contains(t, body.Error, "path does not exist")
}

func TestFileWriteReadRoundTripOverHTTP(t *testing.T) {
	r := newTestRouter()
	path := filepath.Join(t.TempDir(), "note.txt")

	payload, err := json.Marshal(models.FileContent{Path: path, Content: "first line\nsecond line"})
	require.NoError(t, err)

	rec := doRequest(r, http.MethodPost, "/fs/file", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(r, http.MethodGet, "/fs/file?path="+path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Content string `json:"content"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "first line\nsecond line", body.Content)
}

func TestFileWriteRejectsMalformedBody(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodPost, "/fs/file", []byte(`{"content": "no path"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHomeEndpoint(t *testing.T) {
	if _, err := os.UserHomeDir(); err != nil {
		t.Setenv("HOME", t.TempDir())
	}
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/fs/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Path string `json:"path"`
	}
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body.Path)
}

func TestTokenMintAndStatus(t *testing.T) {
	services.InitAuthService("0123456789abcdef0123456789abcdef", time.Hour)
	r := newTestRouter()

	rec := doRequest(r, http.MethodPost, "/auth/token?client=shell-test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var minted struct {
		Token  string `json:"token"`
		Client string `json:"client"`
	}
	decodeBody(t, rec, &minted)
	require.NotEmpty(t, minted.Token)
	assert.Equal(t, "shell-test", minted.Client)

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.Header.Set("Authorization", "Bearer "+minted.Token)
	statusRec := httptest.NewRecorder()
	r.ServeHTTP(statusRec, req)
	require.Equal(t, http.StatusOK, statusRec.Code)

	var status struct {
		Valid  bool   `json:"valid"`
		Client string `json:"client"`
	}
	decodeBody(t, statusRec, &status)
	assert.True(t, status.Valid)
	assert.Equal(t, "shell-test", status.Client)
}

func TestTokenMintRejectsBadClientName(t *testing.T) {
	services.InitAuthService("0123456789abcdef0123456789abcdef", time.Hour)
	r := newTestRouter()

	rec := doRequest(r, http.MethodPost, "/auth/token?client=bad%20name", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
