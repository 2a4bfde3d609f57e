package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetbase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopHeartbeat struct{}

func (nopHeartbeat) Send(ctx context.Context, payload []byte) error { return nil }
func (nopHeartbeat) Close() error                                   { return nil }

type nopControl struct{}

func (nopControl) Receive(ctx context.Context) ([]byte, error) { return nil, context.Canceled }
func (nopControl) Close() error                                { return nil }

func setupRouter(svc *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewStatusHandler(svc)
	engine.GET("/healthz", h.Healthz)
	engine.GET("/v1/status", h.Status)
	return engine
}

func TestStatusHandler_Status(t *testing.T) {
	svc := service.New("w1", service.BaseBody{}, nopHeartbeat{}, nopControl{})
	engine := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "w1", body["sid"])
	assert.Equal(t, "init", body["state"])
}

func TestStatusHandler_StatusTracksTransitions(t *testing.T) {
	svc := service.New("w1", service.BaseBody{}, nopHeartbeat{}, nopControl{})
	engine := setupRouter(svc)

	require.NoError(t, svc.Run(context.Background()))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "started", body["state"])
}

func TestStatusHandler_Healthz(t *testing.T) {
	svc := service.New("w1", service.BaseBody{}, nopHeartbeat{}, nopControl{})
	engine := setupRouter(svc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
