package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPinger struct{ err error }

func (p staticPinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, h *HealthHandler, path string) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth_AllUp(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := NewHealthHandler("spring-backend", "1.2.3", staticPinger{},
		RedisPinger(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
		func() interface{} { return map[string]int{"calls": 4} })

	resp := get(t, h, "/healthz")
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "up", resp.DB)
	assert.Equal(t, "up", resp.Redis)
	assert.NotNil(t, resp.Gateway)
}

func TestHealth_Degraded(t *testing.T) {
	h := NewHealthHandler("spring-backend", "dev", nil, staticPinger{err: errors.New("refused")}, nil)

	resp := get(t, h, "/health")
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "disabled", resp.DB)
	assert.Equal(t, "down", resp.Redis)
	assert.Nil(t, resp.Gateway)
}
