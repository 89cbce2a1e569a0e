//go:build e2e

package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Требует полностью запущенного окружения:
//
//	docker compose up -d
//	go test -tags=e2e ./worker-service/tests/e2e/...
func baseURL() string {
	if url := os.Getenv("WORKER_SERVICE_URL"); url != "" {
		return url
	}
	return "http://localhost:8083"
}

func TestHealthEndpoint(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(baseURL() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))

	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Checks["postgres"])
	assert.Equal(t, "healthy", health.Checks["mongodb"])
}

func TestLivenessAndReadiness(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	for _, path := range []string{"/health/liveness", "/health/readiness"} {
		resp, err := client.Get(baseURL() + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(baseURL() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Воркер делает первый проход аудита сразу при старте
	assert.True(t, strings.Contains(string(body), "worker_audit_sweep_duration_seconds"))
}
