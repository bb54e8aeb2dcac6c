package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"simrover-go/internal/config"
)

func TestHandleConfig(t *testing.T) {
	srv := &Server{
		cfg: config.AppConfig{
			Endpoint:     "tcp://localhost:19999",
			CameraSignal: "Sensors",
			Threshold:    40,
			Rate:         50 * time.Millisecond,
			Port:         9999,
		},
	}

	req := httptest.NewRequest("GET", "/config", nil)
	rec := httptest.NewRecorder()
	srv.handleConfig(rec, req)

	if rec.Code != 200 {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if payload["camera_signal"].(string) != "Sensors" {
		t.Fatalf("unexpected camera_signal: %v", payload["camera_signal"])
	}
	if payload["threshold"].(float64) != 40 {
		t.Fatalf("unexpected threshold: %v", payload["threshold"])
	}
	if payload["port"].(float64) != 9999 {
		t.Fatalf("unexpected port: %v", payload["port"])
	}
}

func TestHandleStatusAddsClientCount(t *testing.T) {
	srv := &Server{
		statusFn: func() map[string]any {
			return map[string]any{"metrics": map[string]any{"cycles_total": 3}}
		},
	}

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	srv.handleStatus(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	metrics, ok := payload["metrics"].(map[string]any)
	if !ok {
		t.Fatalf("missing metrics: %v", payload)
	}
	if metrics["ws_clients"].(float64) != 0 {
		t.Fatalf("unexpected ws_clients: %v", metrics["ws_clients"])
	}
}
