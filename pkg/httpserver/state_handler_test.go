package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/mselser95/game-actions/pkg/latency"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

type fakeProviders struct {
	state types.PlayerState
	stats latency.Snapshot
}

func (f *fakeProviders) StateSnapshot() types.PlayerState { return f.state }
func (f *fakeProviders) LatencyStats() latency.Snapshot   { return f.stats }

func TestHandleState(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	providers := &fakeProviders{
		state: types.PlayerState{
			Cash:     4.0,
			Quantity: 0.01,
			GameID:   "g-1",
		},
	}

	handler := NewStateHandler(providers, providers, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()

	handler.HandleState(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got types.PlayerState
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if got.Cash != 4.0 || got.Quantity != 0.01 || got.GameID != "g-1" {
		t.Errorf("unexpected state %+v", got)
	}
}

func TestHandleLatency(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	providers := &fakeProviders{
		stats: latency.Snapshot{
			AvgMs:       180,
			P50Ms:       170,
			P95Ms:       250,
			SampleCount: 42,
		},
	}

	handler := NewStateHandler(providers, providers, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/latency", nil)
	rec := httptest.NewRecorder()

	handler.HandleLatency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got latency.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if got != providers.stats {
		t.Errorf("unexpected snapshot %+v", got)
	}
}
