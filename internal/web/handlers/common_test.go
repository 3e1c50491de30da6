package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/encoder/mock"
	"github.com/kozaktomas/attendance-kiosk/internal/kiosk"
	"github.com/kozaktomas/attendance-kiosk/internal/ledger"
	"github.com/kozaktomas/attendance-kiosk/internal/match"
	"github.com/kozaktomas/attendance-kiosk/internal/metrics"
	"github.com/kozaktomas/attendance-kiosk/internal/roster"
)

const testSecret = "test-secret"

// testLedger creates a ledger in a temp dir.
func testLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "Attendance.csv"), testSecret)
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}
	return l
}

// testService builds an orchestrator with a single-entry roster, the given
// mock encoder and a clock pinned to 2024-01-01 10:00:00.
func testService(t *testing.T, l *ledger.Ledger, enc *mock.MockEncoder) *kiosk.Service {
	t.Helper()
	r := roster.FromEntries([]roster.Entry{
		{Name: "ALICE", Embedding: []float32{1, 0, 0}},
	})
	clock := func() time.Time {
		return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	}
	return kiosk.New(r, match.New(r, 0.55), l, enc, metrics.New(), kiosk.WithClock(clock))
}

// testJPEG produces a small valid JPEG frame.
func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d (body: %s)", expected, recorder.Code, recorder.Body.String())
	}
}

func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	if got := recorder.Header().Get("Content-Type"); got != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, got)
	}
}

func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to unmarshal response '%s': %v", recorder.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	recorder := httptest.NewRecorder()

	HealthCheck(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var response map[string]string
	parseJSONResponse(t, recorder, &response)

	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", response["status"])
	}
}

func TestRespondJSON_SetsContentType(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusOK, map[string]string{"status": "ok"})

	assertContentType(t, recorder, "application/json")
}

func TestRespondJSON_NilData(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusNoContent, nil)

	if recorder.Body.Len() != 0 {
		t.Errorf("expected empty body for nil data, got '%s'", recorder.Body.String())
	}
}
