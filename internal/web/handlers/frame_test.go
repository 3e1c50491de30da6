package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/attendance-kiosk/internal/encoder"
	"github.com/kozaktomas/attendance-kiosk/internal/encoder/mock"
	"github.com/kozaktomas/attendance-kiosk/internal/kiosk"
)

func frameBody(t *testing.T, imageData []byte) *bytes.Buffer {
	t.Helper()
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)
	return bytes.NewBufferString(fmt.Sprintf(`{"image": %q}`, uri))
}

func TestFrameHandler_KnownFace(t *testing.T) {
	enc := mock.NewMockEncoder()
	enc.DefaultFaces = []encoder.Face{{Embedding: []float32{1, 0, 0}}}
	handler := NewFrameHandler(testService(t, testLedger(t), enc))

	req := httptest.NewRequest("POST", "/process_frame", frameBody(t, testJPEG(t)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	handler.Process(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var result kiosk.Result
	parseJSONResponse(t, recorder, &result)

	if result.Status != "Success: ALICE" {
		t.Errorf("expected 'Success: ALICE', got '%s'", result.Status)
	}

	if len(result.Outcomes) != 1 || !result.Outcomes[0].Marked {
		t.Errorf("expected one marked outcome, got %+v", result.Outcomes)
	}
}

func TestFrameHandler_EmptyFrame(t *testing.T) {
	enc := mock.NewMockEncoder()
	handler := NewFrameHandler(testService(t, testLedger(t), enc))

	req := httptest.NewRequest("POST", "/process_frame", frameBody(t, testJPEG(t)))
	recorder := httptest.NewRecorder()

	handler.Process(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var result kiosk.Result
	parseJSONResponse(t, recorder, &result)

	if result.Status != "Scanning..." {
		t.Errorf("expected 'Scanning...', got '%s'", result.Status)
	}
}

func TestFrameHandler_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json}`},
		{"invalid base64", `{"image": "data:image/jpeg;base64,!!!"}`},
		{"empty image", `{"image": ""}`},
		{"not an image", `{"image": "data:image/jpeg;base64,aGVsbG8="}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := mock.NewMockEncoder()
			handler := NewFrameHandler(testService(t, testLedger(t), enc))

			req := httptest.NewRequest("POST", "/process_frame", bytes.NewBufferString(tt.body))
			recorder := httptest.NewRecorder()

			handler.Process(recorder, req)

			assertStatusCode(t, recorder, http.StatusInternalServerError)

			var response map[string]string
			parseJSONResponse(t, recorder, &response)

			if response["status"] != "Error" {
				t.Errorf("expected status 'Error', got '%s'", response["status"])
			}
		})
	}
}

func TestFrameHandler_UnknownFace(t *testing.T) {
	enc := mock.NewMockEncoder()
	enc.DefaultFaces = []encoder.Face{{Embedding: []float32{0, 1, 0}}}
	handler := NewFrameHandler(testService(t, testLedger(t), enc))

	req := httptest.NewRequest("POST", "/process_frame", frameBody(t, testJPEG(t)))
	recorder := httptest.NewRecorder()

	handler.Process(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var result kiosk.Result
	parseJSONResponse(t, recorder, &result)

	if result.Status != "Unknown Student" {
		t.Errorf("expected 'Unknown Student', got '%s'", result.Status)
	}
}
