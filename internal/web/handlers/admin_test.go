package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAdminHandler_ClearLogs_Success(t *testing.T) {
	l := testLedger(t)
	l.TryMark("ALICE", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	handler := NewAdminHandler(l, testSecret, nil)

	body := bytes.NewBufferString(`{"password": "test-secret"}`)
	req := httptest.NewRequest("POST", "/clear_logs", body)
	recorder := httptest.NewRecorder()

	handler.ClearLogs(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var response map[string]string
	parseJSONResponse(t, recorder, &response)

	if response["status"] != "success" {
		t.Errorf("expected status 'success', got '%s'", response["status"])
	}

	if got := l.CountToday(time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)); got != 0 {
		t.Errorf("expected count 0 after clear, got %d", got)
	}
}

func TestAdminHandler_ClearLogs_WrongPassword(t *testing.T) {
	l := testLedger(t)
	l.TryMark("ALICE", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	handler := NewAdminHandler(l, testSecret, nil)

	body := bytes.NewBufferString(`{"password": "wrong"}`)
	req := httptest.NewRequest("POST", "/clear_logs", body)
	recorder := httptest.NewRecorder()

	handler.ClearLogs(recorder, req)

	assertStatusCode(t, recorder, http.StatusUnauthorized)

	var response map[string]string
	parseJSONResponse(t, recorder, &response)

	if response["status"] != "wrong_password" {
		t.Errorf("expected status 'wrong_password', got '%s'", response["status"])
	}

	if got := l.CountToday(time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)); got != 1 {
		t.Errorf("expected ledger untouched (count 1), got %d", got)
	}
}

func TestAdminHandler_ClearLogs_InvalidJSON(t *testing.T) {
	handler := NewAdminHandler(testLedger(t), testSecret, nil)

	req := httptest.NewRequest("POST", "/clear_logs", bytes.NewBufferString(`{broken`))
	recorder := httptest.NewRecorder()

	handler.ClearLogs(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestAdminHandler_Shutdown_CorrectPassword(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := NewAdminHandler(testLedger(t), testSecret, func() { called <- struct{}{} })

	body := bytes.NewBufferString(`{"password": "test-secret"}`)
	req := httptest.NewRequest("POST", "/shutdown", body)
	recorder := httptest.NewRecorder()

	handler.Shutdown(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown callback to be invoked")
	}
}

func TestAdminHandler_Shutdown_WrongPassword(t *testing.T) {
	handler := NewAdminHandler(testLedger(t), testSecret, func() {
		t.Error("shutdown callback must not run for a wrong password")
	})

	body := bytes.NewBufferString(`{"password": "wrong"}`)
	req := httptest.NewRequest("POST", "/shutdown", body)
	recorder := httptest.NewRecorder()

	handler.Shutdown(recorder, req)

	assertStatusCode(t, recorder, http.StatusUnauthorized)
}
