package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/kozaktomas/attendance-kiosk/internal/ledger"
)

// AdminHandler handles the authenticated admin endpoints: clearing the
// ledger and shutting the kiosk down.
type AdminHandler struct {
	ledger   *ledger.Ledger
	secret   string
	shutdown func()
}

// NewAdminHandler creates a new admin handler. shutdown is invoked after a
// successfully authenticated shutdown request; it may be nil in tests.
func NewAdminHandler(l *ledger.Ledger, adminSecret string, shutdown func()) *AdminHandler {
	return &AdminHandler{ledger: l, secret: adminSecret, shutdown: shutdown}
}

// adminRequest carries the admin credential.
type adminRequest struct {
	Password string `json:"password"`
}

// ClearLogs resets the ledger. Wrong password leaves the ledger untouched
// and returns HTTP 401 with the legacy wrong_password status.
func (h *AdminHandler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if err := h.ledger.Reset(req.Password); err != nil {
		if errors.Is(err, ledger.ErrUnauthorized) {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"status": "wrong_password"})
			return
		}
		log.Printf("Ledger reset failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to clear logs")
		return
	}

	log.Printf("Attendance ledger cleared by admin")
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Shutdown stops the process after verifying the admin credential. This is
// the only intentional way to terminate the kiosk.
func (h *AdminHandler) Shutdown(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.secret)) != 1 {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"status": "wrong_password"})
		return
	}

	log.Printf("Shutdown requested by admin")
	respondJSON(w, http.StatusOK, map[string]string{"status": "shutting_down"})

	if h.shutdown != nil {
		// The response must flush before the listener closes.
		go h.shutdown()
	}
}
