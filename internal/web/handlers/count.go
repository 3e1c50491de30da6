package handlers

import (
	"net/http"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/ledger"
	"github.com/kozaktomas/attendance-kiosk/internal/metrics"
)

// CountHandler handles the live attendance count endpoint.
type CountHandler struct {
	ledger  *ledger.Ledger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewCountHandler creates a new count handler.
func NewCountHandler(l *ledger.Ledger, m *metrics.Metrics) *CountHandler {
	return &CountHandler{ledger: l, metrics: m, now: time.Now}
}

// Get returns the number of distinct names marked present today.
func (h *CountHandler) Get(w http.ResponseWriter, r *http.Request) {
	count := h.ledger.CountToday(h.now())
	h.metrics.PresentToday.Set(float64(count))
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}
