package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/kozaktomas/attendance-kiosk/internal/ledger"
)

// ExportHandler handles the ledger download endpoint.
type ExportHandler struct {
	ledger *ledger.Ledger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(l *ledger.Ledger) *ExportHandler {
	return &ExportHandler{ledger: l}
}

// Download streams the ledger file as a CSV attachment, byte for byte.
// When no ledger exists yet the response is a plain-text 404; the message
// is part of the legacy endpoint contract.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	data, err := h.ledger.Export()
	if err != nil {
		if errors.Is(err, ledger.ErrNoRecords) {
			http.Error(w, "No records found.", http.StatusNotFound)
			return
		}
		log.Printf("Ledger export failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to export ledger")
		return
	}

	filename := filepath.Base(h.ledger.Path())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
