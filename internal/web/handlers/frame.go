package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"github.com/kozaktomas/attendance-kiosk/internal/kiosk"
)

// FrameHandler handles the frame processing endpoint.
type FrameHandler struct {
	service *kiosk.Service
}

// NewFrameHandler creates a new frame handler.
func NewFrameHandler(service *kiosk.Service) *FrameHandler {
	return &FrameHandler{service: service}
}

// frameRequest is the browser's frame payload.
type frameRequest struct {
	Image string `json:"image"` // base64 data URI
}

// Process accepts one captured frame, runs it through the kiosk pipeline
// and returns the per-face outcomes. Any decode or encoder failure yields
// the generic error status with HTTP 500; the process never dies over a bad
// frame.
func (h *FrameHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"status": constants.StatusError})
		return
	}

	imageData, err := kiosk.DecodeDataURI(req.Image)
	if err != nil {
		log.Printf("Rejecting frame: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"status": constants.StatusError})
		return
	}

	result, err := h.service.ProcessFrame(r.Context(), imageData)
	if err != nil {
		log.Printf("Frame processing failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"status": constants.StatusError})
		return
	}

	respondJSON(w, http.StatusOK, result)
}
