package handler

import (
	"encoding/base64"
	"log"
	"net/http"

	"github.com/followback/followback-backend/internal/repository"
)

// 1x1 transparent PNG
var trackingPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=",
)

// TrackOpenHandler serves the open-tracking pixel. The pixel is returned with
// a 200 in every case — bad id, unknown id, storage error — so broken tracking
// never shows up as a broken image in the recipient's client.
type TrackOpenHandler struct {
	MessageRepo repository.MessageRepositoryInterface
}

func (h *TrackOpenHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	messageID := r.URL.Query().Get("messageId")
	if messageID == "" {
		h.servePixel(w)
		return
	}

	if err := h.MessageRepo.RecordOpen(r.Context(), messageID); err != nil {
		log.Println("Error tracking email open:", err)
	}

	h.servePixel(w)
}

func (h *TrackOpenHandler) servePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Write(trackingPixel)
}
