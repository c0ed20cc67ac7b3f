package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	appErrors "github.com/followback/followback-backend/internal/errors"
	"github.com/followback/followback-backend/internal/repository"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// WaitlistHandler signs visitors up for the public landing-page waitlist.
type WaitlistHandler struct {
	WaitlistRepo repository.WaitlistRepositoryInterface
}

func (h *WaitlistHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
		return
	}

	if body.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Email is required"})
		return
	}
	if !emailRegex.MatchString(body.Email) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid email address"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	entry, err := h.WaitlistRepo.Add(r.Context(), email)
	if err != nil {
		if errors.Is(err, appErrors.ErrDuplicateWaitlistEmail) {
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error": "This email is already on the waitlist",
			})
			return
		}
		log.Println("Error inserting into waitlist:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Failed to join waitlist"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Successfully joined the waitlist!",
		"id":      entry.ID,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
