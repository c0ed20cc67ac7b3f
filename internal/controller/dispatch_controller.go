package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/followback/followback-backend/internal/service"
)

// DispatchController exposes the scheduled trigger for the campaign dispatch
// run. The caller (an external scheduler) authenticates with a shared secret.
type DispatchController struct {
	Dispatch   *service.DispatchService
	CronSecret string
}

func (c *DispatchController) CheckCampaigns(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "Bearer "+c.CronSecret {
		log.Println("Unauthorized cron request")
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error": "Unauthorized",
		})
		return
	}

	summary, results, err := c.Dispatch.Run(r.Context())
	if err != nil {
		log.Println("Dispatch run failed:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	if summary.TotalCampaigns == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "No active campaigns to process",
			"results": results,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
		"results": results,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
