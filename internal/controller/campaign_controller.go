package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/followback/followback-backend/internal/errors"
	"github.com/followback/followback-backend/internal/model"
	"github.com/followback/followback-backend/internal/repository"
)

var validate = validator.New()

type CampaignController struct {
	CampaignRepo repository.CampaignRepositoryInterface
	BusinessRepo repository.BusinessRepositoryInterface
}

type createCampaignRequest struct {
	BusinessID      string `json:"business_id" validate:"required,uuid4"`
	Name            string `json:"name" validate:"required"`
	TriggerDays     int    `json:"trigger_days" validate:"required,gt=0"`
	Channel         string `json:"channel" validate:"required,oneof=email sms both"`
	Template        string `json:"template" validate:"required"`
	DiscountPercent int    `json:"discount_percent" validate:"gte=0,lte=100"`
	Active          bool   `json:"active"`
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}

	business, err := c.BusinessRepo.GetByID(r.Context(), body.BusinessID)
	if err != nil {
		var notFound *appErrors.ErrBusinessNotFound
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}

	count, err := c.CampaignRepo.CountByBusiness(r.Context(), business.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	if count >= business.CampaignLimit {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error": "campaign limit reached for current plan",
		})
		return
	}

	campaign := &model.Campaign{
		BusinessID:      body.BusinessID,
		Name:            body.Name,
		TriggerDays:     body.TriggerDays,
		Channel:         body.Channel,
		Template:        body.Template,
		DiscountPercent: body.DiscountPercent,
		Active:          body.Active,
	}
	if err := c.CampaignRepo.Create(r.Context(), campaign); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "failed to create campaign: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("business_id")
	if businessID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "business_id is required"})
		return
	}

	campaigns, err := c.CampaignRepo.ListByBusiness(r.Context(), businessID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "failed to fetch campaigns: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": campaigns})
}

// ToggleCampaign flips the active flag.
func (c *CampaignController) ToggleCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := c.CampaignRepo.GetByID(r.Context(), id)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}

	if err := c.CampaignRepo.SetActive(r.Context(), id, !campaign.Active); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}

	campaign.Active = !campaign.Active
	writeJSON(w, http.StatusOK, campaign)
}
