package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	appErrors "github.com/followback/followback-backend/internal/errors"
	"github.com/followback/followback-backend/internal/model"
	"github.com/followback/followback-backend/internal/repository"
)

type CustomerController struct {
	CustomerRepo repository.CustomerRepositoryInterface
	BusinessRepo repository.BusinessRepositoryInterface
}

type createCustomerRequest struct {
	BusinessID string  `json:"business_id" validate:"required,uuid4"`
	Name       string  `json:"name" validate:"required"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,e164"`
	LastVisit  *string `json:"last_visit"` // RFC 3339
	VisitCount int     `json:"visit_count" validate:"gte=0"`
	TotalSpent float64 `json:"total_spent" validate:"gte=0"`
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}

	var lastVisit *time.Time
	if body.LastVisit != nil && *body.LastVisit != "" {
		t, err := time.Parse(time.RFC3339, *body.LastVisit)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid last_visit, expected RFC 3339"})
			return
		}
		lastVisit = &t
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

	count, err := c.CustomerRepo.CountByBusiness(r.Context(), business.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	if count >= business.CustomerLimit {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error": "customer limit reached for current plan",
		})
		return
	}

	customer := &model.Customer{
		BusinessID: body.BusinessID,
		Name:       body.Name,
		Email:      body.Email,
		Phone:      body.Phone,
		LastVisit:  lastVisit,
		VisitCount: body.VisitCount,
		TotalSpent: body.TotalSpent,
	}
	if err := c.CustomerRepo.Create(r.Context(), customer); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "failed to create customer: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("business_id")
	if businessID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "business_id is required"})
		return
	}

	customers, err := c.CustomerRepo.ListByBusiness(r.Context(), businessID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "failed to fetch customers: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": customers})
}
