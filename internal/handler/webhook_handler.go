package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/followback/followback-backend/internal/model"
	"github.com/followback/followback-backend/internal/repository"
)

// TwilioWebhookHandler processes inbound Twilio callbacks: delivery status
// updates for outbound messages and customer replies. Twilio posts
// form-encoded bodies and retries on non-2xx, so this handler acknowledges
// with 200 no matter what happens internally.
type TwilioWebhookHandler struct {
	CustomerRepo repository.CustomerRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
}

var optOutKeywords = map[string]bool{
	"STOP":        true,
	"UNSUBSCRIBE": true,
	"END":         true,
	"QUIT":        true,
}

func (h *TwilioWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Println("Error parsing Twilio webhook form:", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	messageSid := r.FormValue("MessageSid")
	messageStatus := r.FormValue("MessageStatus")
	body := r.FormValue("Body")
	from := r.FormValue("From")

	log.Printf("Twilio webhook received: sid=%s status=%s from=%s", messageSid, messageStatus, from)

	// Inbound reply: a STOP-style keyword opts out every customer with that
	// phone number.
	if body != "" && from != "" {
		keyword := strings.ToUpper(strings.TrimSpace(body))
		if optOutKeywords[keyword] {
			log.Printf("Opt-out request received from %s", from)
			n, err := h.CustomerRepo.OptOutByPhone(r.Context(), from)
			if err != nil {
				log.Println("Error updating customer opt-out status:", err)
			} else if n == 0 {
				log.Printf("No customer found with phone %s", from)
			} else {
				log.Printf("%d customer(s) marked as opted out", n)
			}
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	// Delivery status update for an outbound message.
	if messageSid != "" && messageStatus != "" {
		status := coarseStatus(messageStatus)
		if err := h.MessageRepo.UpdateDeliveryStatus(r.Context(), messageSid, messageStatus, status); err != nil {
			// Still return 200 to prevent Twilio from retrying.
			log.Println("Error updating message delivery status:", err)
		} else {
			log.Printf("Message %s status updated to %s", messageSid, messageStatus)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// coarseStatus maps Twilio's delivery statuses onto the message lifecycle.
func coarseStatus(twilioStatus string) string {
	switch twilioStatus {
	case "delivered":
		return model.StatusDelivered
	case "failed", "undelivered":
		return model.StatusFailed
	default:
		return model.StatusSent
	}
}
