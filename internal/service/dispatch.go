package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	appErrors "github.com/followback/followback-backend/internal/errors"
	"github.com/followback/followback-backend/internal/events"
	"github.com/followback/followback-backend/internal/model"
	"github.com/followback/followback-backend/internal/repository"
)

// EligibilityCap bounds how many candidates a single campaign processes per
// run. Customers past the cap stay eligible and are picked up next run.
const EligibilityCap = 100

// EventPublisher is the optional alerting feed; *events.Publisher satisfies it.
type EventPublisher interface {
	PublishMessageEvent(evt events.MessageEvent) error
	PublishRunSummary(evt events.RunSummaryEvent) error
}

// CampaignResult is the per-campaign outcome of a dispatch run.
type CampaignResult struct {
	CampaignID         string   `json:"campaignId"`
	CampaignName       string   `json:"campaignName"`
	CustomersProcessed int      `json:"customersProcessed"`
	EmailsSent         int      `json:"emailsSent"`
	SmsSent            int      `json:"smsSent"`
	Errors             []string `json:"errors"`
}

// RunSummary aggregates a whole dispatch run.
type RunSummary struct {
	TotalCampaigns          int `json:"totalCampaigns"`
	TotalCustomersProcessed int `json:"totalCustomersProcessed"`
	TotalEmailsSent         int `json:"totalEmailsSent"`
	TotalSmsSent            int `json:"totalSmsSent"`
	TotalErrors             int `json:"totalErrors"`
}

// DispatchService runs the campaign-to-message pipeline: for every active
// campaign it selects eligible customers, drops the ones already messaged,
// renders the template and fans out to the campaign's channels, recording a
// Message row per attempt. One invocation processes everything sequentially;
// per-customer and per-campaign failures are recorded and skipped, never
// fatal to the run.
type DispatchService struct {
	BusinessRepo repository.BusinessRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
	Email        EmailSender
	SMS          SMSSender
	Events       EventPublisher // nil disables the event feed

	BaseURL   string
	SendPause time.Duration

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DispatchService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run executes one dispatch pass over all active campaigns.
func (s *DispatchService) Run(ctx context.Context) (*RunSummary, []CampaignResult, error) {
	campaigns, err := s.CampaignRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	log.Printf("Processing %d active campaigns", len(campaigns))

	results := []CampaignResult{}
	for _, campaign := range campaigns {
		results = append(results, s.processCampaign(ctx, campaign))
	}

	summary := &RunSummary{TotalCampaigns: len(campaigns)}
	for _, r := range results {
		summary.TotalCustomersProcessed += r.CustomersProcessed
		summary.TotalEmailsSent += r.EmailsSent
		summary.TotalSmsSent += r.SmsSent
		summary.TotalErrors += len(r.Errors)
	}

	if s.Events != nil {
		evt := events.RunSummaryEvent{
			TotalCampaigns:          summary.TotalCampaigns,
			TotalCustomersProcessed: summary.TotalCustomersProcessed,
			TotalEmailsSent:         summary.TotalEmailsSent,
			TotalSmsSent:            summary.TotalSmsSent,
			TotalErrors:             summary.TotalErrors,
			FinishedAt:              s.now(),
		}
		if err := s.Events.PublishRunSummary(evt); err != nil {
			log.Println("failed to publish run summary:", err)
		}
	}

	log.Printf("Dispatch run completed: %+v", summary)
	return summary, results, nil
}

func (s *DispatchService) processCampaign(ctx context.Context, campaign model.Campaign) CampaignResult {
	result := CampaignResult{
		CampaignID:   campaign.ID,
		CampaignName: campaign.Name,
		Errors:       []string{},
	}

	cutoff := s.now().Add(-time.Duration(campaign.TriggerDays) * 24 * time.Hour)
	customers, err := s.CustomerRepo.ListEligible(ctx, campaign.BusinessID, cutoff, EligibilityCap)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to fetch customers: %v", err))
		return result
	}
	if len(customers) == 0 {
		log.Printf("No customers to message for campaign %s", campaign.Name)
		return result
	}

	customerIDs := make([]string, len(customers))
	for i, c := range customers {
		customerIDs[i] = c.ID
	}

	alreadyMessaged, err := s.MessageRepo.MessagedCustomerIDs(ctx, campaign.ID, customerIDs)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to check existing messages: %v", err))
		return result
	}

	toMessage := []model.Customer{}
	for _, c := range customers {
		if !alreadyMessaged[c.ID] {
			toMessage = append(toMessage, c)
		}
	}
	if len(toMessage) == 0 {
		log.Printf("All eligible customers already messaged for campaign %s", campaign.Name)
		return result
	}

	log.Printf("Sending to %d customers for campaign %s", len(toMessage), campaign.Name)

	businessName := s.businessName(ctx, campaign.BusinessID)
	discount := strconv.Itoa(campaign.DiscountPercent)

	for _, customer := range toMessage {
		result.CustomersProcessed++

		trackingLink := fmt.Sprintf("%s/book?bid=%s&cid=%s", s.BaseURL, campaign.BusinessID, customer.ID)
		message := RenderTemplate(campaign.Template, TemplateData{
			Name:     customer.Name,
			Business: businessName,
			Discount: discount,
			Link:     trackingLink,
		})

		for _, channel := range resolveChannels(campaign.Channel) {
			s.sendChannel(ctx, &result, campaign, customer, channel, businessName, discount, trackingLink, message)

			// Cooperative pause so consecutive sends don't burst the providers.
			time.Sleep(s.SendPause)
		}
	}

	return result
}

func (s *DispatchService) sendChannel(ctx context.Context, result *CampaignResult, campaign model.Campaign, customer model.Customer, channel, businessName, discount, trackingLink, message string) {
	switch {
	case channel == model.ChannelEmail && customer.Email != nil:
		if err := s.sendEmail(ctx, campaign, customer, businessName, discount, trackingLink, message); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Email failed for %s: %v", *customer.Email, err))
		} else {
			result.EmailsSent++
		}
	case channel == model.ChannelSMS && customer.Phone != nil:
		if err := s.sendSMS(ctx, campaign, customer, message); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("SMS failed for %s: %v", *customer.Phone, err))
		} else {
			result.SmsSent++
		}
	case channel == model.ChannelEmail:
		result.Errors = append(result.Errors, fmt.Sprintf("No email address for customer %s", customerLabel(customer)))
	case channel == model.ChannelSMS:
		result.Errors = append(result.Errors, fmt.Sprintf("No phone number for customer %s", customerLabel(customer)))
	}
}

// sendEmail creates the Message row first so its id can be baked into the
// tracking pixel URL, then delivers and records the outcome.
func (s *DispatchService) sendEmail(ctx context.Context, campaign model.Campaign, customer model.Customer, businessName, discount, trackingLink, message string) error {
	msg := &model.Message{
		CustomerID: customer.ID,
		CampaignID: campaign.ID,
		Channel:    model.ChannelEmail,
	}
	if err := s.MessageRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to create message record: %w", err)
	}

	pixelURL := fmt.Sprintf("%s/api/track-open?messageId=%s", s.BaseURL, msg.ID)
	unsubscribeLink := fmt.Sprintf("%s/unsubscribe?customerId=%s&campaignId=%s", s.BaseURL, customer.ID, campaign.ID)

	htmlBody := BuildCampaignEmailHTML(CampaignEmailData{
		Name:            customer.Name,
		Business:        businessName,
		Discount:        discount,
		Link:            trackingLink,
		Message:         message,
		UnsubscribeLink: unsubscribeLink,
		TrackingPixel:   pixelURL,
	})

	providerID, err := s.Email.Send(ctx, EmailRequest{
		To:       *customer.Email,
		ToName:   customer.Name,
		Subject:  fmt.Sprintf("Special offer from %s!", businessName),
		HTMLBody: htmlBody,
		TextBody: message,
	})
	if err != nil {
		if updErr := s.MessageRepo.MarkFailed(ctx, msg.ID, ""); updErr != nil {
			log.Println("failed to mark message failed:", updErr)
		}
		s.publishMessageEvent(msg, model.StatusFailed, err)
		return err
	}

	if err := s.MessageRepo.MarkSent(ctx, msg.ID, providerID, ""); err != nil {
		// The email went out; log and keep counting it as sent.
		log.Println("failed to mark message sent:", err)
	}
	s.publishMessageEvent(msg, model.StatusSent, nil)
	log.Printf("Email sent to %s for campaign %s", *customer.Email, campaign.Name)
	return nil
}

// sendSMS re-checks opt-out right before delivery, appends the opt-out
// instructions and records the provider's SID and initial delivery status.
func (s *DispatchService) sendSMS(ctx context.Context, campaign model.Campaign, customer model.Customer, message string) error {
	optedOut, err := s.CustomerRepo.IsOptedOut(ctx, customer.ID)
	if err != nil {
		return fmt.Errorf("failed to verify customer: %w", err)
	}
	if optedOut {
		return appErrors.ErrCustomerOptedOut
	}

	msg := &model.Message{
		CustomerID: customer.ID,
		CampaignID: campaign.ID,
		Channel:    model.ChannelSMS,
	}
	if err := s.MessageRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to create message record: %w", err)
	}

	res, err := s.SMS.Send(ctx, SMSRequest{
		To:             *customer.Phone,
		Body:           message + OptOutSuffix,
		StatusCallback: s.BaseURL + "/api/twilio/webhook",
	})
	if err != nil {
		if updErr := s.MessageRepo.MarkFailed(ctx, msg.ID, "failed"); updErr != nil {
			log.Println("failed to mark message failed:", updErr)
		}
		s.publishMessageEvent(msg, model.StatusFailed, err)
		return err
	}

	if err := s.MessageRepo.MarkSent(ctx, msg.ID, res.SID, res.Status); err != nil {
		log.Println("failed to mark message sent:", err)
	}
	s.publishMessageEvent(msg, model.StatusSent, nil)
	log.Printf("SMS sent to %s for campaign %s", *customer.Phone, campaign.Name)
	return nil
}

func (s *DispatchService) businessName(ctx context.Context, businessID string) string {
	business, err := s.BusinessRepo.GetByID(ctx, businessID)
	if err != nil || business == nil {
		return "Our Business"
	}
	return business.Name
}

func (s *DispatchService) publishMessageEvent(msg *model.Message, status string, sendErr error) {
	if s.Events == nil {
		return
	}
	evt := events.MessageEvent{
		MessageID:  msg.ID,
		CustomerID: msg.CustomerID,
		CampaignID: msg.CampaignID,
		Channel:    msg.Channel,
		Status:     status,
		OccurredAt: s.now(),
	}
	if sendErr != nil {
		evt.Error = sendErr.Error()
	}
	if err := s.Events.PublishMessageEvent(evt); err != nil {
		log.Println("failed to publish message event:", err)
	}
}

func resolveChannels(channel string) []string {
	if channel == model.ChannelBoth {
		return []string{model.ChannelEmail, model.ChannelSMS}
	}
	return []string{channel}
}

func customerLabel(c model.Customer) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
