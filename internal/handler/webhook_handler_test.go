package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/followback/followback-backend/internal/handler"
	"github.com/followback/followback-backend/internal/repository"
)

// Stubs embed the interface and override only what the handler touches;
// anything else panics loudly.

type stubCustomerRepo struct {
	repository.CustomerRepositoryInterface
	optedOutPhones []string
	optOutErr      error
}

func (s *stubCustomerRepo) OptOutByPhone(ctx context.Context, phone string) (int64, error) {
	if s.optOutErr != nil {
		return 0, s.optOutErr
	}
	s.optedOutPhones = append(s.optedOutPhones, phone)
	return 1, nil
}

type stubMessageRepo struct {
	repository.MessageRepositoryInterface
	statusUpdates [][3]string // provider id, delivery status, status
	updateErr     error
	opens         []string
	openErr       error
}

func (s *stubMessageRepo) UpdateDeliveryStatus(ctx context.Context, providerMessageID, deliveryStatus, status string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.statusUpdates = append(s.statusUpdates, [3]string{providerMessageID, deliveryStatus, status})
	return nil
}

func (s *stubMessageRepo) RecordOpen(ctx context.Context, id string) error {
	if s.openErr != nil {
		return s.openErr
	}
	s.opens = append(s.opens, id)
	return nil
}

func postTwilioForm(t *testing.T, h *handler.TwilioWebhookHandler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/twilio/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	return rec
}

func TestWebhookStopReplyOptsOutByPhone(t *testing.T) {
	customers := &stubCustomerRepo{}
	messages := &stubMessageRepo{}
	h := &handler.TwilioWebhookHandler{CustomerRepo: customers, MessageRepo: messages}

	rec := postTwilioForm(t, h, url.Values{
		"From": {"+15550000001"},
		"Body": {"  stop "},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, customers.optedOutPhones, 1)
	assert.Equal(t, "+15550000001", customers.optedOutPhones[0])
	assert.Empty(t, messages.statusUpdates, "a reply is not a status update")
}

func TestWebhookOptOutKeywordVariants(t *testing.T) {
	for _, body := range []string{"STOP", "unsubscribe", "End", "QUIT"} {
		customers := &stubCustomerRepo{}
		h := &handler.TwilioWebhookHandler{CustomerRepo: customers, MessageRepo: &stubMessageRepo{}}

		rec := postTwilioForm(t, h, url.Values{"From": {"+15550000001"}, "Body": {body}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, customers.optedOutPhones, 1, "keyword %q should opt out", body)
	}
}

func TestWebhookNonKeywordReplyIsIgnored(t *testing.T) {
	customers := &stubCustomerRepo{}
	h := &handler.TwilioWebhookHandler{CustomerRepo: customers, MessageRepo: &stubMessageRepo{}}

	rec := postTwilioForm(t, h, url.Values{"From": {"+15550000001"}, "Body": {"thanks, see you soon"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, customers.optedOutPhones)
}

func TestWebhookDeliveryStatusUpdates(t *testing.T) {
	cases := []struct {
		twilioStatus string
		wantStatus   string
	}{
		{"delivered", "delivered"},
		{"failed", "failed"},
		{"undelivered", "failed"},
		{"queued", "sent"},
		{"sent", "sent"},
	}

	for _, tc := range cases {
		messages := &stubMessageRepo{}
		h := &handler.TwilioWebhookHandler{CustomerRepo: &stubCustomerRepo{}, MessageRepo: messages}

		rec := postTwilioForm(t, h, url.Values{
			"MessageSid":    {"SM123"},
			"MessageStatus": {tc.twilioStatus},
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, messages.statusUpdates, 1, "status %q", tc.twilioStatus)
		assert.Equal(t, [3]string{"SM123", tc.twilioStatus, tc.wantStatus}, messages.statusUpdates[0])
	}
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	messages := &stubMessageRepo{updateErr: assert.AnError}
	h := &handler.TwilioWebhookHandler{CustomerRepo: &stubCustomerRepo{optOutErr: assert.AnError}, MessageRepo: messages}

	rec := postTwilioForm(t, h, url.Values{
		"MessageSid":    {"SM123"},
		"MessageStatus": {"delivered"},
	})
	assert.Equal(t, http.StatusOK, rec.Code, "repo failure must not trigger Twilio retries")

	rec = postTwilioForm(t, h, url.Values{"From": {"+15550000001"}, "Body": {"STOP"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Empty form body still gets a 200.
	req := httptest.NewRequest(http.MethodPost, "/api/twilio/webhook", nil)
	rec = httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
