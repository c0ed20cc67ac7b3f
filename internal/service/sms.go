package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// OptOutSuffix is appended to every outbound SMS body.
const OptOutSuffix = "\n\nReply STOP to unsubscribe"

// Concatenated-message ceiling; single-segment limits are far lower but the
// provider handles segmentation.
const maxSMSLength = 1600

var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// SMSSender delivers one rendered SMS and returns the provider's message id
// and initial delivery status.
type SMSSender interface {
	Send(ctx context.Context, req SMSRequest) (*SMSResult, error)
}

type SMSRequest struct {
	To             string
	Body           string
	StatusCallback string
}

type SMSResult struct {
	SID    string
	Status string
}

// TwilioSender sends SMS through Twilio's REST API. There is no Twilio SDK in
// use here; the API is a single form POST.
type TwilioSender struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	HTTPClient *http.Client
}

const twilioAPIBase = "https://api.twilio.com"

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		BaseURL:    twilioAPIBase,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"` // set on error responses
	Code    int    `json:"code"`
}

func (s *TwilioSender) Send(ctx context.Context, req SMSRequest) (*SMSResult, error) {
	to := strings.ReplaceAll(req.To, " ", "")
	if !phoneRegex.MatchString(to) {
		return nil, fmt.Errorf("invalid phone number format: %s", req.To)
	}
	if len(req.Body) > maxSMSLength {
		return nil, fmt.Errorf("message too long: %d characters (max %d)", len(req.Body), maxSMSLength)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.From)
	form.Set("Body", req.Body)
	if req.StatusCallback != "" {
		form.Set("StatusCallback", req.StatusCallback)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.BaseURL, s.AccountSID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(s.AccountSID, s.AuthToken)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body twilioMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode twilio response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("twilio returned %d (code %d): %s", resp.StatusCode, body.Code, body.Message)
	}

	return &SMSResult{SID: body.SID, Status: body.Status}, nil
}

var _ SMSSender = (*TwilioSender)(nil)
