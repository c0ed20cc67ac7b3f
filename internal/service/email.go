package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers one rendered campaign email and returns the provider's
// message id.
type EmailSender interface {
	Send(ctx context.Context, req EmailRequest) (string, error)
}

type EmailRequest struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendGridSender sends campaign emails through SendGrid.
type SendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridSender(apiKey, from, fromName string) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (s *SendGridSender) Send(ctx context.Context, req EmailRequest) (string, error) {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		req.Subject,
		mail.NewEmail(req.ToName, req.To),
		req.TextBody,
		req.HTMLBody,
	)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}

	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

var _ EmailSender = (*SendGridSender)(nil)

// CampaignEmailData feeds the branded campaign email shell.
type CampaignEmailData struct {
	Name            string
	Business        string
	Discount        string
	Link            string
	Message         string
	UnsubscribeLink string
	TrackingPixel   string
}

// BuildCampaignEmailHTML renders the campaign email: branded header, the
// rendered campaign message, a CTA button, an unsubscribe link and the
// open-tracking pixel. Values are escaped here because unlike the SMS body
// this lands inside HTML.
func BuildCampaignEmailHTML(data CampaignEmailData) string {
	name := data.Name
	if name == "" {
		name = DefaultCustomerName
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="background-color:#f6f9fc;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">`)
	b.WriteString(`<div style="background-color:#ffffff;margin:0 auto;max-width:600px;padding:20px 0 48px;">`)
	b.WriteString(`<div style="background-color:#6366f1;padding:32px 24px;text-align:center;">`)
	b.WriteString(`<h1 style="color:#ffffff;font-size:32px;margin:0 0 8px;">FollowBack</h1>`)
	b.WriteString(`<p style="color:#e0e7ff;margin:0;">Win Back Your Customers</p>`)
	b.WriteString(`</div>`)
	b.WriteString(`<div style="padding:24px;">`)
	fmt.Fprintf(&b, `<h2 style="color:#1f2937;">Hi %s!</h2>`, html.EscapeString(name))
	fmt.Fprintf(&b, `<p style="color:#374151;font-size:16px;line-height:24px;">%s</p>`, html.EscapeString(data.Message))
	b.WriteString(`<div style="text-align:center;margin:32px 0;">`)
	fmt.Fprintf(&b,
		`<a href="%s" style="background-color:#6366f1;border-radius:6px;color:#ffffff;display:inline-block;font-size:16px;font-weight:bold;padding:14px 28px;text-decoration:none;">Claim Your %s%% Off</a>`,
		data.Link, html.EscapeString(data.Discount),
	)
	b.WriteString(`</div>`)
	fmt.Fprintf(&b,
		`<p style="color:#374151;font-size:16px;line-height:24px;">We'd love to see you again at %s. This special offer is just for you!</p>`,
		html.EscapeString(data.Business),
	)
	b.WriteString(`</div>`)
	b.WriteString(`<div style="border-top:1px solid #e5e7eb;padding:24px;text-align:center;">`)
	fmt.Fprintf(&b, `<p style="color:#9ca3af;font-size:12px;">Sent from %s</p>`, html.EscapeString(data.Business))
	fmt.Fprintf(&b, `<a href="%s" style="color:#9ca3af;font-size:12px;">Unsubscribe</a>`, data.UnsubscribeLink)
	b.WriteString(`</div>`)
	if data.TrackingPixel != "" {
		fmt.Fprintf(&b, `<img src="%s" width="1" height="1" alt="" style="display:block;"/>`, data.TrackingPixel)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}
