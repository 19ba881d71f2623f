package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrNotifierNotConfigured = errors.New("notifier not configured")

// Notifier delivers staff-triggered messages to platform users.
type Notifier interface {
	SendEmail(ctx context.Context, to, toName, subject, plain, html string) error
	SendSMS(ctx context.Context, to, body string) error
}

type NotifyConfig struct {
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
}

type NotifyService struct {
	cfg NotifyConfig
}

func NewNotifyService(cfg NotifyConfig) *NotifyService {
	return &NotifyService{cfg: cfg}
}

func (n *NotifyService) SendEmail(ctx context.Context, to, toName, subject, plain, html string) error {
	if n.cfg.SendGridAPIKey == "" || n.cfg.SendGridFromEmail == "" {
		slog.Warn("SendGrid is not configured, email not sent", slog.String("to", to))
		return fmt.Errorf("sendgrid: %w", ErrNotifierNotConfigured)
	}
	fromName := n.cfg.SendGridFromName
	if fromName == "" {
		fromName = "ParkSpotter"
	}

	from := mail.NewEmail(fromName, n.cfg.SendGridFromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail(toName, to), plain, html)

	client := sendgrid.NewSendClient(n.cfg.SendGridAPIKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", to, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	slog.Info("email sent", slog.String("to", to), slog.String("subject", subject), slog.Int("status", response.StatusCode))
	return nil
}

func (n *NotifyService) SendSMS(_ context.Context, to, body string) error {
	if n.cfg.TwilioAccountSID == "" || n.cfg.TwilioAuthToken == "" || n.cfg.TwilioFromNumber == "" {
		slog.Warn("Twilio is not configured, SMS not sent", slog.String("to", to))
		return fmt.Errorf("twilio: %w", ErrNotifierNotConfigured)
	}
	if !strings.HasPrefix(to, "+") {
		slog.Warn("destination number is not E.164, SMS may fail", slog.String("to", to))
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   n.cfg.TwilioAccountSID,
		Password:   n.cfg.TwilioAuthToken,
		AccountSid: n.cfg.TwilioAccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.cfg.TwilioFromNumber)
	params.SetBody(body)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	if resp != nil && resp.Sid != nil {
		slog.Info("SMS sent", slog.String("to", to), slog.String("sid", *resp.Sid))
	}
	return nil
}
