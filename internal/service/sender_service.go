package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"parkspotter-admin/internal/entities"
)

var activationTmpl = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #333;">
<h2 style="color: #405189;">ParkSpotter</h2>
<p>Hello {{.Name}},</p>
<p>Your ParkSpotter account has been <strong>{{.State}}</strong> by an administrator.</p>
{{if not .Active}}<p>If you think this is a mistake, reply to this email.</p>{{end}}
<p style="color: #888; font-size: 12px;">&copy; {{.Year}} ParkSpotter</p>
</body></html>`))

var digestTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #333;">
<h2 style="color: #405189;">Subscriptions ending soon</h2>
<table cellpadding="6" style="border-collapse: collapse;">
<tr><th align="left">Owner</th><th align="left">Email</th><th align="left">Ends</th></tr>
{{range .}}<tr><td>{{.Name}}</td><td>{{.Email}}</td><td>{{.SubscriptionEndDate}}</td></tr>
{{end}}</table>
</body></html>`))

// SenderService renders messages and hands them to a Notifier.
type SenderService struct {
	notifier Notifier
	now      func() time.Time
}

func NewSenderService(n Notifier) *SenderService {
	return &SenderService{notifier: n, now: time.Now}
}

func activationState(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}

// SendActivationChange emails the user and, when a mobile number is known, texts them.
// Failures are logged; the activation itself already happened.
func (s *SenderService) SendActivationChange(ctx context.Context, u entities.User, mobile string, active bool) {
	state := activationState(active)
	data := struct {
		Name   string
		State  string
		Active bool
		Year   int
	}{Name: u.Username, State: state, Active: active, Year: s.now().Year()}

	if u.Email != "" {
		var html bytes.Buffer
		if err := activationTmpl.Execute(&html, data); err != nil {
			slog.Error("render activation email", slog.Any("error", err))
		}
		subject := fmt.Sprintf("Your ParkSpotter account has been %s", state)
		plain := fmt.Sprintf("Hello %s,\n\nYour ParkSpotter account has been %s by an administrator.\n\nParkSpotter", u.Username, state)
		if err := s.notifier.SendEmail(ctx, u.Email, u.Username, subject, plain, html.String()); err != nil {
			slog.Warn("activation email failed", slog.Int("user_id", u.ID), slog.Any("error", err))
		}
	}

	if mobile != "" {
		body := fmt.Sprintf("ParkSpotter: your account has been %s.", state)
		if err := s.notifier.SendSMS(ctx, mobile, body); err != nil {
			slog.Warn("activation SMS failed", slog.Int("user_id", u.ID), slog.Any("error", err))
		}
	}
}

// SendExpiryDigest sends one email listing owners whose subscription ends soon.
func (s *SenderService) SendExpiryDigest(ctx context.Context, to string, owners []entities.ParkOwner) error {
	if len(owners) == 0 {
		return nil
	}
	var html bytes.Buffer
	if err := digestTmpl.Execute(&html, owners); err != nil {
		return fmt.Errorf("render expiry digest: %w", err)
	}
	var plain bytes.Buffer
	plain.WriteString("Subscriptions ending within 7 days:\n\n")
	for _, o := range owners {
		fmt.Fprintf(&plain, "- %s <%s>: %s\n", o.Name(), o.Email, o.SubscriptionEndDate)
	}
	subject := fmt.Sprintf("%d ParkSpotter subscriptions end this week", len(owners))
	return s.notifier.SendEmail(ctx, to, "ParkSpotter admin", subject, plain.String(), html.String())
}
