// Package email provides the outbound email surface of the application.
// Delivery is best-effort: callers treat every send as fire-and-forget and
// log failures instead of propagating them.
package email

import (
	"context"
	"time"

	"homehunt_backend/platform/config"
)

// TourDetails carries everything the tour notification templates need.
type TourDetails struct {
	PropertyTitle  string
	PropertyCity   string
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
	OwnerName      string
	OwnerEmail     string
	OwnerPhone     string
	PreferredDates []time.Time
	Notes          string
}

// Sender sends the application's transactional emails.
type Sender interface {
	SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error

	SendReportReceivedEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error
	SendReportWarningEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error
	SendPropertyDeletedEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error
	SendStrikeNoticeEmail(ctx context.Context, toEmail, firstName string) error
	SendAccountDeletedEmail(ctx context.Context, toEmail, firstName string) error

	SendTourRequestEmail(ctx context.Context, toEmail string, details TourDetails) error
	SendTourConfirmationEmail(ctx context.Context, toEmail string, details TourDetails) error
	SendTourReminderEmail(ctx context.Context, toEmail, firstName, propertyTitle string, preferredDate time.Time) error
}

// NoopSender is used when email is disabled; every send quietly succeeds.
type NoopSender struct{}

func (NoopSender) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	return nil
}

func (NoopSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	return nil
}

func (NoopSender) SendReportReceivedEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error {
	return nil
}

func (NoopSender) SendReportWarningEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error {
	return nil
}

func (NoopSender) SendPropertyDeletedEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error {
	return nil
}

func (NoopSender) SendStrikeNoticeEmail(ctx context.Context, toEmail, firstName string) error {
	return nil
}

func (NoopSender) SendAccountDeletedEmail(ctx context.Context, toEmail, firstName string) error {
	return nil
}

func (NoopSender) SendTourRequestEmail(ctx context.Context, toEmail string, details TourDetails) error {
	return nil
}

func (NoopSender) SendTourConfirmationEmail(ctx context.Context, toEmail string, details TourDetails) error {
	return nil
}

func (NoopSender) SendTourReminderEmail(ctx context.Context, toEmail, firstName, propertyTitle string, preferredDate time.Time) error {
	return nil
}

// NewSender builds the configured Sender: SMTP when email is enabled,
// otherwise a NoopSender.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
