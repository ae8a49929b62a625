package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const dateDisplayFormat = "Monday, 2 January 2006 at 15:04 MST"

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	content, err := renderEmailTemplate("verification.html", verificationEmailData{
		baseEmailData: baseEmailData{
			Title:    "Verify your email address",
			Heading:  "Verify your email address",
			CTALabel: "Verify email",
			CTAURL:   verifyURL,
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectVerification, content)
}

func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	content, err := renderEmailTemplate("password_reset.html", passwordResetEmailData{
		baseEmailData: baseEmailData{
			Title:    "Reset your password",
			Heading:  "Reset your password",
			CTALabel: "Reset password",
			CTAURL:   resetURL,
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPasswordReset, content)
}

func (s *SMTPSender) SendReportReceivedEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error {
	content, err := renderEmailTemplate("report_received.html", moderationEmailData{
		baseEmailData: baseEmailData{
			Title:   "A report was filed against your listing",
			Heading: "A report was filed against your listing",
		},
		FirstName:     firstName,
		PropertyTitle: propertyTitle,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectReportReceived, content)
}

func (s *SMTPSender) SendReportWarningEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error {
	content, err := renderEmailTemplate("report_warning.html", moderationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Warning: your listing has received multiple reports",
			Heading: "Warning: your listing has received multiple reports",
		},
		FirstName:     firstName,
		PropertyTitle: propertyTitle,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectReportWarning, content)
}

func (s *SMTPSender) SendPropertyDeletedEmail(ctx context.Context, toEmail, firstName, propertyTitle string) error {
	content, err := renderEmailTemplate("property_deleted.html", moderationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Your listing has been removed",
			Heading: "Your listing has been removed",
		},
		FirstName:     firstName,
		PropertyTitle: propertyTitle,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPropertyDeleted, content)
}

func (s *SMTPSender) SendStrikeNoticeEmail(ctx context.Context, toEmail, firstName string) error {
	content, err := renderEmailTemplate("strike_notice.html", moderationEmailData{
		baseEmailData: baseEmailData{
			Title:   "A strike was added to your account",
			Heading: "A strike was added to your account",
		},
		FirstName: firstName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectStrikeNotice, content)
}

func (s *SMTPSender) SendAccountDeletedEmail(ctx context.Context, toEmail, firstName string) error {
	content, err := renderEmailTemplate("account_deleted.html", moderationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Your account has been suspended",
			Heading: "Your account has been suspended",
		},
		FirstName: firstName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectAccountDeleted, content)
}

func (s *SMTPSender) SendTourRequestEmail(ctx context.Context, toEmail string, details TourDetails) error {
	content, err := renderEmailTemplate("tour_request.html", tourEmailData{
		baseEmailData: baseEmailData{
			Title:   "New tour request for your property",
			Heading: "New tour request for your property",
		},
		Details: details,
		Dates:   formatDates(details.PreferredDates),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectTourRequestFmt, details.PropertyTitle), content)
}

func (s *SMTPSender) SendTourConfirmationEmail(ctx context.Context, toEmail string, details TourDetails) error {
	content, err := renderEmailTemplate("tour_confirmation.html", tourEmailData{
		baseEmailData: baseEmailData{
			Title:   "Your tour request has been sent",
			Heading: "Your tour request has been sent",
		},
		Details: details,
		Dates:   formatDates(details.PreferredDates),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectTourConfirmationFmt, details.PropertyTitle), content)
}

func (s *SMTPSender) SendTourReminderEmail(ctx context.Context, toEmail, firstName, propertyTitle string, preferredDate time.Time) error {
	content, err := renderEmailTemplate("tour_reminder.html", tourReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Upcoming tour reminder",
			Heading: "Upcoming tour reminder",
		},
		FirstName:     firstName,
		PropertyTitle: propertyTitle,
		PreferredDate: preferredDate.UTC().Format(dateDisplayFormat),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectTourReminder, content)
}

func formatDates(dates []time.Time) []string {
	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.UTC().Format(dateDisplayFormat))
	}
	return formatted
}
