// Package notification turns domain events into outbound emails. It is the
// only module that both subscribes to the event bus and talks to the email
// sender; publishers never wait on delivery and never see failures.
package notification

import (
	"context"
	"fmt"

	"homehunt_backend/internal/email"
	"homehunt_backend/internal/events"
	"homehunt_backend/platform/logger"
)

// Module wires event subscriptions to the email sender.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

func NewModule(sender email.Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

func (m *Module) Name() string {
	return "notification"
}

// Subscribe registers all notification handlers on the bus. Call once at
// startup, before the first request is served.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(events.ReportReceived{}.EventName(), events.HandlerFunc(m.onReportReceived))
	bus.Subscribe(events.PropertyWarned{}.EventName(), events.HandlerFunc(m.onPropertyWarned))
	bus.Subscribe(events.PropertyDelisted{}.EventName(), events.HandlerFunc(m.onPropertyDelisted))
	bus.Subscribe(events.OwnerSuspended{}.EventName(), events.HandlerFunc(m.onOwnerSuspended))
	bus.Subscribe(events.TourRequested{}.EventName(), events.HandlerFunc(m.onTourRequested))
	bus.Subscribe(events.TourReminderDue{}.EventName(), events.HandlerFunc(m.onTourReminderDue))
}

func (m *Module) onReportReceived(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.ReportReceived)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	if err := m.sender.SendReportReceivedEmail(ctx, evt.OwnerEmail, evt.OwnerFirstName, evt.PropertyTitle); err != nil {
		m.log.EmailError("report_received", evt.OwnerEmail, err)
	}
	return nil
}

func (m *Module) onPropertyWarned(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.PropertyWarned)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	if err := m.sender.SendReportWarningEmail(ctx, evt.OwnerEmail, evt.OwnerFirstName, evt.PropertyTitle); err != nil {
		m.log.EmailError("report_warning", evt.OwnerEmail, err)
	}
	return nil
}

// onPropertyDelisted sends both the per-property deletion notice and the
// strike notice; the owner keeps the account on this branch.
func (m *Module) onPropertyDelisted(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.PropertyDelisted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	if err := m.sender.SendPropertyDeletedEmail(ctx, evt.OwnerEmail, evt.OwnerFirstName, evt.PropertyTitle); err != nil {
		m.log.EmailError("property_deleted", evt.OwnerEmail, err)
	}
	if err := m.sender.SendStrikeNoticeEmail(ctx, evt.OwnerEmail, evt.OwnerFirstName); err != nil {
		m.log.EmailError("strike_notice", evt.OwnerEmail, err)
	}
	return nil
}

// onOwnerSuspended sends only the account-deleted notice; the per-property
// notices are deliberately suppressed on suspension.
func (m *Module) onOwnerSuspended(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.OwnerSuspended)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	if err := m.sender.SendAccountDeletedEmail(ctx, evt.OwnerEmail, evt.OwnerFirstName); err != nil {
		m.log.EmailError("account_deleted", evt.OwnerEmail, err)
	}
	return nil
}

// onTourRequested notifies the owner with the requester's contact details and
// the requester with a confirmation including the owner's contact details.
func (m *Module) onTourRequested(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.TourRequested)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	details := email.TourDetails{
		PropertyTitle:  evt.PropertyTitle,
		PropertyCity:   evt.PropertyCity,
		RequesterName:  evt.Requester.Name,
		RequesterEmail: evt.Requester.Email,
		RequesterPhone: evt.Requester.Mobile,
		OwnerName:      evt.Owner.Name,
		OwnerEmail:     evt.Owner.Email,
		OwnerPhone:     evt.Owner.Mobile,
		PreferredDates: evt.PreferredDates,
		Notes:          evt.Notes,
	}

	if err := m.sender.SendTourRequestEmail(ctx, evt.Owner.Email, details); err != nil {
		m.log.EmailError("tour_request", evt.Owner.Email, err)
	}
	if err := m.sender.SendTourConfirmationEmail(ctx, evt.Requester.Email, details); err != nil {
		m.log.EmailError("tour_confirmation", evt.Requester.Email, err)
	}
	return nil
}

func (m *Module) onTourReminderDue(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.TourReminderDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	if err := m.sender.SendTourReminderEmail(ctx, evt.RequesterEmail, evt.RequesterFirstName, evt.PropertyTitle, evt.PreferredDate); err != nil {
		m.log.EmailError("tour_reminder", evt.RequesterEmail, err)
	}
	return nil
}
