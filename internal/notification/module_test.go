package notification

import (
	"context"
	"testing"
	"time"

	"homehunt_backend/internal/email"
	"homehunt_backend/internal/events"
	"homehunt_backend/platform/logger"
)

type testSender struct {
	reportReceivedCalls  int
	reportWarningCalls   int
	propertyDeletedCalls int
	strikeNoticeCalls    int
	accountDeletedCalls  int
	tourRequestCalls     int
	tourConfirmCalls     int
	tourReminderCalls    int

	lastTourDetails email.TourDetails
}

func (s *testSender) SendVerificationEmail(context.Context, string, string) error  { return nil }
func (s *testSender) SendPasswordResetEmail(context.Context, string, string) error { return nil }
func (s *testSender) SendReportReceivedEmail(context.Context, string, string, string) error {
	s.reportReceivedCalls++
	return nil
}
func (s *testSender) SendReportWarningEmail(context.Context, string, string, string) error {
	s.reportWarningCalls++
	return nil
}
func (s *testSender) SendPropertyDeletedEmail(context.Context, string, string, string) error {
	s.propertyDeletedCalls++
	return nil
}
func (s *testSender) SendStrikeNoticeEmail(context.Context, string, string) error {
	s.strikeNoticeCalls++
	return nil
}
func (s *testSender) SendAccountDeletedEmail(context.Context, string, string) error {
	s.accountDeletedCalls++
	return nil
}
func (s *testSender) SendTourRequestEmail(_ context.Context, _ string, details email.TourDetails) error {
	s.tourRequestCalls++
	s.lastTourDetails = details
	return nil
}
func (s *testSender) SendTourConfirmationEmail(_ context.Context, _ string, _ email.TourDetails) error {
	s.tourConfirmCalls++
	return nil
}
func (s *testSender) SendTourReminderEmail(context.Context, string, string, string, time.Time) error {
	s.tourReminderCalls++
	return nil
}

func TestPropertyDelistedSendsDeletionAndStrikeNotice(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, logger.New("development"))

	err := m.onPropertyDelisted(context.Background(), events.PropertyDelisted{
		BaseEvent:      events.NewBaseEvent(),
		PropertyID:     10,
		PropertyTitle:  "Seaside apartment",
		OwnerID:        1,
		OwnerEmail:     "owner@example.com",
		OwnerFirstName: "Rami",
		StrikeCount:    1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.propertyDeletedCalls != 1 || sender.strikeNoticeCalls != 1 {
		t.Fatalf("expected deletion + strike notice, got %d and %d",
			sender.propertyDeletedCalls, sender.strikeNoticeCalls)
	}
	if sender.accountDeletedCalls != 0 {
		t.Fatal("delisting must not send the account-deleted notice")
	}
}

func TestOwnerSuspendedSendsOnlyAccountDeleted(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, logger.New("development"))

	err := m.onOwnerSuspended(context.Background(), events.OwnerSuspended{
		BaseEvent:      events.NewBaseEvent(),
		OwnerID:        1,
		OwnerEmail:     "owner@example.com",
		OwnerFirstName: "Rami",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.accountDeletedCalls != 1 {
		t.Fatalf("expected 1 account-deleted email, got %d", sender.accountDeletedCalls)
	}
	if sender.propertyDeletedCalls != 0 || sender.strikeNoticeCalls != 0 {
		t.Fatal("suspension must not send per-property notices")
	}
}

func TestTourRequestedNotifiesBothParties(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, logger.New("development"))

	err := m.onTourRequested(context.Background(), events.TourRequested{
		BaseEvent:     events.NewBaseEvent(),
		TourRequestID: 1,
		PropertyID:    10,
		PropertyTitle: "Seaside apartment",
		PropertyCity:  "Byblos",
		Requester:     events.TourContact{Name: "Lina Khoury", Email: "lina@example.com", Mobile: "+96170123456"},
		Owner:         events.TourContact{Name: "Rami Saad", Email: "rami@example.com"},
		PreferredDates: []time.Time{
			time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC),
		},
		Notes: "prefer mornings",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.tourRequestCalls != 1 || sender.tourConfirmCalls != 1 {
		t.Fatalf("expected owner + requester emails, got %d and %d",
			sender.tourRequestCalls, sender.tourConfirmCalls)
	}
	if sender.lastTourDetails.RequesterName != "Lina Khoury" {
		t.Fatalf("unexpected requester in details: %+v", sender.lastTourDetails)
	}
	if sender.lastTourDetails.OwnerEmail != "rami@example.com" {
		t.Fatalf("unexpected owner in details: %+v", sender.lastTourDetails)
	}
}

func TestHandlersRejectUnexpectedEventType(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, logger.New("development"))

	if err := m.onOwnerSuspended(context.Background(), events.ReportReceived{}); err == nil {
		t.Fatal("expected error for mismatched event type")
	}
}
