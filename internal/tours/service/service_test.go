package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"homehunt_backend/internal/events"
	"homehunt_backend/internal/tours/repository"
	"homehunt_backend/platform/apperr"
	"homehunt_backend/platform/logger"
)

type fakeUsers struct {
	users map[int64]repository.Party
}

func (f *fakeUsers) GetUser(_ context.Context, userID int64) (repository.Party, error) {
	u, ok := f.users[userID]
	if !ok {
		return repository.Party{}, repository.ErrNotFound
	}
	return u, nil
}

type fakeProperties struct {
	properties map[int64]repository.TourProperty
}

func (f *fakeProperties) GetProperty(_ context.Context, propertyID int64) (repository.TourProperty, error) {
	p, ok := f.properties[propertyID]
	if !ok {
		return repository.TourProperty{}, repository.ErrNotFound
	}
	return p, nil
}

type fakeTourStore struct {
	existing bool
	inserted *repository.TourRequest
}

func (f *fakeTourStore) HasTourRequest(_ context.Context, _, _ int64) (bool, error) {
	return f.existing, nil
}

func (f *fakeTourStore) InsertTourRequest(_ context.Context, tr repository.TourRequest) (repository.TourRequest, error) {
	if f.existing {
		return repository.TourRequest{}, repository.ErrDuplicate
	}
	tr.ID = 1
	tr.Status = repository.StatusPending
	tr.CreatedAt = time.Now()
	f.inserted = &tr
	return tr, nil
}

func (f *fakeTourStore) ListByRequester(_ context.Context, _ int64) ([]repository.TourRequest, error) {
	return nil, nil
}

func (f *fakeTourStore) ListByOwner(_ context.Context, _ int64) ([]repository.TourRequest, error) {
	return nil, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type recordingScheduler struct {
	tourRequestID int64
	preferredDate time.Time
	calls         int
	err           error
}

func (s *recordingScheduler) ScheduleTourReminder(_ context.Context, tourRequestID int64, preferredDate time.Time) error {
	s.calls++
	s.tourRequestID = tourRequestID
	s.preferredDate = preferredDate
	return s.err
}

const (
	requesterID = int64(1)
	ownerID     = int64(2)
	propertyID  = int64(10)
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	users     *fakeUsers
	store     *fakeTourStore
	bus       *recordingBus
	scheduler *recordingScheduler
}

func newFixture() *fixture {
	users := &fakeUsers{users: map[int64]repository.Party{
		requesterID: {ID: requesterID, FirstName: "Lina", LastName: "Khoury", Email: "lina@example.com", MobileNumber: "+96170123456", IsActive: true},
		ownerID:     {ID: ownerID, FirstName: "Rami", LastName: "Saad", Email: "rami@example.com", IsActive: true},
	}}
	properties := &fakeProperties{properties: map[int64]repository.TourProperty{
		propertyID: {ID: propertyID, Title: "Seaside apartment", City: "Byblos", OwnerID: ownerID},
	}}
	store := &fakeTourStore{}
	bus := &recordingBus{}
	scheduler := &recordingScheduler{}

	svc := New(users, properties, store, bus, scheduler, logger.New("development"))
	svc.now = func() time.Time { return fixedNow }

	return &fixture{svc: svc, users: users, store: store, bus: bus, scheduler: scheduler}
}

func futureDate(days int) string {
	return fixedNow.AddDate(0, 0, days).Format(time.RFC3339)
}

func TestCreateTourRequest_Success(t *testing.T) {
	f := newFixture()

	msg, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{futureDate(7), futureDate(8)}, "prefer mornings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != ConfirmationMessage {
		t.Fatalf("expected confirmation message %q, got %q", ConfirmationMessage, msg)
	}

	if f.store.inserted == nil {
		t.Fatal("expected a tour request to be persisted")
	}
	if f.store.inserted.Status != repository.StatusPending {
		t.Fatalf("expected status %q, got %q", repository.StatusPending, f.store.inserted.Status)
	}
	if f.store.inserted.OwnerID != ownerID {
		t.Fatalf("expected owner id %d on the row, got %d", ownerID, f.store.inserted.OwnerID)
	}
	if len(f.store.inserted.PreferredDates) != 2 {
		t.Fatalf("expected 2 preferred dates, got %d", len(f.store.inserted.PreferredDates))
	}

	if len(f.bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.bus.published))
	}
	evt, ok := f.bus.published[0].(events.TourRequested)
	if !ok {
		t.Fatalf("expected TourRequested event, got %T", f.bus.published[0])
	}
	if evt.Owner.Email != "rami@example.com" || evt.Requester.Email != "lina@example.com" {
		t.Fatalf("unexpected contacts in event: %+v", evt)
	}
	if evt.Requester.Name != "Lina Khoury" {
		t.Fatalf("unexpected requester name %q", evt.Requester.Name)
	}

	if f.scheduler.calls != 1 {
		t.Fatalf("expected 1 reminder scheduled, got %d", f.scheduler.calls)
	}
	earliest := fixedNow.AddDate(0, 0, 7)
	if !f.scheduler.preferredDate.Equal(earliest) {
		t.Fatalf("reminder must target the earliest date, got %v", f.scheduler.preferredDate)
	}
}

func TestCreateTourRequest_RequesterMissingOrInactive(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTourRequest(context.Background(), 99, propertyID, []string{futureDate(7)}, "")
	assertMessage(t, err, apperr.KindForbidden, "Your account is not active or does not exist.")

	inactive := f.users.users[requesterID]
	inactive.IsActive = false
	f.users.users[requesterID] = inactive

	_, err = f.svc.CreateTourRequest(context.Background(), requesterID, propertyID, []string{futureDate(7)}, "")
	assertMessage(t, err, apperr.KindForbidden, "Your account is not active or does not exist.")
	if f.store.inserted != nil {
		t.Fatal("rejection must not persist a request")
	}
}

func TestCreateTourRequest_PropertyNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, 404, []string{futureDate(7)}, "")
	assertMessage(t, err, apperr.KindNotFound, "Property not found.")
}

func TestCreateTourRequest_OwnerMissing(t *testing.T) {
	f := newFixture()
	delete(f.users.users, ownerID)

	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID, []string{futureDate(7)}, "")
	assertMessage(t, err, apperr.KindNotFound, "Owner not found for the specified property.")
}

func TestCreateTourRequest_OwnerInactive(t *testing.T) {
	f := newFixture()
	owner := f.users.users[ownerID]
	owner.IsActive = false
	f.users.users[ownerID] = owner

	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID, []string{futureDate(7)}, "")
	assertMessage(t, err, apperr.KindForbidden, "Property owner is not active.")
}

func TestCreateTourRequest_DuplicateRequest(t *testing.T) {
	f := newFixture()
	f.store.existing = true

	// The duplicate check does not care about dates or notes.
	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{futureDate(30)}, "different notes this time")
	assertMessage(t, err, apperr.KindConflict, "You already have a tour request for this property.")
	if len(f.bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(f.bus.published))
	}
}

func TestCreateTourRequest_InvalidDateFormat(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{"next tuesday"}, "")
	assertMessage(t, err, apperr.KindValidation, "Invalid date format.")
}

func TestCreateTourRequest_PastDateRejected(t *testing.T) {
	f := newFixture()

	barelyPast := fixedNow.Add(-time.Second).Format(time.RFC3339)
	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{barelyPast}, "")
	assertMessage(t, err, apperr.KindValidation, "Preferred dates must be in the future.")
}

func TestCreateTourRequest_MixedValidAndPastDates(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{futureDate(7), fixedNow.AddDate(0, 0, -1).Format(time.RFC3339)}, "")
	assertMessage(t, err, apperr.KindValidation, "Preferred dates must be in the future.")
}

func TestCreateTourRequest_DuplicateDates(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{futureDate(7), futureDate(7)}, "")
	assertMessage(t, err, apperr.KindValidation, "Duplicate dates are not allowed.")
}

func TestCreateTourRequest_EmptyDateSlotsSkipped(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{futureDate(7), "", "  "}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.store.inserted.PreferredDates) != 1 {
		t.Fatalf("expected 1 preferred date, got %d", len(f.store.inserted.PreferredDates))
	}
}

func TestCreateTourRequest_DateOnlyLayoutAccepted(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{"2026-04-15"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	if !f.store.inserted.PreferredDates[0].Equal(want) {
		t.Fatalf("expected %v, got %v", want, f.store.inserted.PreferredDates[0])
	}
}

func TestCreateTourRequest_ReminderSkippedForImminentTour(t *testing.T) {
	f := newFixture()

	// Less than the reminder lead time away: enqueueing would fire in the past.
	soon := fixedNow.Add(12 * time.Hour).Format(time.RFC3339)
	_, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID, []string{soon}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.scheduler.calls != 0 {
		t.Fatalf("expected no reminder, got %d", f.scheduler.calls)
	}
}

func TestCreateTourRequest_SchedulerErrorDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	f.scheduler.err = errors.New("redis down")

	msg, err := f.svc.CreateTourRequest(context.Background(), requesterID, propertyID,
		[]string{futureDate(7)}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != ConfirmationMessage {
		t.Fatalf("expected confirmation message, got %q", msg)
	}
}

func assertMessage(t *testing.T, err error, kind apperr.Kind, message string) {
	t.Helper()

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected typed error, got %v", err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected kind %v, got %v (%q)", kind, appErr.Kind, appErr.Message)
	}
	if appErr.Message != message {
		t.Fatalf("expected message %q, got %q", message, appErr.Message)
	}
}
