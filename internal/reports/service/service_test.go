package service

import (
	"context"
	"testing"

	"homehunt_backend/internal/events"
	"homehunt_backend/internal/reports/repository"
	"homehunt_backend/platform/apperr"
	"homehunt_backend/platform/logger"
)

type reportKey struct {
	reporterID int64
	propertyID int64
}

// fakeStore is an in-memory TxStore. Rejections happen before any mutation,
// so rollback does not need to be simulated.
type fakeStore struct {
	property        repository.ReportedProperty
	propertyMissing bool
	reports         map[reportKey]bool
	strikes         int

	propertyDeleted        bool
	ownerPropertiesDeleted bool
	ownerDeactivated       bool
}

func (f *fakeStore) InTx(_ context.Context, fn func(tx repository.TxStore) error) error {
	return fn(f)
}

func (f *fakeStore) GetPropertyForUpdate(_ context.Context, propertyID int64) (repository.ReportedProperty, error) {
	if f.propertyMissing || f.property.ID != propertyID {
		return repository.ReportedProperty{}, repository.ErrNotFound
	}
	return f.property, nil
}

func (f *fakeStore) HasReport(_ context.Context, reporterID, propertyID int64) (bool, error) {
	return f.reports[reportKey{reporterID, propertyID}], nil
}

func (f *fakeStore) InsertReport(_ context.Context, reporterID, propertyID int64) error {
	key := reportKey{reporterID, propertyID}
	if f.reports[key] {
		return repository.ErrDuplicate
	}
	if f.reports == nil {
		f.reports = make(map[reportKey]bool)
	}
	f.reports[key] = true
	return nil
}

func (f *fakeStore) IncrementReportCount(_ context.Context, _ int64) (int, error) {
	f.property.ReportCount++
	return f.property.ReportCount, nil
}

func (f *fakeStore) SoftDeleteProperty(_ context.Context, _ int64) error {
	f.propertyDeleted = true
	return nil
}

func (f *fakeStore) IncrementStrike(_ context.Context, _ int64) (int, error) {
	f.strikes++
	return f.strikes, nil
}

func (f *fakeStore) SoftDeleteOwnerProperties(_ context.Context, _ int64) (int, error) {
	f.ownerPropertiesDeleted = true
	return 2, nil
}

func (f *fakeStore) DeactivateUser(_ context.Context, _ int64) error {
	f.ownerDeactivated = true
	return nil
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

func listing(reportCount int) repository.ReportedProperty {
	return repository.ReportedProperty{
		ID:             10,
		Title:          "Seaside apartment",
		OwnerID:        1,
		OwnerEmail:     "owner@example.com",
		OwnerFirstName: "Rami",
		OwnerActive:    true,
		ReportCount:    reportCount,
	}
}

func newTestService(store *fakeStore, bus *recordingBus, thresholds Thresholds) *Service {
	return New(store, bus, thresholds, logger.New("development"))
}

func defaultThresholds() Thresholds {
	return Thresholds{Warning: 3, PropertyDeletion: 5, OwnerStrikeLimit: 3}
}

func TestSubmitReport_FirstReportReceived(t *testing.T) {
	store := &fakeStore{property: listing(0)}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	outcome, err := svc.SubmitReport(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeReceived {
		t.Fatalf("expected outcome %q, got %q", OutcomeReceived, outcome)
	}
	if store.property.ReportCount != 1 {
		t.Fatalf("expected report count 1, got %d", store.property.ReportCount)
	}
	if store.propertyDeleted {
		t.Fatal("property must not be deleted on first report")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.ReportReceived)
	if !ok {
		t.Fatalf("expected ReportReceived event, got %T", bus.published[0])
	}
	if evt.ReportCount != 1 || evt.OwnerEmail != "owner@example.com" {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
}

func TestSubmitReport_WarningFiresOnExactCount(t *testing.T) {
	store := &fakeStore{property: listing(2)}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	outcome, err := svc.SubmitReport(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeWarned {
		t.Fatalf("expected outcome %q, got %q", OutcomeWarned, outcome)
	}
	if store.propertyDeleted {
		t.Fatal("warning must not delete the property")
	}
	if store.strikes != 0 {
		t.Fatalf("warning must not strike the owner, got %d strikes", store.strikes)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(events.PropertyWarned); !ok {
		t.Fatalf("expected PropertyWarned event, got %T", bus.published[0])
	}
}

func TestSubmitReport_NoWarningPastThreshold(t *testing.T) {
	// Count moves 3 -> 4: above the warning threshold but below deletion. The
	// warning fired at exactly 3 and must not repeat.
	store := &fakeStore{property: listing(3)}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	outcome, err := svc.SubmitReport(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeReceived {
		t.Fatalf("expected outcome %q, got %q", OutcomeReceived, outcome)
	}
	if _, ok := bus.published[0].(events.ReportReceived); !ok {
		t.Fatalf("expected ReportReceived event, got %T", bus.published[0])
	}
}

func TestSubmitReport_DeletionBelowStrikeLimit(t *testing.T) {
	store := &fakeStore{property: listing(4)}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	outcome, err := svc.SubmitReport(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomePropertyDeleted {
		t.Fatalf("expected outcome %q, got %q", OutcomePropertyDeleted, outcome)
	}
	if !store.propertyDeleted {
		t.Fatal("property must be deleted at the deletion threshold")
	}
	if store.strikes != 1 {
		t.Fatalf("expected 1 strike, got %d", store.strikes)
	}
	if store.ownerDeactivated || store.ownerPropertiesDeleted {
		t.Fatal("owner must keep the account below the strike limit")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.PropertyDelisted)
	if !ok {
		t.Fatalf("expected PropertyDelisted event, got %T", bus.published[0])
	}
	if evt.StrikeCount != 1 {
		t.Fatalf("expected strike count 1 in event, got %d", evt.StrikeCount)
	}
}

func TestSubmitReport_StrikeLimitSuspendsOwner(t *testing.T) {
	store := &fakeStore{property: listing(4), strikes: 2}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	outcome, err := svc.SubmitReport(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeOwnerSuspended {
		t.Fatalf("expected outcome %q, got %q", OutcomeOwnerSuspended, outcome)
	}
	if !store.ownerDeactivated {
		t.Fatal("owner must be deactivated at the strike limit")
	}
	if !store.ownerPropertiesDeleted {
		t.Fatal("all owner listings must be removed at the strike limit")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected exactly 1 event on suspension, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(events.OwnerSuspended); !ok {
		t.Fatalf("expected OwnerSuspended event, got %T", bus.published[0])
	}
}

func TestSubmitReport_DeletedListingStillAccruesStrikes(t *testing.T) {
	// A delisted property remains reportable. Continued reports re-enter the
	// deletion branch and keep raising the strike count, which is the only
	// path by which a single-listing owner ever reaches the strike limit.
	store := &fakeStore{property: listing(5), strikes: 1, propertyDeleted: true}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	outcome, err := svc.SubmitReport(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomePropertyDeleted {
		t.Fatalf("expected outcome %q, got %q", OutcomePropertyDeleted, outcome)
	}
	if store.strikes != 2 {
		t.Fatalf("expected 2 strikes, got %d", store.strikes)
	}
	if store.ownerDeactivated {
		t.Fatal("owner must still be active below the strike limit")
	}

	outcome, err = svc.SubmitReport(context.Background(), 4, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeOwnerSuspended {
		t.Fatalf("expected outcome %q, got %q", OutcomeOwnerSuspended, outcome)
	}
	if store.strikes != 3 {
		t.Fatalf("expected 3 strikes, got %d", store.strikes)
	}
	if !store.ownerDeactivated {
		t.Fatal("third strike must deactivate the owner")
	}
}

func TestSubmitReport_PropertyNotFound(t *testing.T) {
	store := &fakeStore{propertyMissing: true}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	_, err := svc.SubmitReport(context.Background(), 2, 99)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestSubmitReport_SelfReportRejected(t *testing.T) {
	store := &fakeStore{
		property: listing(0),
		// The self-report check runs before the duplicate check.
		reports: map[reportKey]bool{{1, 10}: true},
	}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	_, err := svc.SubmitReport(context.Background(), 1, 10)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if store.property.ReportCount != 0 {
		t.Fatalf("rejection must not change the report count, got %d", store.property.ReportCount)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestSubmitReport_DuplicateRejected(t *testing.T) {
	store := &fakeStore{
		property: listing(1),
		reports:  map[reportKey]bool{{2, 10}: true},
	}
	bus := &recordingBus{}
	svc := newTestService(store, bus, defaultThresholds())

	_, err := svc.SubmitReport(context.Background(), 2, 10)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if store.property.ReportCount != 1 {
		t.Fatalf("duplicate must not change the report count, got %d", store.property.ReportCount)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestSubmitReport_EscalationSequence(t *testing.T) {
	thresholds := Thresholds{Warning: 2, PropertyDeletion: 3, OwnerStrikeLimit: 2}
	store := &fakeStore{property: listing(0)}
	bus := &recordingBus{}
	svc := newTestService(store, bus, thresholds)

	expected := []Outcome{OutcomeReceived, OutcomeWarned, OutcomePropertyDeleted}
	for i, want := range expected {
		reporterID := int64(100 + i)
		outcome, err := svc.SubmitReport(context.Background(), reporterID, 10)
		if err != nil {
			t.Fatalf("report %d: unexpected error: %v", i+1, err)
		}
		if outcome != want {
			t.Fatalf("report %d: expected outcome %q, got %q", i+1, want, outcome)
		}
	}
	if !store.propertyDeleted {
		t.Fatal("third report must delete the listing")
	}
	if store.strikes != 1 {
		t.Fatalf("expected 1 strike after first delisting, got %d", store.strikes)
	}
	if store.ownerDeactivated {
		t.Fatal("owner must still be active after the first strike")
	}

	// A second listing by the same owner runs the full course again; the
	// second strike crosses the limit and suspends the account.
	store.property = repository.ReportedProperty{
		ID: 11, Title: "Downtown loft", OwnerID: 1,
		OwnerEmail: "owner@example.com", OwnerFirstName: "Rami", OwnerActive: true,
	}
	store.propertyDeleted = false

	expected = []Outcome{OutcomeReceived, OutcomeWarned, OutcomeOwnerSuspended}
	for i, want := range expected {
		reporterID := int64(200 + i)
		outcome, err := svc.SubmitReport(context.Background(), reporterID, 11)
		if err != nil {
			t.Fatalf("second listing, report %d: unexpected error: %v", i+1, err)
		}
		if outcome != want {
			t.Fatalf("second listing, report %d: expected outcome %q, got %q", i+1, want, outcome)
		}
	}
	if store.strikes != 2 {
		t.Fatalf("expected 2 strikes, got %d", store.strikes)
	}
	if !store.ownerDeactivated || !store.ownerPropertiesDeleted {
		t.Fatal("second strike must suspend the owner and delist everything")
	}
}
