// Package service implements the tour request workflow: a fail-fast
// validation sequence, a Pending tour request with the owner id denormalized
// onto the row, and post-persist notifications that never fail the request.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homehunt_backend/internal/events"
	"homehunt_backend/internal/tours/repository"
	"homehunt_backend/platform/apperr"
	"homehunt_backend/platform/logger"
)

// ConfirmationMessage is returned to the requester on success.
const ConfirmationMessage = "You have successfully requested a tour."

const (
	msgAccountInactive   = "Your account is not active or does not exist."
	msgPropertyNotFound  = "Property not found."
	msgOwnerNotFound     = "Owner not found for the specified property."
	msgOwnerInactive     = "Property owner is not active."
	msgDuplicateRequest  = "You already have a tour request for this property."
	msgInvalidDateFormat = "Invalid date format."
	msgPastDates         = "Preferred dates must be in the future."
	msgDuplicateDates    = "Duplicate dates are not allowed."

	maxPreferredDates = 3
	reminderLeadTime  = 24 * time.Hour
)

// dateLayouts are tried in order when parsing preferred dates. Layouts
// without a zone are interpreted as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// UserReader looks up workflow participants.
type UserReader interface {
	GetUser(ctx context.Context, userID int64) (repository.Party, error)
}

// PropertyReader looks up visible listings.
type PropertyReader interface {
	GetProperty(ctx context.Context, propertyID int64) (repository.TourProperty, error)
}

// TourStore persists tour requests.
type TourStore interface {
	HasTourRequest(ctx context.Context, requesterID, propertyID int64) (bool, error)
	InsertTourRequest(ctx context.Context, tr repository.TourRequest) (repository.TourRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]repository.TourRequest, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]repository.TourRequest, error)
}

// ReminderScheduler enqueues a delayed reminder for an upcoming tour.
// Implementations compute their own delivery time from the preferred date.
type ReminderScheduler interface {
	ScheduleTourReminder(ctx context.Context, tourRequestID int64, preferredDate time.Time) error
}

type Service struct {
	users      UserReader
	properties PropertyReader
	store      TourStore
	bus        events.Bus
	scheduler  ReminderScheduler
	log        *logger.Logger
	now        func() time.Time
}

// New creates the tour workflow service. scheduler may be nil when delayed
// reminders are not configured.
func New(users UserReader, properties PropertyReader, store TourStore, bus events.Bus, scheduler ReminderScheduler, log *logger.Logger) *Service {
	return &Service{
		users:      users,
		properties: properties,
		store:      store,
		bus:        bus,
		scheduler:  scheduler,
		log:        log,
		now:        time.Now,
	}
}

// CreateTourRequest runs the validation sequence and persists a Pending
// request. The returned string is the confirmation message for the requester.
//
// The checks run in a fixed order and stop at the first failure: requester
// active, property visible, owner present and active, no existing request,
// then the date rules (format, future, distinct).
func (s *Service) CreateTourRequest(ctx context.Context, requesterID, propertyID int64, rawDates []string, notes string) (string, error) {
	requester, err := s.users.GetUser(ctx, requesterID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.Forbidden(msgAccountInactive)
	}
	if err != nil {
		return "", fmt.Errorf("load requester: %w", err)
	}
	if !requester.IsActive {
		return "", apperr.Forbidden(msgAccountInactive)
	}

	property, err := s.properties.GetProperty(ctx, propertyID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.NotFound(msgPropertyNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load property: %w", err)
	}

	owner, err := s.users.GetUser(ctx, property.OwnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.NotFound(msgOwnerNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load owner: %w", err)
	}
	if !owner.IsActive {
		return "", apperr.Forbidden(msgOwnerInactive)
	}

	exists, err := s.store.HasTourRequest(ctx, requesterID, propertyID)
	if err != nil {
		return "", fmt.Errorf("check existing request: %w", err)
	}
	if exists {
		return "", apperr.Conflict(msgDuplicateRequest)
	}

	dates, err := s.parseDates(rawDates)
	if err != nil {
		return "", err
	}

	created, err := s.store.InsertTourRequest(ctx, repository.TourRequest{
		PropertyID:     propertyID,
		RequesterID:    requesterID,
		OwnerID:        property.OwnerID,
		PreferredDates: dates,
		Notes:          notes,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return "", apperr.Conflict(msgDuplicateRequest)
	}
	if err != nil {
		return "", fmt.Errorf("insert tour request: %w", err)
	}

	s.bus.Publish(ctx, events.TourRequested{
		BaseEvent:     events.NewBaseEvent(),
		TourRequestID: created.ID,
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		PropertyCity:  property.City,
		Requester: events.TourContact{
			Name:   fullName(requester),
			Email:  requester.Email,
			Mobile: requester.MobileNumber,
		},
		Owner: events.TourContact{
			Name:   fullName(owner),
			Email:  owner.Email,
			Mobile: owner.MobileNumber,
		},
		PreferredDates: dates,
		Notes:          notes,
	})

	s.scheduleReminder(ctx, created.ID, dates)

	s.log.Info("tour request created",
		"tour_request_id", created.ID,
		"property_id", propertyID,
		"requester_id", requesterID,
	)

	return ConfirmationMessage, nil
}

// ListMine returns the caller's outgoing tour requests.
func (s *Service) ListMine(ctx context.Context, requesterID int64) ([]repository.TourRequest, error) {
	return s.store.ListByRequester(ctx, requesterID)
}

// ListIncoming returns tour requests for the caller's listings.
func (s *Service) ListIncoming(ctx context.Context, ownerID int64) ([]repository.TourRequest, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// parseDates validates the raw date strings: parseable, strictly in the
// future, and pairwise distinct. Empty strings are skipped.
func (s *Service) parseDates(rawDates []string) ([]time.Time, error) {
	if len(rawDates) > maxPreferredDates {
		rawDates = rawDates[:maxPreferredDates]
	}

	now := s.now()
	dates := make([]time.Time, 0, len(rawDates))
	for _, raw := range rawDates {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		parsed, ok := parseDate(raw)
		if !ok {
			return nil, apperr.Validation(msgInvalidDateFormat)
		}
		dates = append(dates, parsed)
	}

	for _, d := range dates {
		if d.Before(now) {
			return nil, apperr.Validation(msgPastDates)
		}
	}

	for i := 0; i < len(dates); i++ {
		for j := i + 1; j < len(dates); j++ {
			if dates[i].Equal(dates[j]) {
				return nil, apperr.Validation(msgDuplicateDates)
			}
		}
	}

	return dates, nil
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// scheduleReminder enqueues a reminder ahead of the earliest preferred date.
// Scheduling problems are logged, never surfaced.
func (s *Service) scheduleReminder(ctx context.Context, tourRequestID int64, dates []time.Time) {
	if s.scheduler == nil || len(dates) == 0 {
		return
	}

	earliest := dates[0]
	for _, d := range dates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}

	if earliest.Add(-reminderLeadTime).Before(s.now()) {
		return
	}

	if err := s.scheduler.ScheduleTourReminder(ctx, tourRequestID, earliest); err != nil {
		s.log.Error("failed to schedule tour reminder", "tour_request_id", tourRequestID, "error", err)
	}
}

func fullName(p repository.Party) string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
