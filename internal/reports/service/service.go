// Package service implements the report escalation engine. A submitted report
// increments the listing's report counter; the post-increment count is then
// checked against the moderation thresholds in descending severity order.
// Counters only grow: nothing ever removes a report or decrements a count.
package service

import (
	"context"
	"errors"
	"fmt"

	"homehunt_backend/internal/events"
	"homehunt_backend/internal/reports/repository"
	"homehunt_backend/platform/apperr"
	"homehunt_backend/platform/config"
	"homehunt_backend/platform/logger"
)

// Outcome describes what a successful report submission triggered.
type Outcome string

const (
	// OutcomeReceived means the report was recorded without crossing a threshold.
	OutcomeReceived Outcome = "received"
	// OutcomeWarned means the report count hit the warning threshold exactly.
	OutcomeWarned Outcome = "warned"
	// OutcomePropertyDeleted means the listing was removed and the owner struck.
	OutcomePropertyDeleted Outcome = "property_deleted"
	// OutcomeOwnerSuspended means the owner hit the strike limit: the account
	// was deactivated and every listing of that owner removed.
	OutcomeOwnerSuspended Outcome = "owner_suspended"
)

// Thresholds are the moderation constants, read once at startup.
type Thresholds struct {
	Warning          int
	PropertyDeletion int
	OwnerStrikeLimit int
}

// ThresholdsFromConfig builds the engine's thresholds from configuration.
func ThresholdsFromConfig(cfg config.ModerationConfig) Thresholds {
	return Thresholds{
		Warning:          cfg.GetWarningThreshold(),
		PropertyDeletion: cfg.GetPropertyDeletionThreshold(),
		OwnerStrikeLimit: cfg.GetOwnerStrikeLimit(),
	}
}

// Store runs a function against the report tables inside one transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx repository.TxStore) error) error
}

type Service struct {
	store      Store
	bus        events.Bus
	thresholds Thresholds
	log        *logger.Logger
}

func New(store Store, bus events.Bus, thresholds Thresholds, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, thresholds: thresholds, log: log}
}

// SubmitReport records a scam report and applies any moderation escalation.
//
// Rejections, in order: missing property, self-report, duplicate report. On
// success the report insert, the counter increment and any deletion or
// suspension happen in a single transaction. The matching notification event
// is published only after commit; event delivery is fire-and-forget.
func (s *Service) SubmitReport(ctx context.Context, reporterID, propertyID int64) (Outcome, error) {
	var (
		outcome  Outcome
		property repository.ReportedProperty
		strikes  int
	)

	err := s.store.InTx(ctx, func(tx repository.TxStore) error {
		var err error
		property, err = tx.GetPropertyForUpdate(ctx, propertyID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Property not found.")
		}
		if err != nil {
			return fmt.Errorf("load property: %w", err)
		}

		if property.OwnerID == reporterID {
			return apperr.Forbidden("You cannot report your own property.")
		}

		duplicate, err := tx.HasReport(ctx, reporterID, propertyID)
		if err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if duplicate {
			return apperr.Conflict("You have already reported this property.")
		}

		// The unique constraint on (reporter, property) closes the race between
		// the check above and this insert.
		if err := tx.InsertReport(ctx, reporterID, propertyID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("You have already reported this property.")
			}
			return fmt.Errorf("insert report: %w", err)
		}

		count, err := tx.IncrementReportCount(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("increment report count: %w", err)
		}
		property.ReportCount = count

		switch {
		case count >= s.thresholds.PropertyDeletion:
			if err := tx.SoftDeleteProperty(ctx, propertyID); err != nil {
				return fmt.Errorf("delete property: %w", err)
			}
			strikes, err = tx.IncrementStrike(ctx, property.OwnerID)
			if err != nil {
				return fmt.Errorf("increment strike: %w", err)
			}

			if strikes >= s.thresholds.OwnerStrikeLimit {
				// Punitive full delist: every listing goes, reported or not.
				if _, err := tx.SoftDeleteOwnerProperties(ctx, property.OwnerID); err != nil {
					return fmt.Errorf("delete owner properties: %w", err)
				}
				if err := tx.DeactivateUser(ctx, property.OwnerID); err != nil {
					return fmt.Errorf("deactivate owner: %w", err)
				}
				outcome = OutcomeOwnerSuspended
			} else {
				outcome = OutcomePropertyDeleted
			}

		// Exact equality: the count increments by exactly 1 per report, so the
		// warning fires exactly once on the way up.
		case count == s.thresholds.Warning:
			outcome = OutcomeWarned

		default:
			outcome = OutcomeReceived
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	s.publishOutcome(ctx, outcome, property, strikes)

	s.log.Info("report submitted",
		"property_id", propertyID,
		"reporter_id", reporterID,
		"report_count", property.ReportCount,
		"outcome", string(outcome),
	)

	return outcome, nil
}

// publishOutcome emits exactly one event per submission. The suspension
// branch deliberately does not also emit the per-property deletion event.
func (s *Service) publishOutcome(ctx context.Context, outcome Outcome, property repository.ReportedProperty, strikes int) {
	switch outcome {
	case OutcomeOwnerSuspended:
		s.bus.Publish(ctx, events.OwnerSuspended{
			BaseEvent:      events.NewBaseEvent(),
			OwnerID:        property.OwnerID,
			OwnerEmail:     property.OwnerEmail,
			OwnerFirstName: property.OwnerFirstName,
		})
	case OutcomePropertyDeleted:
		s.bus.Publish(ctx, events.PropertyDelisted{
			BaseEvent:      events.NewBaseEvent(),
			PropertyID:     property.ID,
			PropertyTitle:  property.Title,
			OwnerID:        property.OwnerID,
			OwnerEmail:     property.OwnerEmail,
			OwnerFirstName: property.OwnerFirstName,
			StrikeCount:    strikes,
		})
	case OutcomeWarned:
		s.bus.Publish(ctx, events.PropertyWarned{
			BaseEvent:      events.NewBaseEvent(),
			PropertyID:     property.ID,
			PropertyTitle:  property.Title,
			OwnerID:        property.OwnerID,
			OwnerEmail:     property.OwnerEmail,
			OwnerFirstName: property.OwnerFirstName,
			ReportCount:    property.ReportCount,
		})
	case OutcomeReceived:
		s.bus.Publish(ctx, events.ReportReceived{
			BaseEvent:      events.NewBaseEvent(),
			PropertyID:     property.ID,
			PropertyTitle:  property.Title,
			OwnerID:        property.OwnerID,
			OwnerEmail:     property.OwnerEmail,
			OwnerFirstName: property.OwnerFirstName,
			ReportCount:    property.ReportCount,
		})
	}
}
