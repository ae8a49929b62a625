// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"homehunt_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Reports Domain Events
// =============================================================================

// ReportReceived is published when a report is recorded without crossing any
// moderation threshold.
type ReportReceived struct {
	BaseEvent
	PropertyID     int64  `json:"propertyId"`
	PropertyTitle  string `json:"propertyTitle"`
	OwnerID        int64  `json:"ownerId"`
	OwnerEmail     string `json:"ownerEmail"`
	OwnerFirstName string `json:"ownerFirstName"`
	ReportCount    int    `json:"reportCount"`
}

func (e ReportReceived) EventName() string { return "reports.report.received" }

// PropertyWarned is published when a property's report count reaches the
// warning threshold exactly.
type PropertyWarned struct {
	BaseEvent
	PropertyID     int64  `json:"propertyId"`
	PropertyTitle  string `json:"propertyTitle"`
	OwnerID        int64  `json:"ownerId"`
	OwnerEmail     string `json:"ownerEmail"`
	OwnerFirstName string `json:"ownerFirstName"`
	ReportCount    int    `json:"reportCount"`
}

func (e PropertyWarned) EventName() string { return "reports.property.warned" }

// PropertyDelisted is published when a property is deleted for excessive
// reports and its owner receives a strike but keeps the account.
type PropertyDelisted struct {
	BaseEvent
	PropertyID     int64  `json:"propertyId"`
	PropertyTitle  string `json:"propertyTitle"`
	OwnerID        int64  `json:"ownerId"`
	OwnerEmail     string `json:"ownerEmail"`
	OwnerFirstName string `json:"ownerFirstName"`
	StrikeCount    int    `json:"strikeCount"`
}

func (e PropertyDelisted) EventName() string { return "reports.property.delisted" }

// OwnerSuspended is published when an owner reaches the strike limit: the
// account is deactivated and every listing of that owner is deleted.
type OwnerSuspended struct {
	BaseEvent
	OwnerID        int64  `json:"ownerId"`
	OwnerEmail     string `json:"ownerEmail"`
	OwnerFirstName string `json:"ownerFirstName"`
}

func (e OwnerSuspended) EventName() string { return "reports.owner.suspended" }

// =============================================================================
// Tours Domain Events
// =============================================================================

// TourContact carries the contact details embedded in tour notifications so
// handlers need no repository access.
type TourContact struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// TourRequested is published when a tour request is created.
type TourRequested struct {
	BaseEvent
	TourRequestID  int64       `json:"tourRequestId"`
	PropertyID     int64       `json:"propertyId"`
	PropertyTitle  string      `json:"propertyTitle"`
	PropertyCity   string      `json:"propertyCity"`
	Requester      TourContact `json:"requester"`
	Owner          TourContact `json:"owner"`
	PreferredDates []time.Time `json:"preferredDates"`
	Notes          string      `json:"notes"`
}

func (e TourRequested) EventName() string { return "tours.tour.requested" }

// TourReminderDue is published by the scheduler worker when a tour's earliest
// preferred date is approaching.
type TourReminderDue struct {
	BaseEvent
	TourRequestID      int64     `json:"tourRequestId"`
	PropertyTitle      string    `json:"propertyTitle"`
	RequesterEmail     string    `json:"requesterEmail"`
	RequesterFirstName string    `json:"requesterFirstName"`
	PreferredDate      time.Time `json:"preferredDate"`
}

func (e TourReminderDue) EventName() string { return "tours.tour.reminder_due" }
