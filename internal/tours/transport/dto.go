package transport

import "time"

type CreateTourRequest struct {
	PropertyID     int64    `json:"propertyId" validate:"required,gt=0"`
	PreferredDates []string `json:"preferredDates" validate:"max=3,dive,max=64"`
	Notes          string   `json:"notes" validate:"max=2000"`
}

type CreateTourResponse struct {
	Message string `json:"message"`
}

type TourRequestResponse struct {
	ID             int64       `json:"id"`
	PropertyID     int64       `json:"propertyId"`
	RequesterID    int64       `json:"requesterId"`
	OwnerID        int64       `json:"ownerId"`
	PreferredDates []time.Time `json:"preferredDates"`
	Notes          string      `json:"notes,omitempty"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
}
