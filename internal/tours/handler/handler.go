package handler

import (
	"net/http"

	"homehunt_backend/internal/tours/repository"
	"homehunt_backend/internal/tours/service"
	"homehunt_backend/internal/tours/transport"
	"homehunt_backend/platform/httpkit"
	"homehunt_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

// Create handles POST /tours/create.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	message, err := h.svc.CreateTourRequest(c.Request.Context(), identity.UserID(), req.PropertyID, req.PreferredDates, req.Notes)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.CreateTourResponse{Message: message})
}

// ListMine handles GET /tours/mine.
func (h *Handler) ListMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	requests, err := h.svc.ListMine(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"items": toResponses(requests)})
}

// ListIncoming handles GET /tours/incoming.
func (h *Handler) ListIncoming(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	requests, err := h.svc.ListIncoming(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"items": toResponses(requests)})
}

func toResponses(requests []repository.TourRequest) []transport.TourRequestResponse {
	items := make([]transport.TourRequestResponse, 0, len(requests))
	for _, tr := range requests {
		items = append(items, transport.TourRequestResponse{
			ID:             tr.ID,
			PropertyID:     tr.PropertyID,
			RequesterID:    tr.RequesterID,
			OwnerID:        tr.OwnerID,
			PreferredDates: tr.PreferredDates,
			Notes:          tr.Notes,
			Status:         tr.Status,
			CreatedAt:      tr.CreatedAt,
		})
	}
	return items
}
