package handler

import (
	"net/http"

	"homehunt_backend/internal/reports/service"
	"homehunt_backend/internal/reports/transport"
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

// SubmitReport handles POST /reports/scammer.
func (h *Handler) SubmitReport(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	outcome, err := h.svc.SubmitReport(c.Request.Context(), identity.UserID(), req.PropertyID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.SubmitReportResponse{
		Message: "Report submitted successfully.",
		Outcome: string(outcome),
	})
}
