// Package reports provides the scam-report bounded context: report intake and
// the escalating moderation actions driven by report counts.
package reports

import (
	"homehunt_backend/internal/events"
	"homehunt_backend/internal/http"
	"homehunt_backend/internal/reports/handler"
	"homehunt_backend/internal/reports/repository"
	"homehunt_backend/internal/reports/service"
	"homehunt_backend/platform/logger"
	"homehunt_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reports bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the reports module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, thresholds service.Thresholds, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, thresholds, log)
	h := handler.New(svc, validate)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reports"
}

// RegisterRoutes mounts report routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.Protected.POST("/reports/scammer", m.handler.SubmitReport)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
