// Package tours provides the tour request bounded context: validation,
// booking and the notifications that follow.
package tours

import (
	"homehunt_backend/internal/events"
	"homehunt_backend/internal/http"
	"homehunt_backend/internal/tours/handler"
	"homehunt_backend/internal/tours/repository"
	"homehunt_backend/internal/tours/service"
	"homehunt_backend/platform/logger"
	"homehunt_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tours bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the tours module. scheduler may be nil
// when delayed reminders are not configured.
func NewModule(pool *pgxpool.Pool, bus events.Bus, scheduler service.ReminderScheduler, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, repo, repo, bus, scheduler, log)
	h := handler.New(svc, validate)

	return &Module{handler: h, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tours"
}

// Repository exposes tour lookups for the scheduler worker.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts tour routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.Protected.POST("/tours/create", m.handler.Create)
	ctx.Protected.GET("/tours/mine", m.handler.ListMine)
	ctx.Protected.GET("/tours/incoming", m.handler.ListIncoming)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
