// Package favorites lets users save listings and retrieve them later.
package favorites

import (
	"homehunt_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the favorites bounded context module implementing http.Module.
type Module struct {
	handler *handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{handler: &handler{repo: NewRepository(pool)}}
}

func (m *Module) Name() string {
	return "favorites"
}

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.Protected.GET("/favorites", m.handler.list)
	ctx.Protected.POST("/favorites/:propertyId", m.handler.add)
	ctx.Protected.DELETE("/favorites/:propertyId", m.handler.remove)
}

var _ http.Module = (*Module)(nil)
