// Package properties provides the listing bounded context module.
package properties

import (
	"homehunt_backend/internal/http"
	"homehunt_backend/internal/properties/handler"
	"homehunt_backend/internal/properties/repository"
	"homehunt_backend/internal/properties/service"
	"homehunt_backend/internal/storage"
	"homehunt_backend/platform/logger"
	"homehunt_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the properties bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the properties module. files may be nil
// when object storage is disabled.
func NewModule(pool *pgxpool.Pool, files storage.ObjectStore, bucket string, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, files, bucket, log)
	h := handler.New(svc, validate)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "properties"
}

// RegisterRoutes mounts property routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	// Browsing is public; listings are searchable without an account.
	ctx.V1.GET("/properties", m.handler.List)
	ctx.V1.GET("/properties/:id", m.handler.Get)

	ctx.Protected.POST("/properties", m.handler.Create)
	ctx.Protected.PUT("/properties/:id", m.handler.Update)
	ctx.Protected.DELETE("/properties/:id", m.handler.Delete)

	ctx.Protected.POST("/properties/:id/images/upload-url", m.handler.RequestImageUpload)
	ctx.Protected.POST("/properties/:id/images", m.handler.ConfirmImage)
	ctx.Protected.DELETE("/properties/:id/images/:imageId", m.handler.DeleteImage)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
