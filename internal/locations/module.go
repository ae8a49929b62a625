// Package locations serves the city and village reference data used to file
// listings and drive search dropdowns.
package locations

import (
	nethttp "net/http"
	"strconv"

	"homehunt_backend/internal/http"
	"homehunt_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the locations bounded context module implementing http.Module.
type Module struct {
	repo *Repository
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{repo: NewRepository(pool)}
}

func (m *Module) Name() string {
	return "locations"
}

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.V1.GET("/locations/cities", m.listCities)
	ctx.V1.GET("/locations/cities/:id/villages", m.listVillages)
}

func (m *Module) listCities(c *gin.Context) {
	cities, err := m.repo.ListCities(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"items": cities})
}

func (m *Module) listVillages(c *gin.Context) {
	cityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || cityID <= 0 {
		httpkit.Error(c, nethttp.StatusBadRequest, "invalid request", nil)
		return
	}

	villages, err := m.repo.ListVillages(c.Request.Context(), cityID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"items": villages})
}

var _ http.Module = (*Module)(nil)
