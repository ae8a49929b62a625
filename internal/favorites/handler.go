package favorites

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"homehunt_backend/platform/apperr"
	"homehunt_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type favoriteResponse struct {
	PropertyID int64     `json:"propertyId"`
	Title      string    `json:"title"`
	City       string    `json:"city"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Price      float64   `json:"price"`
	SavedAt    time.Time `json:"savedAt"`
}

type handler struct {
	repo *Repository
}

func (h *handler) add(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	propertyID, ok := parsePropertyID(c)
	if !ok {
		return
	}

	if err := h.save(c.Request.Context(), identity.UserID(), propertyID); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, gin.H{"message": "property saved"})
}

func (h *handler) save(ctx context.Context, userID, propertyID int64) error {
	exists, err := h.repo.PropertyExists(ctx, propertyID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Property not found.")
	}

	_, err = h.repo.Add(ctx, userID, propertyID)
	return err
}

func (h *handler) remove(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	propertyID, ok := parsePropertyID(c)
	if !ok {
		return
	}

	removed, err := h.repo.Remove(c.Request.Context(), identity.UserID(), propertyID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if !removed {
		httpkit.HandleError(c, apperr.NotFound("favorite not found"))
		return
	}

	httpkit.OK(c, gin.H{"message": "property removed from favorites"})
}

func (h *handler) list(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	favorites, err := h.repo.List(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	items := make([]favoriteResponse, 0, len(favorites))
	for _, fav := range favorites {
		items = append(items, favoriteResponse(fav))
	}

	httpkit.OK(c, gin.H{"items": items})
}

func parsePropertyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("propertyId"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return 0, false
	}
	return id, true
}
