package handler

import (
	"net/http"
	"strconv"

	"homehunt_backend/internal/properties/repository"
	"homehunt_backend/internal/properties/service"
	"homehunt_backend/internal/properties/transport"
	"homehunt_backend/platform/httpkit"
	"homehunt_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) List(c *gin.Context) {
	var q transport.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	filter := repository.Filter{
		City:         q.City,
		Village:      q.Village,
		Type:         q.Type,
		Status:       q.Status,
		RentDuration: q.RentDuration,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		Bedrooms:     q.Bedrooms,
		Bathrooms:    q.Bathrooms,
		Kitchens:     q.Kitchens,
		LivingRooms:  q.LivingRooms,
		OwnerID:      q.OwnerID,
	}

	results, total, page, pageSize, err := h.svc.List(c.Request.Context(), filter, q.Page, q.PageSize)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	items := make([]transport.PropertyResponse, 0, len(results))
	for _, result := range results {
		items = append(items, toResponse(result))
	}

	httpkit.OK(c, transport.PropertyListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, toResponse(result))
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), identity.UserID(), repository.Property{
		Title:            req.Title,
		Description:      req.Description,
		City:             req.City,
		Village:          req.Village,
		Street:           req.Street,
		Type:             req.Type,
		Status:           req.Status,
		Price:            req.Price,
		RentDuration:     req.RentDuration,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		Kitchens:         req.Kitchens,
		LivingRooms:      req.LivingRooms,
		Utilities:        req.Utilities,
		Policies:         req.Policies,
		Requirements:     req.Requirements,
		AvailabilityDate: req.AvailabilityDate,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, toResponse(service.PropertyWithImages{Property: created}))
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), identity.UserID(), repository.Property{
		ID:               id,
		Title:            req.Title,
		Description:      req.Description,
		City:             req.City,
		Village:          req.Village,
		Street:           req.Street,
		Type:             req.Type,
		Status:           req.Status,
		Price:            req.Price,
		RentDuration:     req.RentDuration,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		Kitchens:         req.Kitchens,
		LivingRooms:      req.LivingRooms,
		Utilities:        req.Utilities,
		Policies:         req.Policies,
		Requirements:     req.Requirements,
		AvailabilityDate: req.AvailabilityDate,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		IsAvailable:      req.IsAvailable,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, toResponse(service.PropertyWithImages{Property: updated}))
}

func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"message": "property deleted"})
}

func (h *Handler) RequestImageUpload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	presigned, err := h.svc.RequestImageUpload(c.Request.Context(), identity.UserID(), id, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ImageUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	})
}

func (h *Handler) ConfirmImage(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.ConfirmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	img, err := h.svc.ConfirmImage(c.Request.Context(), identity.UserID(), id, req.FileKey, req.ContentType, req.IsTheme)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ImageResponse{ID: img.ID, URL: img.URL, IsTheme: img.IsTheme})
}

func (h *Handler) DeleteImage(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}

	if err := h.svc.DeleteImage(c.Request.Context(), identity.UserID(), id, imageID); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"message": "image deleted"})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return 0, false
	}
	return id, true
}

func toResponse(result service.PropertyWithImages) transport.PropertyResponse {
	p := result.Property
	images := make([]transport.ImageResponse, 0, len(result.Images))
	for _, img := range result.Images {
		images = append(images, transport.ImageResponse{ID: img.ID, URL: img.URL, IsTheme: img.IsTheme})
	}

	return transport.PropertyResponse{
		ID:               p.ID,
		OwnerID:          p.OwnerID,
		Title:            p.Title,
		Description:      p.Description,
		City:             p.City,
		Village:          p.Village,
		Street:           p.Street,
		Type:             p.Type,
		Status:           p.Status,
		Price:            p.Price,
		RentDuration:     p.RentDuration,
		Bedrooms:         p.Bedrooms,
		Bathrooms:        p.Bathrooms,
		Kitchens:         p.Kitchens,
		LivingRooms:      p.LivingRooms,
		Utilities:        p.Utilities,
		Policies:         p.Policies,
		Requirements:     p.Requirements,
		AvailabilityDate: p.AvailabilityDate,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		IsAvailable:      p.IsAvailable,
		Images:           images,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
