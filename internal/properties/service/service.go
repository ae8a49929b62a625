// Package service implements listing management. Mutations are owner-only;
// reads exclude listings removed by their owner or by moderation.
package service

import (
	"context"
	"errors"
	"fmt"

	"homehunt_backend/internal/properties/repository"
	"homehunt_backend/internal/storage"
	"homehunt_backend/platform/apperr"
	"homehunt_backend/platform/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxImages       = 15
)

// Store is the persistence surface the property service needs.
type Store interface {
	Create(ctx context.Context, p repository.Property) (repository.Property, error)
	GetByID(ctx context.Context, id int64) (repository.Property, error)
	Update(ctx context.Context, p repository.Property) (repository.Property, error)
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.Filter) ([]repository.Property, int, error)

	AddImage(ctx context.Context, propertyID int64, fileKey, contentType string, isTheme bool) (repository.Image, error)
	ListImages(ctx context.Context, propertyID int64) ([]repository.Image, error)
	GetImage(ctx context.Context, propertyID, imageID int64) (repository.Image, error)
	DeleteImage(ctx context.Context, propertyID, imageID int64) error
	CountImages(ctx context.Context, propertyID int64) (int, error)
}

type Service struct {
	store  Store
	files  storage.ObjectStore
	bucket string
	log    *logger.Logger
}

// New creates the property service. files may be nil when object storage is
// not configured; image endpoints then reject with a validation error.
func New(store Store, files storage.ObjectStore, bucket string, log *logger.Logger) *Service {
	return &Service{store: store, files: files, bucket: bucket, log: log}
}

// PropertyWithImages pairs a listing with presigned image URLs for responses.
type PropertyWithImages struct {
	Property repository.Property
	Images   []ImageView
}

type ImageView struct {
	ID      int64
	URL     string
	IsTheme bool
}

// Create persists a new listing owned by the caller.
func (s *Service) Create(ctx context.Context, ownerID int64, p repository.Property) (repository.Property, error) {
	p.OwnerID = ownerID
	created, err := s.store.Create(ctx, p)
	if err != nil {
		return repository.Property{}, fmt.Errorf("create property: %w", err)
	}
	s.log.Info("property created", "property_id", created.ID, "owner_id", ownerID)
	return created, nil
}

// Get returns a listing with its images.
func (s *Service) Get(ctx context.Context, id int64) (PropertyWithImages, error) {
	p, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return PropertyWithImages{}, apperr.NotFound("Property not found.")
	}
	if err != nil {
		return PropertyWithImages{}, fmt.Errorf("get property: %w", err)
	}

	images, err := s.imageViews(ctx, id)
	if err != nil {
		return PropertyWithImages{}, err
	}

	return PropertyWithImages{Property: p, Images: images}, nil
}

// Update replaces a listing's attributes. Only the owner may update.
func (s *Service) Update(ctx context.Context, callerID int64, p repository.Property) (repository.Property, error) {
	existing, err := s.store.GetByID(ctx, p.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Property{}, apperr.NotFound("Property not found.")
	}
	if err != nil {
		return repository.Property{}, fmt.Errorf("get property: %w", err)
	}
	if existing.OwnerID != callerID {
		return repository.Property{}, apperr.Forbidden("only the owner can modify this property")
	}

	updated, err := s.store.Update(ctx, p)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Property{}, apperr.NotFound("Property not found.")
	}
	if err != nil {
		return repository.Property{}, fmt.Errorf("update property: %w", err)
	}
	return updated, nil
}

// Delete soft-deletes a listing. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, callerID, propertyID int64) error {
	existing, err := s.store.GetByID(ctx, propertyID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Property not found.")
	}
	if err != nil {
		return fmt.Errorf("get property: %w", err)
	}
	if existing.OwnerID != callerID {
		return apperr.Forbidden("only the owner can delete this property")
	}

	if err := s.store.SoftDelete(ctx, propertyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Property not found.")
		}
		return fmt.Errorf("delete property: %w", err)
	}

	s.log.Info("property deleted", "property_id", propertyID, "owner_id", callerID)
	return nil
}

// List searches listings and attaches images to each result.
func (s *Service) List(ctx context.Context, f repository.Filter, page, pageSize int) ([]PropertyWithImages, int, int, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize

	properties, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("list properties: %w", err)
	}

	results := make([]PropertyWithImages, 0, len(properties))
	for _, p := range properties {
		images, err := s.imageViews(ctx, p.ID)
		if err != nil {
			return nil, 0, 0, 0, err
		}
		results = append(results, PropertyWithImages{Property: p, Images: images})
	}

	return results, total, page, pageSize, nil
}

// RequestImageUpload returns a presigned PUT URL for an image of the caller's
// listing.
func (s *Service) RequestImageUpload(ctx context.Context, callerID, propertyID int64, fileName, contentType string, sizeBytes int64) (*storage.PresignedURL, error) {
	if s.files == nil {
		return nil, apperr.Validation("image uploads are not available")
	}

	if err := s.requireOwner(ctx, callerID, propertyID); err != nil {
		return nil, err
	}

	count, err := s.store.CountImages(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("count images: %w", err)
	}
	if count >= maxImages {
		return nil, apperr.Validation(fmt.Sprintf("a property can have at most %d images", maxImages))
	}

	folder := fmt.Sprintf("properties/%d", propertyID)
	presigned, err := s.files.GenerateUploadURL(ctx, s.bucket, folder, fileName, contentType, sizeBytes)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}
	return presigned, nil
}

// ConfirmImage records an uploaded image against the listing. The first image
// becomes the theme image unless the caller picks one explicitly.
func (s *Service) ConfirmImage(ctx context.Context, callerID, propertyID int64, fileKey, contentType string, isTheme bool) (ImageView, error) {
	if s.files == nil {
		return ImageView{}, apperr.Validation("image uploads are not available")
	}

	if err := s.requireOwner(ctx, callerID, propertyID); err != nil {
		return ImageView{}, err
	}

	count, err := s.store.CountImages(ctx, propertyID)
	if err != nil {
		return ImageView{}, fmt.Errorf("count images: %w", err)
	}
	if count == 0 {
		isTheme = true
	}

	img, err := s.store.AddImage(ctx, propertyID, fileKey, contentType, isTheme)
	if err != nil {
		return ImageView{}, fmt.Errorf("add image: %w", err)
	}

	view, err := s.imageView(ctx, img)
	if err != nil {
		return ImageView{}, err
	}
	return view, nil
}

// DeleteImage removes an image row and its stored object.
func (s *Service) DeleteImage(ctx context.Context, callerID, propertyID, imageID int64) error {
	if err := s.requireOwner(ctx, callerID, propertyID); err != nil {
		return err
	}

	img, err := s.store.GetImage(ctx, propertyID, imageID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("image not found")
	}
	if err != nil {
		return fmt.Errorf("get image: %w", err)
	}

	if err := s.store.DeleteImage(ctx, propertyID, imageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("image not found")
		}
		return fmt.Errorf("delete image: %w", err)
	}

	if s.files != nil {
		if err := s.files.DeleteObject(ctx, s.bucket, img.FileKey); err != nil {
			// The DB row is gone; an orphaned object is acceptable.
			s.log.Warn("failed to delete stored image", "file_key", img.FileKey, "error", err)
		}
	}
	return nil
}

func (s *Service) requireOwner(ctx context.Context, callerID, propertyID int64) error {
	p, err := s.store.GetByID(ctx, propertyID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Property not found.")
	}
	if err != nil {
		return fmt.Errorf("get property: %w", err)
	}
	if p.OwnerID != callerID {
		return apperr.Forbidden("only the owner can modify this property")
	}
	return nil
}

func (s *Service) imageViews(ctx context.Context, propertyID int64) ([]ImageView, error) {
	images, err := s.store.ListImages(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	views := make([]ImageView, 0, len(images))
	for _, img := range images {
		view, err := s.imageView(ctx, img)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) imageView(ctx context.Context, img repository.Image) (ImageView, error) {
	view := ImageView{ID: img.ID, IsTheme: img.IsTheme}
	if s.files == nil {
		return view, nil
	}

	presigned, err := s.files.GenerateDownloadURL(ctx, s.bucket, img.FileKey)
	if err != nil {
		return ImageView{}, fmt.Errorf("presign image: %w", err)
	}
	view.URL = presigned.URL
	return view, nil
}
