package transport

import "time"

type CreatePropertyRequest struct {
	Title            string     `json:"title" validate:"required,max=200"`
	Description      string     `json:"description" validate:"max=5000"`
	City             string     `json:"city" validate:"required,max=100"`
	Village          string     `json:"village" validate:"max=100"`
	Street           string     `json:"street" validate:"max=200"`
	Type             string     `json:"type" validate:"required,max=50"`
	Status           string     `json:"status" validate:"required,max=50"`
	Price            float64    `json:"price" validate:"required,gt=0"`
	RentDuration     string     `json:"rentDuration" validate:"max=50"`
	Bedrooms         int        `json:"bedrooms" validate:"min=0,max=50"`
	Bathrooms        int        `json:"bathrooms" validate:"min=0,max=50"`
	Kitchens         int        `json:"kitchens" validate:"min=0,max=50"`
	LivingRooms      int        `json:"livingRooms" validate:"min=0,max=50"`
	Utilities        string     `json:"utilities" validate:"max=2000"`
	Policies         string     `json:"policies" validate:"max=2000"`
	Requirements     string     `json:"requirements" validate:"max=2000"`
	AvailabilityDate *time.Time `json:"availabilityDate"`
	Latitude         *float64   `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude        *float64   `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type UpdatePropertyRequest struct {
	Title            string     `json:"title" validate:"required,max=200"`
	Description      string     `json:"description" validate:"max=5000"`
	City             string     `json:"city" validate:"required,max=100"`
	Village          string     `json:"village" validate:"max=100"`
	Street           string     `json:"street" validate:"max=200"`
	Type             string     `json:"type" validate:"required,max=50"`
	Status           string     `json:"status" validate:"required,max=50"`
	Price            float64    `json:"price" validate:"required,gt=0"`
	RentDuration     string     `json:"rentDuration" validate:"max=50"`
	Bedrooms         int        `json:"bedrooms" validate:"min=0,max=50"`
	Bathrooms        int        `json:"bathrooms" validate:"min=0,max=50"`
	Kitchens         int        `json:"kitchens" validate:"min=0,max=50"`
	LivingRooms      int        `json:"livingRooms" validate:"min=0,max=50"`
	Utilities        string     `json:"utilities" validate:"max=2000"`
	Policies         string     `json:"policies" validate:"max=2000"`
	Requirements     string     `json:"requirements" validate:"max=2000"`
	AvailabilityDate *time.Time `json:"availabilityDate"`
	Latitude         *float64   `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude        *float64   `json:"longitude" validate:"omitempty,min=-180,max=180"`
	IsAvailable      bool       `json:"isAvailable"`
}

// FilterQuery carries the listing search parameters. All fields are optional;
// empty values are skipped by the query builder.
type FilterQuery struct {
	City         string   `form:"city"`
	Village      string   `form:"village"`
	Type         string   `form:"type"`
	Status       string   `form:"status"`
	RentDuration string   `form:"rentDuration"`
	MinPrice     *float64 `form:"minPrice"`
	MaxPrice     *float64 `form:"maxPrice"`
	Bedrooms     *int     `form:"bedrooms"`
	Bathrooms    *int     `form:"bathrooms"`
	Kitchens     *int     `form:"kitchens"`
	LivingRooms  *int     `form:"livingRooms"`
	OwnerID      *int64   `form:"ownerId"`
	Page         int      `form:"page"`
	PageSize     int      `form:"pageSize"`
}

type ImageUploadRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type ImageUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ConfirmImageRequest struct {
	FileKey     string `json:"fileKey" validate:"required,max=512"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	IsTheme     bool   `json:"isTheme"`
}

type ImageResponse struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	IsTheme bool   `json:"isTheme"`
}

type PropertyResponse struct {
	ID               int64           `json:"id"`
	OwnerID          int64           `json:"ownerId"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	City             string          `json:"city"`
	Village          string          `json:"village,omitempty"`
	Street           string          `json:"street,omitempty"`
	Type             string          `json:"type"`
	Status           string          `json:"status"`
	Price            float64         `json:"price"`
	RentDuration     string          `json:"rentDuration,omitempty"`
	Bedrooms         int             `json:"bedrooms"`
	Bathrooms        int             `json:"bathrooms"`
	Kitchens         int             `json:"kitchens"`
	LivingRooms      int             `json:"livingRooms"`
	Utilities        string          `json:"utilities,omitempty"`
	Policies         string          `json:"policies,omitempty"`
	Requirements     string          `json:"requirements,omitempty"`
	AvailabilityDate *time.Time      `json:"availabilityDate,omitempty"`
	Latitude         *float64        `json:"latitude,omitempty"`
	Longitude        *float64        `json:"longitude,omitempty"`
	IsAvailable      bool            `json:"isAvailable"`
	Images           []ImageResponse `json:"images,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type PropertyListResponse struct {
	Items    []PropertyResponse `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}
