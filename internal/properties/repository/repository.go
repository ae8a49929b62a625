package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Property struct {
	ID               int64
	OwnerID          int64
	Title            string
	Description      string
	City             string
	Village          string
	Street           string
	Type             string
	Status           string
	Price            float64
	RentDuration     string
	Bedrooms         int
	Bathrooms        int
	Kitchens         int
	LivingRooms      int
	Utilities        string
	Policies         string
	Requirements     string
	AvailabilityDate *time.Time
	Latitude         *float64
	Longitude        *float64
	IsAvailable      bool
	ReportCount      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Image struct {
	ID          int64
	PropertyID  int64
	FileKey     string
	ContentType string
	IsTheme     bool
	CreatedAt   time.Time
}

// Filter mirrors the optional listing search parameters.
// Filter narrows the listing search. Room counts match by equality, not as
// minimums.
type Filter struct {
	City         string
	Village      string
	Type         string
	Status       string
	RentDuration string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
	Bathrooms    *int
	Kitchens     *int
	LivingRooms  *int
	OwnerID      *int64
	Limit        int
	Offset       int
}

const propertyColumns = `id, owner_id, title, COALESCE(description, ''), city, COALESCE(village, ''),
		COALESCE(street, ''), type, status, price, COALESCE(rent_duration, ''),
		bedrooms, bathrooms, kitchens, living_rooms,
		COALESCE(utilities, ''), COALESCE(policies, ''), COALESCE(requirements, ''),
		availability_date, latitude, longitude, is_available, report_count, created_at, updated_at`

func scanProperty(row pgx.Row) (Property, error) {
	var p Property
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.City, &p.Village,
		&p.Street, &p.Type, &p.Status, &p.Price, &p.RentDuration,
		&p.Bedrooms, &p.Bathrooms, &p.Kitchens, &p.LivingRooms,
		&p.Utilities, &p.Policies, &p.Requirements,
		&p.AvailabilityDate, &p.Latitude, &p.Longitude, &p.IsAvailable, &p.ReportCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Property{}, ErrNotFound
	}
	return p, err
}

func (r *Repository) Create(ctx context.Context, p Property) (Property, error) {
	return scanProperty(r.pool.QueryRow(ctx, `
		INSERT INTO properties (
			owner_id, title, description, city, village, street, type, status, price, rent_duration,
			bedrooms, bathrooms, kitchens, living_rooms, utilities, policies, requirements,
			availability_date, latitude, longitude
		)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''),
			$11, $12, $13, $14, NULLIF($15, ''), NULLIF($16, ''), NULLIF($17, ''), $18, $19, $20)
		RETURNING `+propertyColumns+`
	`,
		p.OwnerID, p.Title, p.Description, p.City, p.Village, p.Street, p.Type, p.Status, p.Price, p.RentDuration,
		p.Bedrooms, p.Bathrooms, p.Kitchens, p.LivingRooms, p.Utilities, p.Policies, p.Requirements,
		p.AvailabilityDate, p.Latitude, p.Longitude,
	))
}

// GetByID returns a listing that has not been removed by moderation or its owner.
func (r *Repository) GetByID(ctx context.Context, id int64) (Property, error) {
	return scanProperty(r.pool.QueryRow(ctx, `
		SELECT `+propertyColumns+` FROM properties WHERE id = $1 AND NOT is_deleted
	`, id))
}

func (r *Repository) Update(ctx context.Context, p Property) (Property, error) {
	return scanProperty(r.pool.QueryRow(ctx, `
		UPDATE properties SET
			title = $2, description = NULLIF($3, ''), city = $4, village = NULLIF($5, ''),
			street = NULLIF($6, ''), type = $7, status = $8, price = $9, rent_duration = NULLIF($10, ''),
			bedrooms = $11, bathrooms = $12, kitchens = $13, living_rooms = $14,
			utilities = NULLIF($15, ''), policies = NULLIF($16, ''), requirements = NULLIF($17, ''),
			availability_date = $18, latitude = $19, longitude = $20, is_available = $21,
			updated_at = now()
		WHERE id = $1 AND NOT is_deleted
		RETURNING `+propertyColumns+`
	`,
		p.ID, p.Title, p.Description, p.City, p.Village, p.Street, p.Type, p.Status, p.Price, p.RentDuration,
		p.Bedrooms, p.Bathrooms, p.Kitchens, p.LivingRooms, p.Utilities, p.Policies, p.Requirements,
		p.AvailabilityDate, p.Latitude, p.Longitude, p.IsAvailable,
	))
}

// SoftDelete marks a listing deleted. The row is kept for report history.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE properties SET is_deleted = true, updated_at = now()
		WHERE id = $1 AND NOT is_deleted
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of listings matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, f Filter) ([]Property, int, error) {
	where, args := buildWhere(f)

	var total int
	countQuery := `SELECT count(*) FROM properties ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+propertyColumns+`
		FROM properties %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	properties := make([]Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		properties = append(properties, p)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return properties, total, nil
}

// buildWhere assembles the WHERE clause for a listing search. Deleted rows are
// always excluded.
func buildWhere(f Filter) (string, []interface{}) {
	clauses := []string{"NOT is_deleted"}
	args := make([]interface{}, 0, 8)

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.City != "" {
		add("lower(city) = lower($%d)", f.City)
	}
	if f.Village != "" {
		add("lower(village) = lower($%d)", f.Village)
	}
	if f.Type != "" {
		add("lower(type) = lower($%d)", f.Type)
	}
	if f.Status != "" {
		add("lower(status) = lower($%d)", f.Status)
	}
	if f.RentDuration != "" {
		add("lower(rent_duration) = lower($%d)", f.RentDuration)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.Bedrooms != nil {
		add("bedrooms = $%d", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		add("bathrooms = $%d", *f.Bathrooms)
	}
	if f.Kitchens != nil {
		add("kitchens = $%d", *f.Kitchens)
	}
	if f.LivingRooms != nil {
		add("living_rooms = $%d", *f.LivingRooms)
	}
	if f.OwnerID != nil {
		add("owner_id = $%d", *f.OwnerID)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *Repository) AddImage(ctx context.Context, propertyID int64, fileKey, contentType string, isTheme bool) (Image, error) {
	var img Image
	err := r.pool.QueryRow(ctx, `
		INSERT INTO property_images (property_id, file_key, content_type, is_theme)
		VALUES ($1, $2, $3, $4)
		RETURNING id, property_id, file_key, content_type, is_theme, created_at
	`, propertyID, fileKey, contentType, isTheme).Scan(
		&img.ID, &img.PropertyID, &img.FileKey, &img.ContentType, &img.IsTheme, &img.CreatedAt,
	)
	return img, err
}

func (r *Repository) ListImages(ctx context.Context, propertyID int64) ([]Image, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, property_id, file_key, content_type, is_theme, created_at
		FROM property_images
		WHERE property_id = $1
		ORDER BY is_theme DESC, created_at
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]Image, 0)
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.FileKey, &img.ContentType, &img.IsTheme, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *Repository) GetImage(ctx context.Context, propertyID, imageID int64) (Image, error) {
	var img Image
	err := r.pool.QueryRow(ctx, `
		SELECT id, property_id, file_key, content_type, is_theme, created_at
		FROM property_images
		WHERE id = $1 AND property_id = $2
	`, imageID, propertyID).Scan(
		&img.ID, &img.PropertyID, &img.FileKey, &img.ContentType, &img.IsTheme, &img.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Image{}, ErrNotFound
	}
	return img, err
}

func (r *Repository) DeleteImage(ctx context.Context, propertyID, imageID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM property_images WHERE id = $1 AND property_id = $2
	`, imageID, propertyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountImages(ctx context.Context, propertyID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM property_images WHERE property_id = $1
	`, propertyID).Scan(&count)
	return count, err
}
