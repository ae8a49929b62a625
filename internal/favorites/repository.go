package favorites

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FavoriteProperty is a saved listing as shown in the caller's favorites list.
type FavoriteProperty struct {
	PropertyID int64
	Title      string
	City       string
	Type       string
	Status     string
	Price      float64
	SavedAt    time.Time
}

// Add saves a listing. Saving the same listing twice is a no-op.
func (r *Repository) Add(ctx context.Context, userID, propertyID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (user_id, property_id)
		SELECT $1, id FROM properties WHERE id = $2 AND NOT is_deleted
		ON CONFLICT (user_id, property_id) DO NOTHING
	`, userID, propertyID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Remove(ctx context.Context, userID, propertyID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND property_id = $2
	`, userID, propertyID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List returns the caller's saved listings. Listings removed by moderation or
// their owner drop out of the list automatically.
func (r *Repository) List(ctx context.Context, userID int64) ([]FavoriteProperty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, p.city, p.type, p.status, p.price, f.created_at
		FROM favorites f
		JOIN properties p ON p.id = f.property_id AND NOT p.is_deleted
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := make([]FavoriteProperty, 0)
	for rows.Next() {
		var fav FavoriteProperty
		if err := rows.Scan(&fav.PropertyID, &fav.Title, &fav.City, &fav.Type, &fav.Status, &fav.Price, &fav.SavedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// PropertyExists reports whether a listing is visible (exists and not deleted).
func (r *Repository) PropertyExists(ctx context.Context, propertyID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1 AND NOT is_deleted)
	`, propertyID).Scan(&exists)
	return exists, err
}
