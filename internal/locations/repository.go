package locations

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Village struct {
	ID     int64  `json:"id"`
	CityID int64  `json:"cityId"`
	Name   string `json:"name"`
}

func (r *Repository) ListCities(ctx context.Context) ([]City, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM cities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]City, 0)
	for rows.Next() {
		var city City
		if err := rows.Scan(&city.ID, &city.Name); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

func (r *Repository) ListVillages(ctx context.Context, cityID int64) ([]Village, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, city_id, name FROM villages WHERE city_id = $1 ORDER BY name
	`, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	villages := make([]Village, 0)
	for rows.Next() {
		var village Village
		if err := rows.Scan(&village.ID, &village.CityID, &village.Name); err != nil {
			return nil, err
		}
		villages = append(villages, village)
	}
	return villages, rows.Err()
}
