package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate tour request")
)

const pgUniqueViolation = "23505"

// StatusPending is the only status the workflow ever writes; owners act on
// requests out of band.
const StatusPending = "Pending"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Party is a user as seen by the tour workflow: either the requester or the
// listing owner.
type Party struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	IsActive     bool
}

// TourProperty is the slice of a listing the workflow needs.
type TourProperty struct {
	ID      int64
	Title   string
	City    string
	OwnerID int64
}

// TourRequest is a persisted tour request row.
type TourRequest struct {
	ID             int64
	PropertyID     int64
	RequesterID    int64
	OwnerID        int64
	PreferredDates []time.Time
	Notes          string
	Status         string
	CreatedAt      time.Time
}

// GetUser loads a user regardless of active flag; the caller decides how to
// treat inactive accounts.
func (r *Repository) GetUser(ctx context.Context, userID int64) (Party, error) {
	var p Party
	err := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, COALESCE(mobile_number, ''), is_active
		FROM users WHERE id = $1
	`, userID).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.MobileNumber, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return Party{}, ErrNotFound
	}
	return p, err
}

// GetProperty loads a visible listing.
func (r *Repository) GetProperty(ctx context.Context, propertyID int64) (TourProperty, error) {
	var p TourProperty
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, city, owner_id
		FROM properties WHERE id = $1 AND NOT is_deleted
	`, propertyID).Scan(&p.ID, &p.Title, &p.City, &p.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return TourProperty{}, ErrNotFound
	}
	return p, err
}

func (r *Repository) HasTourRequest(ctx context.Context, requesterID, propertyID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM tour_requests WHERE requester_id = $1 AND property_id = $2)
	`, requesterID, propertyID).Scan(&exists)
	return exists, err
}

// InsertTourRequest persists a request with status Pending. The unique
// constraint on (requester, property) turns a concurrent duplicate into
// ErrDuplicate.
func (r *Repository) InsertTourRequest(ctx context.Context, tr TourRequest) (TourRequest, error) {
	dates := make([]*time.Time, 3)
	for i := range tr.PreferredDates {
		if i >= 3 {
			break
		}
		d := tr.PreferredDates[i]
		dates[i] = &d
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO tour_requests (property_id, requester_id, owner_id, preferred_date_1, preferred_date_2, preferred_date_3, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, tr.PropertyID, tr.RequesterID, tr.OwnerID, dates[0], dates[1], dates[2], tr.Notes, StatusPending).Scan(&tr.ID, &tr.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return TourRequest{}, ErrDuplicate
	}
	if err != nil {
		return TourRequest{}, err
	}
	tr.Status = StatusPending
	return tr, nil
}

// GetTourRequest loads a request by id, including the listing title and
// requester contact needed for reminders.
func (r *Repository) GetTourRequest(ctx context.Context, tourRequestID int64) (TourRequest, string, Party, error) {
	var (
		tr            TourRequest
		propertyTitle string
		requester     Party
		dates         [3]*time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT t.id, t.property_id, t.requester_id, t.owner_id,
			t.preferred_date_1, t.preferred_date_2, t.preferred_date_3,
			t.notes, t.status, t.created_at,
			p.title,
			u.id, u.first_name, u.last_name, u.email, COALESCE(u.mobile_number, ''), u.is_active
		FROM tour_requests t
		JOIN properties p ON p.id = t.property_id
		JOIN users u ON u.id = t.requester_id
		WHERE t.id = $1 AND NOT p.is_deleted
	`, tourRequestID).Scan(
		&tr.ID, &tr.PropertyID, &tr.RequesterID, &tr.OwnerID,
		&dates[0], &dates[1], &dates[2],
		&tr.Notes, &tr.Status, &tr.CreatedAt,
		&propertyTitle,
		&requester.ID, &requester.FirstName, &requester.LastName, &requester.Email, &requester.MobileNumber, &requester.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return TourRequest{}, "", Party{}, ErrNotFound
	}
	if err != nil {
		return TourRequest{}, "", Party{}, err
	}

	for _, d := range dates {
		if d != nil {
			tr.PreferredDates = append(tr.PreferredDates, *d)
		}
	}
	return tr, propertyTitle, requester, nil
}

// ListByRequester returns the caller's own tour requests, newest first.
func (r *Repository) ListByRequester(ctx context.Context, requesterID int64) ([]TourRequest, error) {
	return r.list(ctx, `WHERE t.requester_id = $1`, requesterID)
}

// ListByOwner returns incoming requests for the caller's listings, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]TourRequest, error) {
	return r.list(ctx, `WHERE t.owner_id = $1`, ownerID)
}

func (r *Repository) list(ctx context.Context, where string, arg any) ([]TourRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.property_id, t.requester_id, t.owner_id,
			t.preferred_date_1, t.preferred_date_2, t.preferred_date_3,
			t.notes, t.status, t.created_at
		FROM tour_requests t
		`+where+`
		ORDER BY t.created_at DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]TourRequest, 0)
	for rows.Next() {
		var (
			tr    TourRequest
			dates [3]*time.Time
		)
		if err := rows.Scan(
			&tr.ID, &tr.PropertyID, &tr.RequesterID, &tr.OwnerID,
			&dates[0], &dates[1], &dates[2],
			&tr.Notes, &tr.Status, &tr.CreatedAt,
		); err != nil {
			return nil, err
		}
		for _, d := range dates {
			if d != nil {
				tr.PreferredDates = append(tr.PreferredDates, *d)
			}
		}
		requests = append(requests, tr)
	}
	return requests, rows.Err()
}
