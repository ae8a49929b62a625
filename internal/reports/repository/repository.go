package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate report")
)

const pgUniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same query
// code runs inside and outside transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ReportedProperty is a listing joined with its owner, as the escalation
// engine needs to see it.
type ReportedProperty struct {
	ID             int64
	Title          string
	OwnerID        int64
	OwnerEmail     string
	OwnerFirstName string
	OwnerActive    bool
	ReportCount    int
}

// TxStore is the transactional surface used by the escalation engine. All
// calls within one InTx invocation share a single database transaction.
type TxStore interface {
	// GetPropertyForUpdate loads a listing by id with its owner and locks the
	// row for the rest of the transaction. Delisted properties stay
	// reportable: further reports keep raising the owner's strike count.
	GetPropertyForUpdate(ctx context.Context, propertyID int64) (ReportedProperty, error)
	HasReport(ctx context.Context, reporterID, propertyID int64) (bool, error)
	InsertReport(ctx context.Context, reporterID, propertyID int64) error
	IncrementReportCount(ctx context.Context, propertyID int64) (int, error)
	SoftDeleteProperty(ctx context.Context, propertyID int64) error
	IncrementStrike(ctx context.Context, ownerID int64) (int, error)
	SoftDeleteOwnerProperties(ctx context.Context, ownerID int64) (int, error)
	DeactivateUser(ctx context.Context, ownerID int64) error
}

// InTx runs fn inside a transaction; fn's TxStore shares that transaction.
func (r *Repository) InTx(ctx context.Context, fn func(tx TxStore) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txStore{q: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type txStore struct {
	q querier
}

func (s *txStore) GetPropertyForUpdate(ctx context.Context, propertyID int64) (ReportedProperty, error) {
	var p ReportedProperty
	err := s.q.QueryRow(ctx, `
		SELECT p.id, p.title, p.owner_id, u.email, u.first_name, u.is_active, p.report_count
		FROM properties p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
		FOR UPDATE OF p
	`, propertyID).Scan(
		&p.ID, &p.Title, &p.OwnerID, &p.OwnerEmail, &p.OwnerFirstName, &p.OwnerActive, &p.ReportCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReportedProperty{}, ErrNotFound
	}
	return p, err
}

func (s *txStore) HasReport(ctx context.Context, reporterID, propertyID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM reports WHERE reporter_id = $1 AND property_id = $2)
	`, reporterID, propertyID).Scan(&exists)
	return exists, err
}

func (s *txStore) InsertReport(ctx context.Context, reporterID, propertyID int64) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO reports (reporter_id, property_id) VALUES ($1, $2)
	`, reporterID, propertyID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (s *txStore) IncrementReportCount(ctx context.Context, propertyID int64) (int, error) {
	var count int
	err := s.q.QueryRow(ctx, `
		UPDATE properties SET report_count = report_count + 1, updated_at = now()
		WHERE id = $1
		RETURNING report_count
	`, propertyID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return count, err
}

func (s *txStore) SoftDeleteProperty(ctx context.Context, propertyID int64) error {
	_, err := s.q.Exec(ctx, `
		UPDATE properties SET is_deleted = true, updated_at = now()
		WHERE id = $1 AND NOT is_deleted
	`, propertyID)
	return err
}

func (s *txStore) IncrementStrike(ctx context.Context, ownerID int64) (int, error) {
	var strikes int
	err := s.q.QueryRow(ctx, `
		UPDATE users SET strike_count = strike_count + 1
		WHERE id = $1
		RETURNING strike_count
	`, ownerID).Scan(&strikes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return strikes, err
}

func (s *txStore) SoftDeleteOwnerProperties(ctx context.Context, ownerID int64) (int, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE properties SET is_deleted = true, updated_at = now()
		WHERE owner_id = $1 AND NOT is_deleted
	`, ownerID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *txStore) DeactivateUser(ctx context.Context, ownerID int64) error {
	_, err := s.q.Exec(ctx, `
		UPDATE users SET is_active = false WHERE id = $1
	`, ownerID)
	return err
}
