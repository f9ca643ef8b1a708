package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/wanderhq/tour-api/internal/models"
)

type TripRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Trip, error)
	ListByOwner(ctx context.Context, userID int64, limit, offset int) ([]*models.Trip, error)
	CountByOwner(ctx context.Context, userID int64) (int64, error)
	ListShared(ctx context.Context) ([]*models.Trip, error)
	Create(ctx context.Context, tx *sql.Tx, trip *models.Trip) (int64, error)
	Update(ctx context.Context, tx *sql.Tx, trip *models.Trip) error
	ExistsByTitleOwner(ctx context.Context, title string, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type tripRepository struct {
	db *sql.DB
}

func NewTripRepository(db *sql.DB) TripRepository {
	return &tripRepository{db: db}
}

const tripColumns = `id, title, image_url, location, view_details, share, is_saved, is_shared,
	regenerate_plan, duration_days, duration_nights, spots_count, categories, description,
	summary_itinerary, details, created_at, updated_at, created_by, updated_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*models.Trip, error) {
	var t models.Trip
	var summary, details []byte
	err := row.Scan(&t.ID, &t.Title, &t.ImageURL, &t.Location, &t.ViewDetails, &t.Share,
		&t.IsSaved, &t.IsShared, &t.RegeneratePlan, &t.DurationDays, &t.DurationNights,
		&t.SpotsCount, pq.Array(&t.Categories), &t.Description, &summary, &details,
		&t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &t.UpdatedBy)
	if err != nil {
		return nil, err
	}
	if len(summary) > 0 {
		if err := json.Unmarshal(summary, &t.SummaryItinerary); err != nil {
			return nil, err
		}
	}
	if len(details) > 0 {
		t.Details = json.RawMessage(details)
	}
	return &t, nil
}

func (r *tripRepository) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	trip, err := scanTrip(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return trip, nil
}

func (r *tripRepository) ListByOwner(ctx context.Context, userID int64, limit, offset int) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE created_by = $1 ORDER BY id DESC`
	var rows *sql.Rows
	var err error

	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+` LIMIT $2 OFFSET $3`, userID, limit, offset)
	} else {
		rows, err = r.db.QueryContext(ctx, query, userID)
	}
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	trips := []*models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (r *tripRepository) CountByOwner(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips WHERE created_by = $1`, userID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *tripRepository) ListShared(ctx context.Context) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE is_shared = TRUE ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	trips := []*models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (r *tripRepository) Create(ctx context.Context, tx *sql.Tx, trip *models.Trip) (int64, error) {
	query := `
		INSERT INTO trips (title, image_url, location, view_details, share, is_saved, is_shared,
			regenerate_plan, duration_days, duration_nights, spots_count, categories, description,
			summary_itinerary, details, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	summary, err := json.Marshal(trip.SummaryItinerary)
	if err != nil {
		return 0, err
	}
	details := normalizeJSON(trip.Details)

	args := []any{trip.Title, trip.ImageURL, trip.Location, trip.ViewDetails, trip.Share,
		trip.IsSaved, trip.IsShared, trip.RegeneratePlan, trip.DurationDays, trip.DurationNights,
		trip.SpotsCount, pq.Array(trip.Categories), trip.Description, summary, details,
		trip.CreatedBy, trip.UpdatedBy}

	var id int64
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *tripRepository) Update(ctx context.Context, tx *sql.Tx, trip *models.Trip) error {
	query := `
		UPDATE trips
		SET title = $1, image_url = $2, location = $3, view_details = $4, share = $5,
			is_saved = $6, is_shared = $7, regenerate_plan = $8, duration_days = $9,
			duration_nights = $10, spots_count = $11, categories = $12, description = $13,
			summary_itinerary = $14, details = $15, updated_by = $16, updated_at = $17
		WHERE id = $18
	`
	summary, err := json.Marshal(trip.SummaryItinerary)
	if err != nil {
		return err
	}
	details := normalizeJSON(trip.Details)

	args := []any{trip.Title, trip.ImageURL, trip.Location, trip.ViewDetails, trip.Share,
		trip.IsSaved, trip.IsShared, trip.RegeneratePlan, trip.DurationDays, trip.DurationNights,
		trip.SpotsCount, pq.Array(trip.Categories), trip.Description, summary, details,
		trip.UpdatedBy, time.Now(), trip.ID}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *tripRepository) ExistsByTitleOwner(ctx context.Context, title string, userID int64) (bool, error) {
	query := `SELECT 1 FROM trips WHERE LOWER(title) = LOWER($1) AND created_by = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, title, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *tripRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// normalizeJSON keeps jsonb columns non-null so scans stay simple.
func normalizeJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte(`{}`)
	}
	return []byte(raw)
}
