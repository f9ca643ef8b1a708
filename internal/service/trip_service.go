package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/wanderhq/tour-api/internal/models"
	"github.com/wanderhq/tour-api/internal/repository"
	"github.com/wanderhq/tour-api/internal/transfer"
	"github.com/wanderhq/tour-api/pkg/pagination"
)

type TripService interface {
	Create(ctx context.Context, userID int64, fields *transfer.TripFields) (*models.Trip, error)
	Update(ctx context.Context, userID, tripID int64, fields *transfer.TripFields) (*models.Trip, error)
	List(ctx context.Context, userID int64, page pagination.Page) (*transfer.TripListResponse, error)
	ListAll(ctx context.Context, userID int64) ([]*models.Trip, error)
	Get(ctx context.Context, tripID int64) (*models.Trip, error)
	Remove(ctx context.Context, tripID int64) error
}

type tripService struct {
	db *sql.DB
	tr repository.TripRepository
	pr repository.PostRepository
}

func NewTripService(db *sql.DB, tr repository.TripRepository, pr repository.PostRepository) TripService {
	return &tripService{db: db, tr: tr, pr: pr}
}

func (s *tripService) Create(ctx context.Context, userID int64, fields *transfer.TripFields) (*models.Trip, error) {
	if fields == nil {
		return nil, validationf("Invalid request body")
	}

	// Title uniqueness is per owner and case-insensitive, create-only.
	if fields.Title != nil {
		exists, err := s.tr.ExistsByTitleOwner(ctx, *fields.Title, userID)
		if err != nil {
			return nil, fmt.Errorf("error checking trip title: %w", err)
		}
		if exists {
			return nil, duplicateTitlef("Trip with title '%s' already exists for this user.", *fields.Title)
		}
	}

	trip := &models.Trip{ItineraryCore: models.DefaultCore()}
	applyCoreFields(&trip.ItineraryCore, fields)
	trip.CreatedBy = &userID

	id, err := s.tr.Create(ctx, nil, trip)
	if err != nil {
		return nil, fmt.Errorf("error creating trip: %w", err)
	}

	created, err := s.tr.GetByID(ctx, id)
	if err != nil || created == nil {
		return nil, fmt.Errorf("error loading created trip")
	}
	return created, nil
}

// Update applies the sent fields and, when is_shared flips false -> true in
// this request, clones the trip into a shared post inside the same
// transaction. A shared post with the same title and owner suppresses the
// clone so retried share toggles stay idempotent.
func (s *tripService) Update(ctx context.Context, userID, tripID int64, fields *transfer.TripFields) (*models.Trip, error) {
	if fields == nil {
		return nil, validationf("Invalid request body")
	}

	trip, err := s.tr.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error loading trip: %w", err)
	}
	if trip == nil {
		return nil, notFoundf("Trip id - %d doesn't exists", tripID)
	}

	wasShared := trip.IsShared
	sharingNow := fields.IsShared != nil && *fields.IsShared

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	applyCoreFields(&trip.ItineraryCore, fields)
	trip.UpdatedBy = &userID

	if err = s.tr.Update(ctx, tx, trip); err != nil {
		return nil, fmt.Errorf("error updating trip: %w", err)
	}

	if sharingNow && !wasShared {
		if err = s.propagateShare(ctx, tx, trip); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	updated, err := s.tr.GetByID(ctx, tripID)
	if err != nil || updated == nil {
		return nil, fmt.Errorf("error loading updated trip")
	}
	return updated, nil
}

func (s *tripService) propagateShare(ctx context.Context, tx *sql.Tx, trip *models.Trip) error {
	exists, err := s.pr.ExistsShared(ctx, tx, trip.Title, trip.CreatedBy)
	if err != nil {
		return fmt.Errorf("error checking shared post: %w", err)
	}
	if exists {
		slog.Info("shared post already exists, skipping clone", "title", trip.Title)
		return nil
	}

	post := &models.Post{ItineraryCore: trip.ItineraryCore}
	post.IsShared = true
	post.CreatedBy = trip.CreatedBy
	post.UpdatedBy = trip.UpdatedBy

	if _, err := s.pr.Create(ctx, tx, post); err != nil {
		return fmt.Errorf("error creating shared post: %w", err)
	}
	return nil
}

func (s *tripService) List(ctx context.Context, userID int64, page pagination.Page) (*transfer.TripListResponse, error) {
	total, err := s.tr.CountByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting trips")
	}

	trips, err := s.tr.ListByOwner(ctx, userID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("error listing trips")
	}

	return &transfer.TripListResponse{
		Trips:         trips,
		Page:          page.Page,
		Size:          page.Size,
		TotalPages:    pagination.TotalPages(total, page.Size),
		TotalElements: total,
	}, nil
}

func (s *tripService) ListAll(ctx context.Context, userID int64) ([]*models.Trip, error) {
	trips, err := s.tr.ListByOwner(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("error listing trips")
	}
	return trips, nil
}

func (s *tripService) Get(ctx context.Context, tripID int64) (*models.Trip, error) {
	trip, err := s.tr.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error loading trip")
	}
	if trip == nil {
		return nil, notFoundf("Trip id - %d doesn't exists", tripID)
	}
	return trip, nil
}

func (s *tripService) Remove(ctx context.Context, tripID int64) error {
	trip, err := s.tr.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("error loading trip")
	}
	if trip == nil {
		return notFoundf("Trip id - %d doesn't exists", tripID)
	}
	if err := s.tr.Remove(ctx, tripID); err != nil {
		return fmt.Errorf("error removing trip")
	}
	return nil
}
