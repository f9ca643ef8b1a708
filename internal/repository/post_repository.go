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

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetFeedItem(ctx context.Context, id, viewerID int64) (*models.PostFeedItem, error)
	List(ctx context.Context, viewerID int64, limit, offset int) ([]*models.PostFeedItem, error)
	Count(ctx context.Context) (int64, error)
	ListLikedBy(ctx context.Context, userID int64, limit, offset int) ([]*models.PostFeedItem, error)
	CountLikedBy(ctx context.Context, userID int64) (int64, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	Update(ctx context.Context, tx *sql.Tx, post *models.Post) error
	ExistsByTitleOwner(ctx context.Context, title string, userID int64) (bool, error)
	ExistsShared(ctx context.Context, tx *sql.Tx, title string, ownerID *int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `p.id, p.caption, p."like", p.title, p.image_url, p.location, p.latitude,
	p.longitude, p.view_details, p.share, p.is_saved, p.is_shared, p.regenerate_plan,
	p.duration_days, p.duration_nights, p.spots_count, p.categories, p.description,
	p.summary_itinerary, p.details, p.created_at, p.updated_at, p.created_by, p.updated_by`

const postAnnotations = `,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
	EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS liked_by_user`

func scanPost(row rowScanner, p *models.Post, extra ...any) error {
	var summary, details []byte
	dest := []any{&p.ID, &p.Caption, &p.Like, &p.Title, &p.ImageURL, &p.Location, &p.Latitude,
		&p.Longitude, &p.ViewDetails, &p.Share, &p.IsSaved, &p.IsShared, &p.RegeneratePlan,
		&p.DurationDays, &p.DurationNights, &p.SpotsCount, pq.Array(&p.Categories),
		&p.Description, &summary, &details, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if len(summary) > 0 {
		if err := json.Unmarshal(summary, &p.SummaryItinerary); err != nil {
			return err
		}
	}
	if len(details) > 0 {
		p.Details = json.RawMessage(details)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.id = $1`

	var post models.Post
	err := scanPost(r.db.QueryRowContext(ctx, query, id), &post)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetFeedItem(ctx context.Context, id, viewerID int64) (*models.PostFeedItem, error) {
	query := `SELECT ` + postColumns + postAnnotations + ` FROM posts p WHERE p.id = $2`

	var item models.PostFeedItem
	err := scanPost(r.db.QueryRowContext(ctx, query, viewerID, id), &item.Post, &item.LikeCount, &item.LikedByUser)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &item, nil
}

func (r *postRepository) List(ctx context.Context, viewerID int64, limit, offset int) ([]*models.PostFeedItem, error) {
	query := `SELECT ` + postColumns + postAnnotations + ` FROM posts p ORDER BY p.id DESC`
	var rows *sql.Rows
	var err error

	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+` LIMIT $2 OFFSET $3`, viewerID, limit, offset)
	} else {
		rows, err = r.db.QueryContext(ctx, query, viewerID)
	}
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectFeedItems(rows)
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *postRepository) ListLikedBy(ctx context.Context, userID int64, limit, offset int) ([]*models.PostFeedItem, error) {
	query := `SELECT ` + postColumns + postAnnotations + `
		FROM posts p
		WHERE EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1)
		ORDER BY p.id DESC`
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

	return collectFeedItems(rows)
}

func (r *postRepository) CountLikedBy(ctx context.Context, userID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(DISTINCT pl.post_id) FROM post_likes pl WHERE pl.user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func collectFeedItems(rows *sql.Rows) ([]*models.PostFeedItem, error) {
	var items []*models.PostFeedItem
	for rows.Next() {
		var item models.PostFeedItem
		if err := scanPost(rows, &item.Post, &item.LikeCount, &item.LikedByUser); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (caption, title, image_url, location, latitude, longitude,
			view_details, share, is_saved, is_shared, regenerate_plan, duration_days,
			duration_nights, spots_count, categories, description, summary_itinerary,
			details, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`
	summary, err := json.Marshal(post.SummaryItinerary)
	if err != nil {
		return 0, err
	}
	details := normalizeJSON(post.Details)

	args := []any{post.Caption, post.Title, post.ImageURL, post.Location, post.Latitude,
		post.Longitude, post.ViewDetails, post.Share, post.IsSaved, post.IsShared,
		post.RegeneratePlan, post.DurationDays, post.DurationNights, post.SpotsCount,
		pq.Array(post.Categories), post.Description, summary, details, post.CreatedBy, post.UpdatedBy}

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

func (r *postRepository) Update(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		UPDATE posts
		SET caption = $1, title = $2, image_url = $3, location = $4, latitude = $5,
			longitude = $6, view_details = $7, share = $8, is_saved = $9, is_shared = $10,
			regenerate_plan = $11, duration_days = $12, duration_nights = $13,
			spots_count = $14, categories = $15, description = $16, summary_itinerary = $17,
			details = $18, updated_by = $19, updated_at = $20
		WHERE id = $21
	`
	summary, err := json.Marshal(post.SummaryItinerary)
	if err != nil {
		return err
	}
	details := normalizeJSON(post.Details)

	args := []any{post.Caption, post.Title, post.ImageURL, post.Location, post.Latitude,
		post.Longitude, post.ViewDetails, post.Share, post.IsSaved, post.IsShared,
		post.RegeneratePlan, post.DurationDays, post.DurationNights, post.SpotsCount,
		pq.Array(post.Categories), post.Description, summary, details, post.UpdatedBy,
		time.Now(), post.ID}

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

func (r *postRepository) ExistsByTitleOwner(ctx context.Context, title string, userID int64) (bool, error) {
	query := `SELECT 1 FROM posts WHERE LOWER(title) = LOWER($1) AND created_by = $2`

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

// ExistsShared matches on the exact title. The share propagation dedup guard
// is stricter than the create-time guard on purpose.
func (r *postRepository) ExistsShared(ctx context.Context, tx *sql.Tx, title string, ownerID *int64) (bool, error) {
	query := `SELECT 1 FROM posts WHERE title = $1 AND created_by = $2 AND is_shared = TRUE`

	var result int
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, title, ownerID).Scan(&result)
	} else {
		err = r.db.QueryRowContext(ctx, query, title, ownerID).Scan(&result)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
