package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/wanderhq/tour-api/internal/models"
)

type PostLikeRepository interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, postID, userID int64) (*models.PostLike, error)
	Create(ctx context.Context, tx *sql.Tx, like *models.PostLike) (int64, error)
	Remove(ctx context.Context, tx *sql.Tx, id int64) error
	Exists(ctx context.Context, postID, userID int64) (bool, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
}

type postLikeRepository struct {
	db *sql.DB
}

func NewPostLikeRepository(db *sql.DB) PostLikeRepository {
	return &postLikeRepository{db: db}
}

// GetForUpdate locks the row for the toggling transaction so two toggles on
// the same (post, user) pair serialize instead of double-inserting.
func (r *postLikeRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, postID, userID int64) (*models.PostLike, error) {
	query := `SELECT id, post_id, user_id, created_at FROM post_likes
		WHERE post_id = $1 AND user_id = $2 FOR UPDATE`

	var like models.PostLike
	err := tx.QueryRowContext(ctx, query, postID, userID).
		Scan(&like.ID, &like.PostID, &like.UserID, &like.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &like, nil
}

func (r *postLikeRepository) Create(ctx context.Context, tx *sql.Tx, like *models.PostLike) (int64, error) {
	query := `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) RETURNING id`

	var id int64
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, like.PostID, like.UserID).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, like.PostID, like.UserID).Scan(&id)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *postLikeRepository) Remove(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM post_likes WHERE id = $1`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, id)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postLikeRepository) Exists(ctx context.Context, postID, userID int64) (bool, error) {
	query := `SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *postLikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}
