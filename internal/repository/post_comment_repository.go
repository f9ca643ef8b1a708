package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/wanderhq/tour-api/internal/models"
)

type PostCommentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, comment *models.PostComment) (int64, error)
	GetWithUser(ctx context.Context, id int64) (*models.CommentWithUser, error)
	ListByPost(ctx context.Context, postID int64, limit int) ([]*models.CommentWithUser, error)
}

type postCommentRepository struct {
	db *sql.DB
}

func NewPostCommentRepository(db *sql.DB) PostCommentRepository {
	return &postCommentRepository{db: db}
}

func (r *postCommentRepository) Create(ctx context.Context, tx *sql.Tx, comment *models.PostComment) (int64, error) {
	query := `
		INSERT INTO post_comments (post_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, comment.PostID, comment.UserID, comment.Text).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, comment.PostID, comment.UserID, comment.Text).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

const commentColumns = `c.id, c.post_id, c.user_id, c.text, c.created_at,
	COALESCE(u.username, ''), COALESCE(u.full_name, ''), COALESCE(u.profile_picture, '')`

func scanComment(row rowScanner) (*models.CommentWithUser, error) {
	var c models.CommentWithUser
	err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt,
		&c.Username, &c.FullName, &c.ProfilePicture)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postCommentRepository) GetWithUser(ctx context.Context, id int64) (*models.CommentWithUser, error) {
	query := `SELECT ` + commentColumns + `
		FROM post_comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return comment, nil
}

// ListByPost returns comments newest first. limit <= 0 means all of them.
func (r *postCommentRepository) ListByPost(ctx context.Context, postID int64, limit int) ([]*models.CommentWithUser, error) {
	query := `SELECT ` + commentColumns + `
		FROM post_comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC`
	var rows *sql.Rows
	var err error

	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+` LIMIT $2`, postID, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, postID)
	}
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var comments []*models.CommentWithUser
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
