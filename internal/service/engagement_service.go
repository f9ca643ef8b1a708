package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	cfg "github.com/wanderhq/tour-api/configs"
	"github.com/wanderhq/tour-api/internal/cache"
	"github.com/wanderhq/tour-api/internal/models"
	"github.com/wanderhq/tour-api/internal/repository"
	"github.com/wanderhq/tour-api/internal/transfer"
)

// EngagementService covers the per-user interactions on a post: the
// idempotent like toggle and comment creation.
type EngagementService interface {
	ToggleLike(ctx context.Context, postID, userID int64) (*transfer.LikeResult, error)
	CreateComment(ctx context.Context, postID, userID int64, text string) (*transfer.CommentResponse, error)
}

type engagementService struct {
	db    *sql.DB
	pr    repository.PostRepository
	cr    repository.PostCommentRepository
	lr    repository.PostLikeRepository
	cache *cache.PostCache
	cfg   cfg.Config
}

func NewEngagementService(
	db *sql.DB,
	pr repository.PostRepository,
	cr repository.PostCommentRepository,
	lr repository.PostLikeRepository,
	postCache *cache.PostCache,
	cfg cfg.Config) EngagementService {
	return &engagementService{
		db:    db,
		pr:    pr,
		cr:    cr,
		lr:    lr,
		cache: postCache,
		cfg:   cfg,
	}
}

// ToggleLike flips the (post, user) like state inside one transaction.
// A fetch-or-create that loses a race to a concurrent toggle trips the
// unique (post_id, user_id) constraint; that is recovered by re-reading the
// current state instead of failing the caller. like_count is recounted after
// the toggle, never cached.
func (s *engagementService) ToggleLike(ctx context.Context, postID, userID int64) (*transfer.LikeResult, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error loading post")
	}
	if post == nil {
		return nil, notFoundf("Post id - %d doesn't exists", postID)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	liked := false
	existing, err := s.lr.GetForUpdate(ctx, tx, postID, userID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error loading like state")
	}

	if existing != nil {
		// already liked -> unlike
		if err := s.lr.Remove(ctx, tx, existing.ID); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("error removing like")
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
	} else {
		_, err := s.lr.Create(ctx, tx, &models.PostLike{PostID: postID, UserID: userID})
		if err != nil {
			tx.Rollback()
			if !isUniqueViolation(err) {
				slog.Info(err.Error())
				return nil, fmt.Errorf("error creating like")
			}
			// Concurrent toggle won the insert. Converge on whatever
			// state it left behind.
			liked, err = s.lr.Exists(ctx, postID, userID)
			if err != nil {
				return nil, fmt.Errorf("error loading like state")
			}
		} else {
			liked = true
			if err := tx.Commit(); err != nil {
				return nil, fmt.Errorf("failed to commit transaction: %w", err)
			}
		}
	}

	count, err := s.lr.CountByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error counting likes")
	}

	s.invalidate(ctx, postID)
	return &transfer.LikeResult{Liked: liked, LikeCount: count}, nil
}

func (s *engagementService) CreateComment(ctx context.Context, postID, userID int64, text string) (*transfer.CommentResponse, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error loading post")
	}
	if post == nil {
		return nil, notFoundf("Post id - %d doesn't exists", postID)
	}

	if text == "" {
		return nil, validationf("Comment text is required")
	}

	comment := &models.PostComment{PostID: postID, UserID: &userID, Text: text}
	id, err := s.cr.Create(ctx, nil, comment)
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	created, err := s.cr.GetWithUser(ctx, id)
	if err != nil || created == nil {
		return nil, fmt.Errorf("error loading created comment")
	}

	s.invalidate(ctx, postID)
	return commentResponse(created, s.cfg.BaseURL), nil
}

func (s *engagementService) invalidate(ctx context.Context, postID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePost(ctx, postID); err != nil {
		slog.Warn("post cache invalidation failed", "error", err)
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
