package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"mime/multipart"

	cfg "github.com/wanderhq/tour-api/configs"
	"github.com/wanderhq/tour-api/internal/cache"
	"github.com/wanderhq/tour-api/internal/models"
	"github.com/wanderhq/tour-api/internal/repository"
	"github.com/wanderhq/tour-api/internal/transfer"
	"github.com/wanderhq/tour-api/pkg/pagination"
)

// listCommentPreview caps how many comments ride along per post in list
// responses. Detail responses return all of them.
const listCommentPreview = 5

type PostService interface {
	Create(ctx context.Context, userID int64, fields *transfer.TripFields, image *multipart.FileHeader) (*transfer.PostResponse, error)
	Update(ctx context.Context, userID, postID int64, fields *transfer.TripFields, image *multipart.FileHeader) (*transfer.PostResponse, error)
	List(ctx context.Context, viewerID int64, page pagination.Page) (*transfer.PostListResponse, error)
	ListAll(ctx context.Context, viewerID int64) (*transfer.PostListResponse, error)
	ListLiked(ctx context.Context, userID int64, page pagination.Page) (*transfer.PostListResponse, error)
	ListLikedAll(ctx context.Context, userID int64) (*transfer.PostListResponse, error)
	Get(ctx context.Context, viewerID, postID int64) (*transfer.PostResponse, error)
	Remove(ctx context.Context, postID int64) error
}

type postService struct {
	db      *sql.DB
	pr      repository.PostRepository
	tr      repository.TripRepository
	cr      repository.PostCommentRepository
	lr      repository.PostLikeRepository
	storage *StorageService
	cache   *cache.PostCache
	cfg     cfg.Config
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	tr repository.TripRepository,
	cr repository.PostCommentRepository,
	lr repository.PostLikeRepository,
	storage *StorageService,
	postCache *cache.PostCache,
	cfg cfg.Config) PostService {
	return &postService{
		db:      db,
		pr:      pr,
		tr:      tr,
		cr:      cr,
		lr:      lr,
		storage: storage,
		cache:   postCache,
		cfg:     cfg,
	}
}

func (s *postService) Create(ctx context.Context, userID int64, fields *transfer.TripFields, image *multipart.FileHeader) (*transfer.PostResponse, error) {
	if fields == nil {
		return nil, validationf("Invalid request body")
	}

	if fields.Title != nil {
		exists, err := s.pr.ExistsByTitleOwner(ctx, *fields.Title, userID)
		if err != nil {
			return nil, fmt.Errorf("error checking post title: %w", err)
		}
		if exists {
			return nil, duplicateTitlef("Post with title '%s' already exists for this user.", *fields.Title)
		}
	}

	post := &models.Post{ItineraryCore: models.DefaultCore()}
	applyCoreFields(&post.ItineraryCore, fields)
	if fields.Caption != nil {
		post.Caption = *fields.Caption
	}
	post.Latitude = fields.Latitude
	post.Longitude = fields.Longitude
	post.CreatedBy = &userID

	if image != nil {
		url, err := s.storage.UploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}

	id, err := s.pr.Create(ctx, nil, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	return s.Get(ctx, userID, id)
}

func (s *postService) Update(ctx context.Context, userID, postID int64, fields *transfer.TripFields, image *multipart.FileHeader) (*transfer.PostResponse, error) {
	if fields == nil {
		return nil, validationf("Invalid request body")
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	if post == nil {
		return nil, notFoundf("posts id - %d doesn't exists", postID)
	}

	applyCoreFields(&post.ItineraryCore, fields)
	if fields.Caption != nil {
		post.Caption = *fields.Caption
	}
	if fields.Latitude != nil {
		post.Latitude = fields.Latitude
	}
	if fields.Longitude != nil {
		post.Longitude = fields.Longitude
	}
	post.UpdatedBy = &userID

	if image != nil {
		url, err := s.storage.UploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}

	if err := s.pr.Update(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	s.invalidate(ctx, postID)
	return s.Get(ctx, userID, postID)
}

func (s *postService) List(ctx context.Context, viewerID int64, page pagination.Page) (*transfer.PostListResponse, error) {
	total, err := s.pr.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting posts")
	}

	items, err := s.pr.List(ctx, viewerID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("error listing posts")
	}

	resp := &transfer.PostListResponse{
		Posts:         s.buildResponses(ctx, items, listCommentPreview),
		Page:          page.Page,
		Size:          page.Size,
		TotalPages:    pagination.TotalPages(total, page.Size),
		TotalElements: total,
	}

	// The main feed also carries publicly shared trips. A failure here
	// degrades to an empty list rather than failing the feed.
	shared, err := s.tr.ListShared(ctx)
	if err != nil {
		slog.Warn("failed to load shared trips for feed", "error", err)
		shared = []*models.Trip{}
	}
	resp.SharedTrips = shared

	return resp, nil
}

func (s *postService) ListAll(ctx context.Context, viewerID int64) (*transfer.PostListResponse, error) {
	items, err := s.pr.List(ctx, viewerID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("error listing posts")
	}
	return &transfer.PostListResponse{Posts: s.buildResponses(ctx, items, listCommentPreview)}, nil
}

func (s *postService) ListLiked(ctx context.Context, userID int64, page pagination.Page) (*transfer.PostListResponse, error) {
	total, err := s.pr.CountLikedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting liked posts")
	}

	items, err := s.pr.ListLikedBy(ctx, userID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("error listing liked posts")
	}

	return &transfer.PostListResponse{
		Posts:         s.buildResponses(ctx, items, listCommentPreview),
		Page:          page.Page,
		Size:          page.Size,
		TotalPages:    pagination.TotalPages(total, page.Size),
		TotalElements: total,
	}, nil
}

func (s *postService) ListLikedAll(ctx context.Context, userID int64) (*transfer.PostListResponse, error) {
	items, err := s.pr.ListLikedBy(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("error listing liked posts")
	}
	return &transfer.PostListResponse{Posts: s.buildResponses(ctx, items, listCommentPreview)}, nil
}

func (s *postService) Get(ctx context.Context, viewerID, postID int64) (*transfer.PostResponse, error) {
	item, err := s.lookupFeedItem(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFoundf("Post id - %d doesn't exists", postID)
	}
	return s.buildResponse(ctx, item, 0), nil
}

// lookupFeedItem serves post detail from the cache when possible. The cached
// entry never decides liked_by_user; that is re-checked per viewer.
func (s *postService) lookupFeedItem(ctx context.Context, viewerID, postID int64) (*models.PostFeedItem, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPost(ctx, postID)
		if err != nil {
			slog.Warn("post cache read failed", "error", err)
		} else if cached != nil {
			liked, err := s.lr.Exists(ctx, postID, viewerID)
			if err != nil {
				slog.Warn("liked-by-user lookup failed", "error", err)
				liked = false
			}
			cached.LikedByUser = liked
			return cached, nil
		}
	}

	item, err := s.pr.GetFeedItem(ctx, postID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("error loading post")
	}
	if item == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.SetPost(ctx, item); err != nil {
			slog.Warn("post cache write failed", "error", err)
		}
	}
	return item, nil
}

func (s *postService) Remove(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("error loading post")
	}
	if post == nil {
		return notFoundf("Post id - %d doesn't exists", postID)
	}
	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post")
	}
	s.invalidate(ctx, postID)
	return nil
}

func (s *postService) invalidate(ctx context.Context, postID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePost(ctx, postID); err != nil {
		slog.Warn("post cache invalidation failed", "error", err)
	}
}

func (s *postService) buildResponses(ctx context.Context, items []*models.PostFeedItem, commentLimit int) []*transfer.PostResponse {
	responses := make([]*transfer.PostResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, s.buildResponse(ctx, item, commentLimit))
	}
	return responses
}

// buildResponse attaches map URL and comments. Comment loading failures are
// logged and degrade to an empty list; they never fail the read.
func (s *postService) buildResponse(ctx context.Context, item *models.PostFeedItem, commentLimit int) *transfer.PostResponse {
	resp := &transfer.PostResponse{
		PostFeedItem: item,
		MapURL:       BuildMapURL(&item.Post),
		Comments:     []*transfer.CommentResponse{},
	}

	comments, err := s.cr.ListByPost(ctx, item.ID, commentLimit)
	if err != nil {
		slog.Warn("failed to load post comments", "post_id", item.ID, "error", err)
		return resp
	}
	resp.Comments = s.commentResponses(comments)
	return resp
}

func (s *postService) commentResponses(comments []*models.CommentWithUser) []*transfer.CommentResponse {
	out := make([]*transfer.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse(c, s.cfg.BaseURL))
	}
	return out
}

func commentResponse(c *models.CommentWithUser, baseURL string) *transfer.CommentResponse {
	resp := &transfer.CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.UserID != nil {
		resp.User = &transfer.UserSnapshot{
			ID:       *c.UserID,
			Username: c.Username,
			FullName: c.FullName,
			Image:    absoluteURL(baseURL, c.ProfilePicture),
		}
	}
	return resp
}
