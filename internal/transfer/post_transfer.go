package transfer

import (
	"time"

	"github.com/wanderhq/tour-api/internal/models"
)

type CommentCreation struct {
	Text string `json:"text"`
}

// UserSnapshot is the denormalized commenter/owner representation embedded in
// post responses. Image is resolved to an absolute URL when possible.
type UserSnapshot struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Image    *string `json:"image"`
}

type CommentResponse struct {
	ID        int64         `json:"id"`
	User      *UserSnapshot `json:"user"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"created_at"`
}

type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// PostResponse wraps a feed item with the derived fields the clients expect.
type PostResponse struct {
	*models.PostFeedItem
	MapURL   *string            `json:"map_url"`
	Comments []*CommentResponse `json:"post_comments"`
}

type PostListResponse struct {
	Posts         []*PostResponse `json:"posts"`
	Page          int             `json:"page,omitempty"`
	Size          int             `json:"size,omitempty"`
	TotalPages    int64           `json:"total_pages,omitempty"`
	TotalElements int64           `json:"total_elements,omitempty"`
	// SharedTrips rides along on the main feed so the frontend can show
	// publicly shared trips next to posts.
	SharedTrips []*models.Trip `json:"shared_trips,omitempty"`
}
