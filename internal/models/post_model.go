package models

import "time"

type Post struct {
	ID      int64  `db:"id" json:"id"`
	Caption string `db:"caption" json:"caption"`
	// Like is the legacy counter column. The toggle logic counts post_likes
	// rows instead and never writes it; kept until we know no consumer
	// still reads it.
	Like int64 `db:"like" json:"like"`
	ItineraryCore
	Latitude  *float64  `db:"latitude" json:"latitude"`
	Longitude *float64  `db:"longitude" json:"longitude"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy *int64    `db:"created_by" json:"created_by"`
	UpdatedBy *int64    `db:"updated_by" json:"updated_by"`
}

// PostFeedItem is a post annotated with the like aggregates list and detail
// reads need. liked_by_user is viewer dependent and must not be cached.
type PostFeedItem struct {
	Post
	LikeCount   int64 `db:"like_count" json:"like_count"`
	LikedByUser bool  `db:"liked_by_user" json:"liked_by_user"`
}

type PostComment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    *int64    `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CommentWithUser carries the commenter's snapshot columns joined in by the
// repository. The user fields are empty when the account was deleted.
type CommentWithUser struct {
	PostComment
	Username       string `db:"username"`
	FullName       string `db:"full_name"`
	ProfilePicture string `db:"profile_picture"`
}

type PostLike struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
