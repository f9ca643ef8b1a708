package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	config "github.com/wanderhq/tour-api/configs"
	"github.com/wanderhq/tour-api/internal/models"
	"github.com/wanderhq/tour-api/internal/repository"
	"github.com/wanderhq/tour-api/internal/transfer"
)

// These tests need a Postgres with scripts/schema.sql applied and skip
// otherwise, following the usual POSTGRES_URI convention.

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		t.Skip("Skipping test - no database connection configured")
	}

	db, err := sql.Open("postgres", uri)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	repo := repository.NewUserRepository(db)
	nonce := time.Now().UnixNano()
	id, err := repo.Create(context.Background(), nil, &models.User{
		Email:    fmt.Sprintf("user-%d@test.local", nonce),
		Username: fmt.Sprintf("user-%d", nonce),
		FullName: "Test User",
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Remove(context.Background(), id) })
	return id
}

func newTripService(db *sql.DB) TripService {
	return NewTripService(db, repository.NewTripRepository(db), repository.NewPostRepository(db))
}

func newPostService(db *sql.DB) PostService {
	cfg := *config.LoadConfig()
	return NewPostService(db, repository.NewPostRepository(db), repository.NewTripRepository(db),
		repository.NewPostCommentRepository(db), repository.NewPostLikeRepository(db),
		NewStorageService(cfg), nil, cfg)
}

func newEngagementService(db *sql.DB) EngagementService {
	return NewEngagementService(db, repository.NewPostRepository(db),
		repository.NewPostCommentRepository(db), repository.NewPostLikeRepository(db),
		nil, *config.LoadConfig())
}

func createTestPost(t *testing.T, db *sql.DB, ownerID int64, title string) int64 {
	t.Helper()
	repo := repository.NewPostRepository(db)
	post := &models.Post{ItineraryCore: models.DefaultCore()}
	post.Title = title
	post.CreatedBy = &ownerID
	id, err := repo.Create(context.Background(), nil, post)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Remove(context.Background(), id) })
	return id
}

func countPostsByTitle(t *testing.T, db *sql.DB, title string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM posts WHERE title = $1`, title).Scan(&count))
	return count
}

func TestTripService_DuplicateTitleGuard(t *testing.T) {
	db := testDB(t)
	svc := newTripService(db)
	ctx := context.Background()

	userA := createTestUser(t, db)
	userB := createTestUser(t, db)

	title := fmt.Sprintf("Paris %d", time.Now().UnixNano())
	fields, err := NormalizeTripPayload([]byte(fmt.Sprintf(`{"title": %q}`, title)))
	require.NoError(t, err)

	first, err := svc.Create(ctx, userA, fields)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Remove(ctx, first.ID) })

	// second create for the same owner conflicts, case-insensitively
	upper, err := NormalizeTripPayload([]byte(fmt.Sprintf(`{"title": %q}`, strings.ToUpper(title))))
	require.NoError(t, err)
	_, err = svc.Create(ctx, userA, upper)
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	// a different owner may reuse the title
	other, err := svc.Create(ctx, userB, fields)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Remove(ctx, other.ID) })
}

func TestTripService_SharePropagation(t *testing.T) {
	db := testDB(t)
	svc := newTripService(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	title := fmt.Sprintf("Rome Weekend %d", time.Now().UnixNano())

	fields, err := NormalizeTripPayload([]byte(fmt.Sprintf(`{"title": %q, "location": "Rome"}`, title)))
	require.NoError(t, err)
	trip, err := svc.Create(ctx, owner, fields)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Remove(ctx, trip.ID) })
	require.False(t, trip.IsShared)

	share, err := NormalizeTripPayload([]byte(`{"is_shared": true}`))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, trip.ID, share)
	require.NoError(t, err)
	assert.True(t, updated.IsShared)
	assert.Equal(t, 1, countPostsByTitle(t, db, title))

	// repeating the same update is a true->true edge: no second post
	again, err := svc.Update(ctx, owner, trip.ID, share)
	require.NoError(t, err)
	assert.True(t, again.IsShared)
	assert.Equal(t, 1, countPostsByTitle(t, db, title))

	t.Cleanup(func() {
		db.Exec(`DELETE FROM posts WHERE title = $1`, title)
	})
}

func TestTripService_UpdateWithoutShareEdge(t *testing.T) {
	db := testDB(t)
	svc := newTripService(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	title := fmt.Sprintf("Lisbon %d", time.Now().UnixNano())

	fields, err := NormalizeTripPayload([]byte(fmt.Sprintf(`{"title": %q}`, title)))
	require.NoError(t, err)
	trip, err := svc.Create(ctx, owner, fields)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Remove(ctx, trip.ID) })

	// a field-only update must not clone a post
	desc, err := NormalizeTripPayload([]byte(`{"description": "Hills and tramways"}`))
	require.NoError(t, err)
	updated, err := svc.Update(ctx, owner, trip.ID, desc)
	require.NoError(t, err)
	assert.False(t, updated.IsShared)
	assert.Equal(t, "Hills and tramways", updated.Description)
	assert.Equal(t, 0, countPostsByTitle(t, db, title))
}

func TestPostService_DuplicateTitleGuard(t *testing.T) {
	db := testDB(t)
	svc := newPostService(db)
	ctx := context.Background()

	userA := createTestUser(t, db)
	userB := createTestUser(t, db)

	title := fmt.Sprintf("Bali %d", time.Now().UnixNano())
	fields, err := NormalizeTripPayload([]byte(fmt.Sprintf(`{"title": %q}`, title)))
	require.NoError(t, err)

	first, err := svc.Create(ctx, userA, fields, nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Remove(ctx, first.ID) })

	upper, err := NormalizeTripPayload([]byte(fmt.Sprintf(`{"title": %q}`, strings.ToUpper(title))))
	require.NoError(t, err)
	_, err = svc.Create(ctx, userA, upper, nil)
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	other, err := svc.Create(ctx, userB, fields, nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Remove(ctx, other.ID) })
}

func TestUserService_RemoveUser(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	id := createTestUser(t, db)
	require.NoError(t, svc.RemoveUser(ctx, id))

	_, err := svc.GetUserInfo(ctx, id)
	assert.Error(t, err)
}

func TestEngagementService_ToggleLike(t *testing.T) {
	db := testDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	liker := createTestUser(t, db)
	postID := createTestPost(t, db, owner, fmt.Sprintf("Toggle %d", time.Now().UnixNano()))

	first, err := svc.ToggleLike(ctx, postID, liker)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, int64(1), first.LikeCount)

	second, err := svc.ToggleLike(ctx, postID, liker)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, int64(0), second.LikeCount)

	third, err := svc.ToggleLike(ctx, postID, liker)
	require.NoError(t, err)
	assert.True(t, third.Liked)
	assert.Equal(t, int64(1), third.LikeCount)
}

func TestEngagementService_LikeCountPerUser(t *testing.T) {
	db := testDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	postID := createTestPost(t, db, owner, fmt.Sprintf("Count %d", time.Now().UnixNano()))

	var last int64
	for i := 0; i < 3; i++ {
		liker := createTestUser(t, db)
		result, err := svc.ToggleLike(ctx, postID, liker)
		require.NoError(t, err)
		assert.True(t, result.Liked)
		last = result.LikeCount
	}
	assert.Equal(t, int64(3), last)
}

func TestEngagementService_ConcurrentToggle(t *testing.T) {
	db := testDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	liker := createTestUser(t, db)
	postID := createTestPost(t, db, owner, fmt.Sprintf("Race %d", time.Now().UnixNano()))

	// Two simultaneous toggles on the same (post, user) pair. Whichever
	// interleaving happens, neither call may error and duplicate rows are
	// impossible: losing the insert race hits the unique constraint and
	// converges on the winner's state instead of failing.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	results := make([]*transfer.LikeResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ToggleLike(ctx, postID, liker)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])

	lr := repository.NewPostLikeRepository(db)
	count, err := lr.CountByPost(ctx, postID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(1))

	liked, err := lr.Exists(ctx, postID, liker)
	require.NoError(t, err)
	assert.Equal(t, count == 1, liked)
}

func TestEngagementService_ToggleLike_MissingPost(t *testing.T) {
	db := testDB(t)
	svc := newEngagementService(db)

	user := createTestUser(t, db)
	_, err := svc.ToggleLike(context.Background(), -1, user)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngagementService_CreateComment(t *testing.T) {
	db := testDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	commenter := createTestUser(t, db)
	postID := createTestPost(t, db, owner, fmt.Sprintf("Comment %d", time.Now().UnixNano()))

	_, err := svc.CreateComment(ctx, postID, commenter, "")
	assert.ErrorIs(t, err, ErrValidation)

	comment, err := svc.CreateComment(ctx, postID, commenter, "Great trip!")
	require.NoError(t, err)
	assert.Equal(t, "Great trip!", comment.Text)
	require.NotNil(t, comment.User)
	assert.Equal(t, commenter, comment.User.ID)
	assert.Equal(t, "Test User", comment.User.FullName)

	_, err = svc.CreateComment(ctx, -1, commenter, "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}
