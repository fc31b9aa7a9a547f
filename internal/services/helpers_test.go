package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/pulse/backend/internal/cache"
	"github.com/anonto42/pulse/backend/internal/logger"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/notify"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/pkg/config"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeClock ticks one second per call so records get distinct, ordered times.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// fakePosts is an in-memory PostRepository.
type fakePosts struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: map[primitive.ObjectID]*models.Post{}}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]models.PostLike{}, p.Likes...)
	c.SyncCounts()
	return &c
}

func (f *fakePosts) get(id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	p, ok := f.posts[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

func (f *fakePosts) CreatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.Likes = []models.PostLike{}
	post.SyncCounts()
	f.posts[post.ID] = clonePost(post)
	return nil
}

func (f *fakePosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return clonePost(p), nil
}

func (f *fakePosts) list(limit int64, keep func(*models.Post) bool) []models.Post {
	out := []models.Post{}
	for _, p := range f.posts {
		if keep(p) {
			out = append(out, *clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakePosts) GetRecentPosts(_ context.Context, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(limit, func(*models.Post) bool { return true }), nil
}

func (f *fakePosts) GetPostsByAuthor(_ context.Context, username string, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(limit, func(p *models.Post) bool { return p.AuthorUsername == username }), nil
}

func (f *fakePosts) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return err
	}
	delete(f.posts, p.ID)
	return nil
}

func (f *fakePosts) AddLike(_ context.Context, id, username string, at time.Time) (*models.Post, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return nil, false, err
	}
	if p.LikedBy(username) {
		return clonePost(p), false, nil
	}
	p.Likes = append(p.Likes, models.PostLike{Username: username, LikedAt: at})
	return clonePost(p), true, nil
}

func (f *fakePosts) RemoveLike(_ context.Context, id, username string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return nil, err
	}
	kept := p.Likes[:0]
	for _, l := range p.Likes {
		if l.Username != username {
			kept = append(kept, l)
		}
	}
	p.Likes = kept
	return clonePost(p), nil
}

func (f *fakePosts) IncrementCommentCount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return err
	}
	p.CommentCount++
	return nil
}

func (f *fakePosts) DecrementCommentCount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.get(id)
	if err != nil {
		return err
	}
	if p.CommentCount > 0 {
		p.CommentCount--
	}
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repositories.Migrate(db))
	return db
}

// env wires every service over SQLite, the in-memory post store and an
// optional miniredis-backed cache.
type env struct {
	clock         *fakeClock
	posts         *fakePosts
	notifRepo     repositories.NotificationRepository
	profiles      *ProfileService
	postSvc       *PostService
	commentSvc    *CommentService
	notifications *NotificationService
	redis         *miniredis.Miniredis
}

func newEnv(t *testing.T, withCache bool) *env {
	t.Helper()
	db := setupTestDB(t)
	log := logger.Discard()

	e := &env{
		clock:     newFakeClock(),
		posts:     newFakePosts(),
		notifRepo: repositories.NewPostgresNotificationRepository(db),
	}

	var unread UnreadCache
	if withCache {
		e.redis = miniredis.RunT(t)
		cfg := &config.Config{}
		cfg.Redis.Addr = e.redis.Addr()
		rc := cache.NewRedisCache(cfg)
		t.Cleanup(func() { _ = rc.Close() })
		unread = rc
	}

	comments := repositories.NewPostgresCommentRepository(db)
	e.notifications = NewNotificationService(e.notifRepo, unread, log)
	fanout := notify.NewFanout(e.notifications, log, time.Second).WithClock(e.clock.Now)

	e.profiles = NewProfileService(repositories.NewPostgresProfileRepository(db), e.posts, log)
	e.profiles.hashCost = bcrypt.MinCost
	e.postSvc = NewPostService(e.posts, comments, e.notifRepo, unread, fanout, e.clock, log)
	e.commentSvc = NewCommentService(e.posts, comments, fanout, e.clock, log)
	return e
}

func (e *env) post(t *testing.T, author, text string) *models.Post {
	t.Helper()
	p, err := e.postSvc.Create(context.Background(), author, text)
	require.NoError(t, err)
	return p
}

func (e *env) comment(t *testing.T, actor string, post *models.Post, text string, parent *models.Comment) *models.Comment {
	t.Helper()
	req := models.CreateCommentRequest{Text: text}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	detail, err := e.commentSvc.Add(context.Background(), actor, post.ID.Hex(), req)
	require.NoError(t, err)
	last := detail.Comments[len(detail.Comments)-1]
	return &last
}

func (e *env) inbox(t *testing.T, username string) []models.Notification {
	t.Helper()
	list, err := e.notifRepo.GetRecentByRecipient(context.Background(), username, 100)
	require.NoError(t, err)
	return list
}
