package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/pulse/backend/internal/logger"
	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	saved  []models.Notification
	failOn map[string]bool
	ctxErr error
}

func (s *fakeStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.ctxErr = ctx.Err()
	if s.failOn[n.RecipientUsername] {
		return errors.New("store unavailable")
	}
	s.saved = append(s.saved, *n)
	return nil
}

func TestPublish_DeliversAll(t *testing.T) {
	store := &fakeStore{}
	f := NewFanout(store, logger.Discard(), time.Second).WithClock(func() time.Time { return at })
	post := testPost("alice", "post")
	parent := &models.Comment{ID: "p", AuthorUsername: "carol"}

	got := f.Publish(context.Background(), ReplyEvent{Actor: "bob", Post: post, Text: "hey", Parent: parent})

	assert.Equal(t, 2, got)
	require.Len(t, store.saved, 2)
	assert.Equal(t, "alice", store.saved[0].RecipientUsername)
	assert.Equal(t, "carol", store.saved[1].RecipientUsername)
	assert.Equal(t, at, store.saved[0].CreatedAt)
}

func TestPublish_FailureIsSwallowed(t *testing.T) {
	store := &fakeStore{failOn: map[string]bool{"alice": true}}
	f := NewFanout(store, logger.Discard(), time.Second)
	post := testPost("alice", "post")
	parent := &models.Comment{ID: "p", AuthorUsername: "carol"}

	failed := testutil.ToFloat64(metrics.NotificationsFailed.WithLabelValues("reply"))

	got := f.Publish(context.Background(), ReplyEvent{Actor: "bob", Post: post, Text: "hey", Parent: parent})

	assert.Equal(t, 1, got)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "carol", store.saved[0].RecipientUsername)
	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.NotificationsFailed.WithLabelValues("reply")))
}

func TestPublish_SurvivesCanceledRequest(t *testing.T) {
	store := &fakeStore{}
	f := NewFanout(store, logger.Discard(), time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := f.Publish(ctx, LikeEvent{Actor: "bob", Post: testPost("alice", "post")})

	assert.Equal(t, 1, got)
	assert.NoError(t, store.ctxErr)
}

func TestPublish_NothingPlanned(t *testing.T) {
	store := &fakeStore{}
	f := NewFanout(store, logger.Discard(), 0)

	assert.Zero(t, f.Publish(context.Background(), LikeEvent{Actor: "alice", Post: testPost("alice", "post")}))
	assert.Empty(t, store.saved)
}
