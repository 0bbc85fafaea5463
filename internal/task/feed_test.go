package task

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

func TestFeed_DeliversFullSnapshots(t *testing.T) {
	feed := NewFeed()
	ch := feed.subscribe()
	defer feed.unsubscribe(ch)

	feed.Publish([]model.Task{{ID: "t1", Name: "round"}})
	feed.Publish([]model.Task{{ID: "t1", Name: "round"}, {ID: "t2", Name: "bath"}})

	first := <-ch
	require.Len(t, first, 1)

	// Each delivery is a complete snapshot, not a diff.
	second := <-ch
	require.Len(t, second, 2)
	assert.Equal(t, model.TaskID("t2"), second[1].ID)
}

func TestFeed_SlowSubscriberIsSkippedNotBlocked(t *testing.T) {
	feed := NewFeed()
	ch := feed.subscribe()
	defer feed.unsubscribe(ch)

	// Fill the subscriber buffer and keep publishing; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			feed.Publish([]model.Task{{ID: "t1"}})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestFeed_ServeHTTPSetsStreamHeadersAndStops(t *testing.T) {
	feed := NewFeed()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/tasks/feed", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		feed.ServeHTTP(rec, req)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop on client disconnect")
	}
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}
