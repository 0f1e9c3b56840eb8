package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ingestd/internal/cache"
	"ingestd/internal/database"
	"ingestd/internal/model"
	"ingestd/internal/queue"
	"ingestd/internal/service"
	"ingestd/internal/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func restoreSeams() {
	defaultUser = service.DefaultUser
	extractJSON = service.ExtractJSON
	insertDocument = store.InsertDocument
	newJobID = uuid.NewString
}

// statusCache records every status write keyed by cache key.
type statusCache struct {
	mu     sync.Mutex
	states map[string][]Status
}

func newStatusCache() *statusCache {
	return &statusCache{states: map[string][]Status{}}
}

func (c *statusCache) fake() *cache.FakeCache {
	return &cache.FakeCache{
		SetFn: func(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
			var st Status
			if err := json.Unmarshal(value.([]byte), &st); err != nil {
				return redis.NewStatusResult("", err)
			}
			c.mu.Lock()
			c.states[key] = append(c.states[key], st)
			c.mu.Unlock()
			return redis.NewStatusResult("OK", nil)
		},
	}
}

func (c *statusCache) history(key string) []Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Status(nil), c.states[key]...)
}

func newQueue(t *testing.T) *queue.Queue {
	t.Helper()
	q, err := queue.New(1)
	require.NoError(t, err)
	t.Cleanup(func() { q.Shutdown(true) })
	return q
}

func TestSubmitSuccess(t *testing.T) {
	t.Cleanup(restoreSeams)
	newJobID = func() string { return "job-1" }
	defaultUser = func(context.Context, database.DB) (*model.User, error) {
		return &model.User{ID: 4}, nil
	}
	insertDocument = func(_ context.Context, _ database.DB, d *model.Document) (*model.Document, error) {
		require.Equal(t, 4, d.UserID)
		require.Equal(t, "invoice", d.Title)
		require.Equal(t, float64(12), d.Fields["total"])
		d.ID = 11
		return d, nil
	}

	sc := newStatusCache()
	s := NewSubmitter(&database.FakeDB{}, sc.fake(), newQueue(t))

	jobID, fut, err := s.Submit(context.Background(), Request{
		Title: "invoice",
		Text:  `scanned text {"total": 12}`,
	})
	require.NoError(t, err)
	require.Equal(t, "job-1", jobID)

	v, err := fut.Result(5 * time.Second)
	require.NoError(t, err)
	doc := v.(*model.Document)
	require.Equal(t, 11, doc.ID)

	hist := sc.history("ingest:job:job-1")
	require.GreaterOrEqual(t, len(hist), 3)
	require.Equal(t, StatusQueued, hist[0].State)
	last := hist[len(hist)-1]
	require.Equal(t, StatusDone, last.State)
	require.Equal(t, 11, last.DocumentID)
}

func TestSubmitNoJSONStillIngests(t *testing.T) {
	t.Cleanup(restoreSeams)
	defaultUser = func(context.Context, database.DB) (*model.User, error) {
		return &model.User{ID: 1}, nil
	}
	insertDocument = func(_ context.Context, _ database.DB, d *model.Document) (*model.Document, error) {
		require.Empty(t, d.Fields)
		d.ID = 2
		return d, nil
	}

	sc := newStatusCache()
	s := NewSubmitter(&database.FakeDB{}, sc.fake(), newQueue(t))

	_, fut, err := s.Submit(context.Background(), Request{Title: "note", Text: "plain text"})
	require.NoError(t, err)
	v, err := fut.Result(5 * time.Second)
	require.NoError(t, err)
	require.Equal(t, 2, v.(*model.Document).ID)
}

func TestSubmitStoreFailure(t *testing.T) {
	t.Cleanup(restoreSeams)
	newJobID = func() string { return "job-f" }
	defaultUser = func(context.Context, database.DB) (*model.User, error) {
		return &model.User{ID: 1}, nil
	}
	boom := errors.New("insert failed")
	insertDocument = func(context.Context, database.DB, *model.Document) (*model.Document, error) {
		return nil, boom
	}

	sc := newStatusCache()
	s := NewSubmitter(&database.FakeDB{}, sc.fake(), newQueue(t))

	_, fut, err := s.Submit(context.Background(), Request{Title: "x", Text: "{}"})
	require.NoError(t, err)
	_, err = fut.Result(5 * time.Second)
	require.ErrorIs(t, err, boom)

	hist := sc.history("ingest:job:job-f")
	last := hist[len(hist)-1]
	require.Equal(t, StatusFailed, last.State)
	require.Contains(t, last.Error, "insert failed")
}

func TestSubmitQueueClosed(t *testing.T) {
	t.Cleanup(restoreSeams)
	q, err := queue.New(1)
	require.NoError(t, err)
	q.Shutdown(true)

	sc := newStatusCache()
	s := NewSubmitter(&database.FakeDB{}, sc.fake(), q)
	_, _, err = s.Submit(context.Background(), Request{Title: "x", Text: "{}"})
	require.ErrorIs(t, err, queue.ErrQueueClosed)
}

func TestGetStatus(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		raw, err := json.Marshal(Status{JobID: "j", State: StatusDone, DocumentID: 3})
		require.NoError(t, err)
		c := &cache.FakeCache{GetFn: func(_ context.Context, key string) *redis.StringCmd {
			require.Equal(t, "ingest:job:j", key)
			return redis.NewStringResult(string(raw), nil)
		}}
		s := NewSubmitter(&database.FakeDB{}, c, nil)
		st, err := s.GetStatus(context.Background(), "j")
		require.NoError(t, err)
		require.Equal(t, StatusDone, st.State)
		require.Equal(t, 3, st.DocumentID)
	})

	t.Run("unknown", func(t *testing.T) {
		c := &cache.FakeCache{GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", redis.Nil)
		}}
		s := NewSubmitter(&database.FakeDB{}, c, nil)
		_, err := s.GetStatus(context.Background(), "j")
		require.ErrorIs(t, err, ErrUnknownJob)
	})

	t.Run("cache error", func(t *testing.T) {
		c := &cache.FakeCache{GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("down"))
		}}
		s := NewSubmitter(&database.FakeDB{}, c, nil)
		_, err := s.GetStatus(context.Background(), "j")
		require.Error(t, err)
	})

	t.Run("corrupt record", func(t *testing.T) {
		c := &cache.FakeCache{GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("not json", nil)
		}}
		s := NewSubmitter(&database.FakeDB{}, c, nil)
		_, err := s.GetStatus(context.Background(), "j")
		require.Error(t, err)
	})
}
