package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheManager(client), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	cm, _ := newTestCache(t)
	ctx := context.Background()

	type examStub struct {
		Code  string `json:"code"`
		Title string `json:"title"`
	}

	in := examStub{Code: "CS101-F1", Title: "Final"}
	if err := cm.Exam.Set(ctx, "code:CS101-F1", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out examStub
	if err := cm.Exam.Get(ctx, "code:CS101-F1", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	cm, _ := newTestCache(t)

	var out map[string]string
	err := cm.Exam.Get(context.Background(), "code:NOPE", &out)
	if err != ErrCacheNotFound {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	if err := cm.Exam.Set(ctx, "code:X", "v", time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}

	var out string
	if err := cm.Exam.Get(ctx, "code:X", &out); err != ErrCacheNotAvailable {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	cm, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"marks": 5}, nil
	}

	var first map[string]int
	if err := cm.Question.CacheOrExecute(ctx, "id:1", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 fetch call, got %d", calls)
	}

	// Async cache write may race the second read; wait for the key.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ok, _ := cm.Question.Exists(ctx, "id:1"); ok {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	var second map[string]int
	if err := cm.Question.CacheOrExecute(ctx, "id:1", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute (cached) failed: %v", err)
	}
	if second["marks"] != 5 {
		t.Errorf("got %v, want marks=5", second)
	}
}

func TestCacheManager_InvalidateSubmissionExists(t *testing.T) {
	cm, _ := newTestCache(t)
	ctx := context.Background()

	if err := cm.Exists.Set(ctx, "submission:1:2", true, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := cm.InvalidateSubmissionExists(ctx, 1, 2); err != nil {
		t.Fatalf("InvalidateSubmissionExists failed: %v", err)
	}

	ok, err := cm.Exists.Exists(ctx, "submission:1:2")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("expected key to be invalidated")
	}
}
