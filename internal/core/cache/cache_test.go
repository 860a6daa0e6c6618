package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"go-user-admin-api/internal/core/cache"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	return cache.New(srv.Addr(), "", 0)
}

func TestGetOrLoad_MissThenHit(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v1"), nil
	}

	b, err := c.GetOrLoad(ctx, "k", time.Minute, load)
	if err != nil || string(b) != "v1" {
		t.Fatalf("first GetOrLoad = %q, %v", b, err)
	}
	b, err = c.GetOrLoad(ctx, "k", time.Minute, load)
	if err != nil || string(b) != "v1" {
		t.Fatalf("second GetOrLoad = %q, %v", b, err)
	}
	if calls != 1 {
		t.Fatalf("load calls = %d, want 1", calls)
	}
}

func TestGetOrLoad_LoadErrorNotCached(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	boom := errors.New("db down")
	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return []byte("ok"), nil
	}

	if _, err := c.GetOrLoad(ctx, "k", time.Minute, load); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	b, err := c.GetOrLoad(ctx, "k", time.Minute, load)
	if err != nil || string(b) != "ok" {
		t.Fatalf("retry GetOrLoad = %q, %v", b, err)
	}
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	val := "v1"
	load := func(context.Context) ([]byte, error) { return []byte(val), nil }

	if _, err := c.GetOrLoad(ctx, "k", time.Minute, load); err != nil {
		t.Fatalf("prime: %v", err)
	}
	val = "v2"
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	b, err := c.GetOrLoad(ctx, "k", time.Minute, load)
	if err != nil || string(b) != "v2" {
		t.Fatalf("after invalidate = %q, %v", b, err)
	}
}

type account struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestGetOrLoadJSON_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*account, error) {
		calls++
		return &account{ID: 7, Name: "bob"}, nil
	}

	v, err := cache.GetOrLoadJSON(c, ctx, "acct:7", time.Minute, load)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if v == nil || v.ID != 7 || v.Name != "bob" {
		t.Fatalf("v = %+v", v)
	}
	v, err = cache.GetOrLoadJSON(c, ctx, "acct:7", time.Minute, load)
	if err != nil || v == nil || v.Name != "bob" {
		t.Fatalf("second = %+v, %v", v, err)
	}
	if calls != 1 {
		t.Fatalf("load calls = %d, want 1", calls)
	}
}

func TestGetOrLoadJSON_NegativeCacheUntilInvalidated(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var stored *account
	load := func(context.Context) (*account, error) { return stored, nil }

	v, err := cache.GetOrLoadJSON(c, ctx, "acct:9", time.Minute, load)
	if err != nil || v != nil {
		t.Fatalf("miss = %+v, %v, want nil, nil", v, err)
	}

	// "null" 已缓存；行出现后不删 key 读到的还是 miss
	stored = &account{ID: 9, Name: "eve"}
	v, err = cache.GetOrLoadJSON(c, ctx, "acct:9", time.Minute, load)
	if err != nil || v != nil {
		t.Fatalf("stale = %+v, %v, want nil, nil", v, err)
	}

	if err := c.Invalidate(ctx, "acct:9"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	v, err = cache.GetOrLoadJSON(c, ctx, "acct:9", time.Minute, load)
	if err != nil || v == nil || v.ID != 9 {
		t.Fatalf("after invalidate = %+v, %v", v, err)
	}
}
