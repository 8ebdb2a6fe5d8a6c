package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			n++
		}
		delete(f.values, k)
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "v" {
		t.Fatalf("unexpected get result: %q %v %v", data, ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be dropped, len=%d", c.Len())
	}
}

func TestMemory_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	src := []byte("abc")
	_ = c.Set(ctx, "k", src, 0)
	src[0] = 'x'
	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}
}

func TestNull_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Cache = Null{}
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedis_PrefixAndMiss(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := NewRedis(fake, "cv:")

	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "k", []byte("1.5"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if fake.values["cv:k"] != "1.5" {
		t.Fatalf("value not stored under prefixed key: %#v", fake.values)
	}
	if fake.ttls["cv:k"] != time.Hour {
		t.Fatalf("ttl not forwarded: %v", fake.ttls["cv:k"])
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "1.5" {
		t.Fatalf("unexpected get result: %q %v %v", data, ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := fake.values["cv:k"]; ok {
		t.Fatal("key not deleted")
	}
	if err := c.Close(); err != nil || !fake.closed {
		t.Fatalf("close not forwarded: %v", err)
	}
}

func TestRedis_ErrorIsWrapped(t *testing.T) {
	boom := errors.New("conn refused")
	fake := newFakeRedis()
	fake.err = boom
	c := NewRedis(fake, "")
	if _, _, err := c.Get(context.Background(), "k"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("measure", "head", "body")
	b := Key("measure", "head", "body")
	if a != b {
		t.Fatalf("key not deterministic: %s vs %s", a, b)
	}
	if a == Key("measure", "headb", "ody") {
		t.Fatal("parts must be delimited")
	}
	if len(a) != len("measure:")+64 {
		t.Fatalf("unexpected key length: %s", a)
	}
}
