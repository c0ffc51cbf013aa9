package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = (%v, %v, %v), want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "layout:abc", []byte(`{"ticks":300}`), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"ticks":300}` {
		t.Errorf("data = %s", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry file not removed: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q", c.Dir())
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	tree := k.TreeHash([]byte(`{"people":[]}`))

	base := LayoutKeyOpts{Width: 1000, Height: 800, Visible: "PARENT,SPOUSE,SIBLING", MaxTicks: 300}
	lk := k.LayoutKey(tree, base)
	if !strings.HasPrefix(lk, "layout:") {
		t.Errorf("LayoutKey = %q", lk)
	}
	if lk != k.LayoutKey(tree, base) {
		t.Error("LayoutKey not deterministic")
	}

	variants := []LayoutKeyOpts{
		{Width: 1200, Height: 800, Visible: base.Visible, MaxTicks: 300},
		{Width: 1000, Height: 800, Visible: "PARENT", MaxTicks: 300},
		{Width: 1000, Height: 800, Visible: base.Visible, MaxTicks: 300, ConfigHash: "x"},
		{Width: 1000, Height: 800, Visible: base.Visible, MaxTicks: 50},
	}
	for _, v := range variants {
		if k.LayoutKey(tree, v) == lk {
			t.Errorf("LayoutKey(%+v) collides with base", v)
		}
	}
	if k.LayoutKey(k.TreeHash([]byte("other")), base) == lk {
		t.Error("different trees share a layout key")
	}

	ak1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Dark: true})
	ak3 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png", Scale: 2})
	if ak1 == ak2 || ak1 == ak3 || ak2 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "v1.0.0:")

	opts := LayoutKeyOpts{Width: 800}
	if got, want := scoped.LayoutKey("t", opts), "v1.0.0:"+inner.LayoutKey("t", opts); got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
	aopts := ArtifactKeyOpts{Format: "pdf"}
	if got, want := scoped.ArtifactKey("l", aopts), "v1.0.0:"+inner.ArtifactKey("l", aopts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}
	if scoped.TreeHash([]byte("x")) != inner.TreeHash([]byte("x")) {
		t.Error("TreeHash should not be scoped")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("t", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, errTransient) {
		t.Error("Retryable should unwrap to the original error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := backoff
	backoff = time.Millisecond
	t.Cleanup(func() { backoff = old })

	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		fn        func(calls int) error
		wantErr   error
		wantCalls int
	}{
		{"success", func(int) error { return nil }, nil, 1},
		{"permanent", func(int) error { return permanent }, permanent, 1},
		{"recovers", func(c int) error {
			if c < 2 {
				return Retryable(errTransient)
			}
			return nil
		}, nil, 2},
		{"exhausts", func(int) error { return Retryable(errTransient) }, errTransient, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				return tt.fn(calls)
			})
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestIsRedisURL(t *testing.T) {
	tests := map[string]bool{
		"redis://localhost:6379/0": true,
		"rediss://cache.internal":  true,
		"/tmp/familytree":          false,
		"":                         false,
	}
	for in, want := range tests {
		if got := IsRedisURL(in); got != want {
			t.Errorf("IsRedisURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://localhost", ""); err == nil {
		t.Error("expected error for non-redis URL")
	}
}

// TestRedisCache runs against a live server named by FAMILYTREE_TEST_REDIS.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("FAMILYTREE_TEST_REDIS")
	if url == "" {
		t.Skip("FAMILYTREE_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "familytree-test:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	t.Cleanup(func() { _ = c.Clear(ctx) })

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get before Set: hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = (%q, %v, %v)", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
}
