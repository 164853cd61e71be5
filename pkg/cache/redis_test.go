package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis is an in-memory RedisClient. Calls fail with failErr until
// failures reaches zero.
type fakeRedis struct {
	data     map[string]string
	ttls     map[string]time.Duration
	failErr  error
	failures int
	calls    int
	closed   bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) fail() error {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return f.failErr
	}
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if err := f.fail(); err != nil {
		return redis.NewStringResult("", err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if err := f.fail(); err != nil {
		return redis.NewStatusResult("", err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if err := f.fail(); err != nil {
		return redis.NewIntResult(0, err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := NewRedisCacheFromClient(fake)

	if _, hit, err := c.Get(ctx, "report:x"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "report:x", []byte(`{"configured":true}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if fake.ttls["report:x"] != time.Hour {
		t.Errorf("ttl = %v, want 1h", fake.ttls["report:x"])
	}

	data, hit, err := c.Get(ctx, "report:x")
	if err != nil || !hit || string(data) != `{"configured":true}` {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "report:x"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "report:x"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	if err := c.Close(); err != nil || !fake.closed {
		t.Error("Close should close the client")
	}
}

func TestRedisCacheRetries(t *testing.T) {
	fastRetries(t)
	ctx := context.Background()
	refused := errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

	tests := []struct {
		name      string
		failures  int
		wantErr   bool
		wantCalls int
	}{
		{"RecoversAfterOneFailure", 1, false, 2},
		{"GivesUpAfterThreeAttempts", 5, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeRedis()
			fake.failErr = refused
			fake.failures = tt.failures
			c := NewRedisCacheFromClient(fake)

			err := c.Set(ctx, "k", []byte("v"), 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNetwork) {
				t.Errorf("error should wrap ErrNetwork: %v", err)
			}
			if fake.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", fake.calls, tt.wantCalls)
			}
		})
	}
}

func TestRedisCacheContextErrorNotRetried(t *testing.T) {
	fake := newFakeRedis()
	fake.failErr = context.DeadlineExceeded
	fake.failures = 3
	c := NewRedisCacheFromClient(fake)

	_, _, err := c.Get(context.Background(), "k")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Get error = %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1", fake.calls)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache("http://localhost"); err == nil {
		t.Error("NewRedisCache should reject non-redis schemes")
	}
}
