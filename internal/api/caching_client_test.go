package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vilaca/profile-card/internal/domain"
)

// mockProfileClient is a test double for both profile client interfaces.
type mockProfileClient struct {
	getUserFunc    func(ctx context.Context, handle string) (*domain.ExternalProfile, error)
	getProfileFunc func(ctx context.Context, username string) (*domain.InternalProfile, error)
	userCalls      atomic.Int32
	profileCalls   atomic.Int32
}

func (m *mockProfileClient) GetUser(ctx context.Context, handle string) (*domain.ExternalProfile, error) {
	m.userCalls.Add(1)
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, handle)
	}
	return &domain.ExternalProfile{Login: handle}, nil
}

func (m *mockProfileClient) GetProfileByUsername(ctx context.Context, username string) (*domain.InternalProfile, error) {
	m.profileCalls.Add(1)
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, username)
	}
	return &domain.InternalProfile{Username: username}, nil
}

func newMiniRedisCache(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, NewRedisCache(client)
}

// TestCachingClient_GetUserCachesSuccess tests that a second lookup is served from cache.
func TestCachingClient_GetUserCachesSuccess(t *testing.T) {
	// Arrange
	upstream := &mockProfileClient{}
	cache := NewMemoryCache(0)
	client := NewCachingClient(upstream, upstream, cache, time.Minute, zap.NewNop())

	// Act
	first, err1 := client.GetUser(context.Background(), "Octocat")
	second, err2 := client.GetUser(context.Background(), "octocat")

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("expected no errors, got %v / %v", err1, err2)
	}
	if upstream.userCalls.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", upstream.userCalls.Load())
	}
	if first.Login != "Octocat" || second.Login != "Octocat" {
		t.Errorf("expected cached login 'Octocat', got %q and %q", first.Login, second.Login)
	}
}

// TestCachingClient_ErrorsAreNotCached tests that failures always reach upstream.
func TestCachingClient_ErrorsAreNotCached(t *testing.T) {
	// Arrange
	upstream := &mockProfileClient{
		getProfileFunc: func(ctx context.Context, username string) (*domain.InternalProfile, error) {
			return nil, ErrNotFound
		},
	}
	cache := NewMemoryCache(0)
	client := NewCachingClient(upstream, upstream, cache, time.Minute, zap.NewNop())

	// Act
	_, err1 := client.GetProfileByUsername(context.Background(), "ghost")
	_, err2 := client.GetProfileByUsername(context.Background(), "ghost")

	// Assert
	if !errors.Is(err1, ErrNotFound) || !errors.Is(err2, ErrNotFound) {
		t.Fatalf("expected ErrNotFound twice, got %v / %v", err1, err2)
	}
	if upstream.profileCalls.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", upstream.profileCalls.Load())
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", cache.Len())
	}
}

// TestCachingClient_ExpiredEntryRefetches tests TTL expiry with a controlled clock.
func TestCachingClient_ExpiredEntryRefetches(t *testing.T) {
	// Arrange
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(0)
	cache.now = func() time.Time { return now }
	upstream := &mockProfileClient{}
	client := NewCachingClient(upstream, upstream, cache, time.Minute, zap.NewNop())

	// Act
	_, _ = client.GetProfileByUsername(context.Background(), "octocat")
	now = now.Add(2 * time.Minute)
	_, _ = client.GetProfileByUsername(context.Background(), "octocat")

	// Assert
	if upstream.profileCalls.Load() != 2 {
		t.Errorf("expected refetch after expiry, got %d calls", upstream.profileCalls.Load())
	}
}

// TestCachingClient_PreservesOptionalRecords tests that nil sub-records survive a cache round trip.
func TestCachingClient_PreservesOptionalRecords(t *testing.T) {
	// Arrange
	views := int64(1500)
	upstream := &mockProfileClient{
		getProfileFunc: func(ctx context.Context, username string) (*domain.InternalProfile, error) {
			return &domain.InternalProfile{
				Username: username,
				Stats:    &domain.Stats{ViewCount: &views},
			}, nil
		},
	}
	client := NewCachingClient(upstream, upstream, NewMemoryCache(0), time.Minute, zap.NewNop())

	// Act
	_, _ = client.GetProfileByUsername(context.Background(), "octocat")
	cached, err := client.GetProfileByUsername(context.Background(), "octocat")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cached.Premium != nil {
		t.Errorf("expected nil premium after round trip, got %+v", cached.Premium)
	}
	if cached.ViewCount() != 1500 {
		t.Errorf("expected view count 1500, got %d", cached.ViewCount())
	}
}

// TestCachingClient_CollapsesConcurrentMisses tests that simultaneous lookups share one request.
func TestCachingClient_CollapsesConcurrentMisses(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	upstream := &mockProfileClient{
		getUserFunc: func(ctx context.Context, handle string) (*domain.ExternalProfile, error) {
			<-release
			return &domain.ExternalProfile{Login: handle}, nil
		},
	}
	client := NewCachingClient(upstream, upstream, nil, 0, zap.NewNop())

	// Act
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.GetUser(context.Background(), "octocat"); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	// Assert
	if calls := upstream.userCalls.Load(); calls != 1 {
		t.Errorf("expected concurrent lookups to share 1 upstream call, got %d", calls)
	}
}

// TestCachingClient_CancelledCallerDoesNotFailOthers tests that a caller giving
// up on a shared lookup leaves the other callers and the upstream fetch running.
func TestCachingClient_CancelledCallerDoesNotFailOthers(t *testing.T) {
	// Arrange
	started := make(chan struct{})
	release := make(chan struct{})
	var fetchErr atomic.Value
	upstream := &mockProfileClient{
		getUserFunc: func(ctx context.Context, handle string) (*domain.ExternalProfile, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				fetchErr.Store(err)
			}
			return &domain.ExternalProfile{Login: handle}, nil
		},
	}
	client := NewCachingClient(upstream, upstream, NewMemoryCache(0), time.Minute, zap.NewNop()).
		WithFetchTimeout(5 * time.Second)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.GetUser(firstCtx, "octocat")
		firstErr <- err
	}()
	<-started

	type outcome struct {
		profile *domain.ExternalProfile
		err     error
	}
	second := make(chan outcome, 1)
	go func() {
		profile, err := client.GetUser(context.Background(), "octocat")
		second <- outcome{profile, err}
	}()
	time.Sleep(50 * time.Millisecond)

	// Act
	cancelFirst()
	errFirst := <-firstErr
	close(release)
	got := <-second

	// Assert
	if !errors.Is(errFirst, context.Canceled) {
		t.Errorf("expected cancelled caller to get context.Canceled, got %v", errFirst)
	}
	if got.err != nil {
		t.Fatalf("expected live caller to succeed, got %v", got.err)
	}
	if got.profile == nil || got.profile.Login != "octocat" {
		t.Errorf("expected profile for octocat, got %+v", got.profile)
	}
	if err := fetchErr.Load(); err != nil {
		t.Errorf("expected upstream fetch context to stay live, got %v", err)
	}
	if calls := upstream.userCalls.Load(); calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}

	// The shared result is still cached for later callers
	if _, err := client.GetUser(context.Background(), "octocat"); err != nil {
		t.Fatalf("expected cached lookup to succeed, got %v", err)
	}
	if calls := upstream.userCalls.Load(); calls != 1 {
		t.Errorf("expected cached lookup to skip upstream, got %d calls", calls)
	}
}

// TestCachingClient_RedisBackend tests caching through Redis.
func TestCachingClient_RedisBackend(t *testing.T) {
	// Arrange
	mr, cache := newMiniRedisCache(t)
	defer mr.Close()
	defer func() { _ = cache.Close() }()

	upstream := &mockProfileClient{}
	client := NewCachingClient(upstream, upstream, cache, 30*time.Second, zap.NewNop())
	ctx := context.Background()

	// Act
	_, _ = client.GetUser(ctx, "octocat")
	_, _ = client.GetUser(ctx, "octocat")

	// Assert
	if upstream.userCalls.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", upstream.userCalls.Load())
	}
	if !mr.Exists("profile-card:github:user:octocat") {
		t.Error("expected cache key to be stored in redis")
	}
	if ttl := mr.TTL("profile-card:github:user:octocat"); ttl != 30*time.Second {
		t.Errorf("expected ttl 30s, got %v", ttl)
	}

	mr.FastForward(31 * time.Second)
	_, _ = client.GetUser(ctx, "octocat")
	if upstream.userCalls.Load() != 2 {
		t.Errorf("expected refetch after redis expiry, got %d calls", upstream.userCalls.Load())
	}
}

// TestCachingClient_RedisUnavailable tests that a broken cache falls through to upstream.
func TestCachingClient_RedisUnavailable(t *testing.T) {
	// Arrange
	mr, cache := newMiniRedisCache(t)
	mr.Close()
	defer func() { _ = cache.Close() }()

	upstream := &mockProfileClient{}
	client := NewCachingClient(upstream, upstream, cache, time.Minute, zap.NewNop())

	// Act
	profile, err := client.GetProfileByUsername(context.Background(), "octocat")

	// Assert
	if err != nil {
		t.Fatalf("expected upstream result despite cache failure, got %v", err)
	}
	if profile.Username != "octocat" {
		t.Errorf("expected username 'octocat', got '%s'", profile.Username)
	}
}
