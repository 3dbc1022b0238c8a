package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shop-service/internal/domain"
	"shop-service/internal/infra/cache"
	"shop-service/internal/mocks"
	"shop-service/internal/repository"
	"shop-service/internal/repository/memory"
)

func TestShopService_CachingBehavior(t *testing.T) {
	s, _ := newTestService(t, Options{})
	f := seed(t, s)
	ctx := context.Background()

	mockCache := new(mocks.MockCache)
	s.SetCache(mockCache)

	// first read misses and fills the cache
	mockCache.On("Get", mock.Anything, "product:1", mock.Anything).Return(nil, false, nil).Once()
	mockCache.On("Version", mock.Anything, "product:1").Return(int64(3), nil).Once()
	mockCache.On("SetIfVersion", mock.Anything, "product:1", int64(3), mock.AnythingOfType("*domain.Product")).Return(nil).Once()

	p, err := s.GetProduct(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, TestProductName, p.Name)

	// second read is served from the cache
	cached := &domain.Product{ID: 1, Name: "from-cache", Price: money("5.00")}
	mockCache.On("Get", mock.Anything, "product:1", mock.Anything).Return(cached, true, nil).Once()

	p, err = s.GetProduct(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, "from-cache", p.Name)

	// a committed update invalidates the entry
	mockCache.On("Delete", mock.Anything, []string{"product:1"}).Return(nil).Once()
	_, err = s.UpdateProduct(ctx, f.product.ID, domain.ProductPatch{Name: domain.Some("renamed")})
	require.NoError(t, err)

	mockCache.AssertExpectations(t)
}

func TestShopService_CascadeInvalidatesDependents(t *testing.T) {
	s, _ := newTestService(t, Options{DeletePolicy: domain.DeleteCascade})
	f := seed(t, s)
	ctx := context.Background()
	item, err := s.CreateOrderItem(ctx, f.order.ID, f.product.ID, 1)
	require.NoError(t, err)

	mockCache := new(mocks.MockCache)
	s.SetCache(mockCache)
	mockCache.On("Delete", mock.Anything, mock.MatchedBy(func(keys []string) bool {
		return assert.ElementsMatch(t, []string{"user:1", "order:1", "order_item:1"}, keys)
	})).Return(nil).Once()

	_, err = s.DeleteUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), item.ID)

	mockCache.AssertExpectations(t)
}

func TestShopService_CacheFailureFallsBackToStore(t *testing.T) {
	s, _ := newTestService(t, Options{})
	f := seed(t, s)

	mockCache := new(mocks.MockCache)
	s.SetCache(mockCache)
	mockCache.On("Get", mock.Anything, "user:1", mock.Anything).Return(nil, false, errors.New("connection refused"))
	mockCache.On("Version", mock.Anything, "user:1").Return(int64(0), errors.New("connection refused"))

	u, err := s.GetUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, TestUsername, u.Username)
	// a fill without a version could overwrite a newer invalidation
	mockCache.AssertNotCalled(t, "SetIfVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestShopService_CachedMissIsNotFound(t *testing.T) {
	s, _ := newTestService(t, Options{})

	mockCache := new(mocks.MockCache)
	s.SetCache(mockCache)
	mockCache.On("Get", mock.Anything, "order:7", mock.Anything).Return(nil, false, nil)
	mockCache.On("Version", mock.Anything, "order:7").Return(int64(0), nil)

	_, err := s.GetOrder(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockCache.AssertNotCalled(t, "SetIfVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// versionedCache is an in-process ClientInterface that stores entities in
// their cache encoding.
type versionedCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	versions map[string]int64
}

func newVersionedCache() *versionedCache {
	return &versionedCache{entries: map[string][]byte{}, versions: map[string]int64{}}
}

func (c *versionedCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, cache.Decode(b, dst)
}

func (c *versionedCache) Version(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[key], nil
}

func (c *versionedCache) SetIfVersion(_ context.Context, key string, version int64, value any) error {
	b, err := cache.Encode(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[key] != version {
		return nil
	}
	c.entries[key] = b
	return nil
}

func (c *versionedCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.versions[k]++
		delete(c.entries, k)
	}
	return nil
}

func (c *versionedCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// pausingStore holds FindProduct after the row has been read until release
// is closed.
type pausingStore struct {
	repository.Store
	read     chan struct{}
	readOnce sync.Once
	release  chan struct{}

	mu     sync.Mutex
	ctxErr error
}

func newPausingStore() *pausingStore {
	return &pausingStore{
		Store:   memory.NewStore(),
		read:    make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *pausingStore) FindProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	prod, err := p.Store.FindProduct(ctx, id)
	p.readOnce.Do(func() { close(p.read) })
	<-p.release
	p.mu.Lock()
	p.ctxErr = ctx.Err()
	p.mu.Unlock()
	return prod, err
}

type productResult struct {
	product *domain.Product
	err     error
}

func TestShopService_InvalidationBeatsInFlightFill(t *testing.T) {
	store := newPausingStore()
	s := NewShopService(store, nil, Options{})
	f := seed(t, s)
	c := newVersionedCache()
	s.SetCache(c)
	ctx := context.Background()

	done := make(chan productResult, 1)
	go func() {
		p, err := s.GetProduct(ctx, f.product.ID)
		done <- productResult{p, err}
	}()
	<-store.read

	_, err := s.UpdateProduct(ctx, f.product.ID, domain.ProductPatch{Price: domain.Some(money("7.00"))})
	require.NoError(t, err)
	close(store.release)

	r := <-done
	require.NoError(t, r.err)
	assert.True(t, r.product.Price.Equal(money("5.00")), "the paused read saw the row before the update")
	assert.False(t, c.has("product:1"), "a fill older than the invalidation must not land")

	p, err := s.GetProduct(ctx, f.product.ID)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(money("7.00")), "got %s", p.Price)
	assert.True(t, c.has("product:1"))

	p, err = s.GetProduct(ctx, f.product.ID)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(money("7.00")), "got %s", p.Price)
}

func TestShopService_CachedUserKeepsPasswordHash(t *testing.T) {
	s, _ := newTestService(t, Options{})
	f := seed(t, s)
	c := newVersionedCache()
	s.SetCache(c)
	ctx := context.Background()

	miss, err := s.GetUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.True(t, c.has("user:1"))
	hit, err := s.GetUser(ctx, f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, TestPasswordHash, miss.PasswordHash)
	assert.Equal(t, *miss, *hit)
}

func TestShopService_CancelledReaderDoesNotFailSharedRead(t *testing.T) {
	store := newPausingStore()
	s := NewShopService(store, nil, Options{})
	f := seed(t, s)

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan productResult, 1)
	go func() {
		p, err := s.GetProduct(first, f.product.ID)
		firstDone <- productResult{p, err}
	}()
	<-store.read

	secondDone := make(chan productResult, 1)
	go func() {
		p, err := s.GetProduct(context.Background(), f.product.ID)
		secondDone <- productResult{p, err}
	}()

	cancel()
	r := <-firstDone
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.Nil(t, r.product)

	close(store.release)
	r = <-secondDone
	require.NoError(t, r.err)
	assert.Equal(t, TestProductName, r.product.Name)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.NoError(t, store.ctxErr, "the shared read must not inherit a caller's cancellation")
}
