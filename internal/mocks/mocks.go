package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

// Get copies the value configured as the first return into dst when the
// second return is true. The value must be of dst's element type.
func (m *MockCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	if hit := args.Get(0); hit != nil && args.Bool(1) {
		copyInto(dst, hit)
	}
	return args.Bool(1), args.Error(2)
}

func (m *MockCache) Version(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) SetIfVersion(ctx context.Context, key string, version int64, value any) error {
	args := m.Called(ctx, key, version, value)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
