package reconcile

import (
	"context"

	"souq-client/internal/cart"

	"github.com/stretchr/testify/mock"
)

// MockRemote is a mock implementation of the remote.Client interface
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Fetch(ctx context.Context, userID string) (cart.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockRemote) Add(ctx context.Context, userID string, item cart.CartItem) (cart.Cart, error) {
	args := m.Called(ctx, userID, item)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockRemote) Update(ctx context.Context, userID string, item cart.CartItem) (cart.Cart, error) {
	args := m.Called(ctx, userID, item)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockRemote) Remove(ctx context.Context, userID string, productID int64) (cart.Cart, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockRemote) Clear(ctx context.Context, userID string) (cart.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(cart.Cart), args.Error(1)
}

// MockGuestStore is a mock implementation of localstore.GuestCartStore
type MockGuestStore struct {
	mock.Mock
}

func (m *MockGuestStore) Load(ctx context.Context) cart.Cart {
	args := m.Called(ctx)
	return args.Get(0).(cart.Cart)
}

func (m *MockGuestStore) Save(ctx context.Context, c cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockGuestStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
