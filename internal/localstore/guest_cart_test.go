package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"souq-client/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store double.
type memStore struct {
	blobs   map[string][]byte
	getErr  error
	putErr  error
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) GetBlob(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) PutBlob(_ context.Context, key string, value []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.blobs[key] = value
	return nil
}

func (m *memStore) DeleteBlob(_ context.Context, key string) error {
	delete(m.blobs, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func TestGuestCartStore_RoundTrip(t *testing.T) {
	mem := newMemStore()
	gs := NewGuestCartStore(mem)
	ctx := context.Background()

	c := cart.Empty()
	cart.Upsert(&c, cart.CartItem{ProductID: 7, Quantity: 2, Price: 50, OriginalPrice: 50})

	require.NoError(t, gs.Save(ctx, c))

	loaded := gs.Load(ctx)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, int64(7), loaded.Items[0].ProductID)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, 100.0, loaded.SubTotal)
	assert.True(t, loaded.IsGuest)
	assert.Empty(t, loaded.UserID)
}

func TestGuestCartStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingBlobIsEmptyCart", func(t *testing.T) {
		gs := NewGuestCartStore(newMemStore())
		loaded := gs.Load(ctx)
		assert.Empty(t, loaded.Items)
		assert.True(t, loaded.IsGuest)
	})

	t.Run("CorruptedBlobFailsSoft", func(t *testing.T) {
		mem := newMemStore()
		mem.blobs[KeyCart] = []byte("{not json")
		gs := NewGuestCartStore(mem)

		loaded := gs.Load(ctx)
		assert.Empty(t, loaded.Items)
		assert.Equal(t, 0.0, loaded.GrandTotal)
	})

	t.Run("ReadErrorFailsSoft", func(t *testing.T) {
		mem := newMemStore()
		mem.getErr = errors.New("io error")
		gs := NewGuestCartStore(mem)

		loaded := gs.Load(ctx)
		assert.Empty(t, loaded.Items)
	})

	t.Run("StaleTotalsRecomputed", func(t *testing.T) {
		mem := newMemStore()
		stale := cart.Empty()
		stale.Items = []cart.CartItem{{ID: "a", ProductID: 1, Quantity: 2, Price: 10, OriginalPrice: 10}}
		stale.SubTotal = 999 // wrong on purpose
		raw, err := json.Marshal(stale)
		require.NoError(t, err)
		mem.blobs[KeyCart] = raw

		loaded := NewGuestCartStore(mem).Load(ctx)
		assert.Equal(t, 20.0, loaded.SubTotal)
	})
}

func TestGuestCartStore_Clear(t *testing.T) {
	mem := newMemStore()
	gs := NewGuestCartStore(mem)
	ctx := context.Background()

	require.NoError(t, gs.Save(ctx, cart.Empty()))
	require.NoError(t, gs.Clear(ctx))

	assert.Contains(t, mem.deleted, KeyCart)
	assert.Empty(t, gs.Load(ctx).Items)
}
