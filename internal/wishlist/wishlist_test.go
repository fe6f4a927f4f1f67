package wishlist

import (
	"context"
	"testing"

	"souq-client/internal/cart"
	"souq-client/internal/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlobs struct {
	blobs map[string][]byte
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: make(map[string][]byte)}
}

func (m *memBlobs) GetBlob(_ context.Context, key string) ([]byte, error) {
	v, ok := m.blobs[key]
	if !ok {
		return nil, localstore.ErrKeyNotFound
	}
	return v, nil
}

func (m *memBlobs) PutBlob(_ context.Context, key string, value []byte) error {
	m.blobs[key] = value
	return nil
}

func (m *memBlobs) DeleteBlob(_ context.Context, key string) error {
	delete(m.blobs, key)
	return nil
}

func TestStore_AddAndItems(t *testing.T) {
	s := NewStore(newMemBlobs())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ProductID: 1, Name: cart.LocalizedText{En: "Belt"}, Price: 20}))
	require.NoError(t, s.Add(ctx, Item{ProductID: 2, Name: cart.LocalizedText{En: "Bag"}, Price: 80}))

	items := s.Items(ctx)
	require.Len(t, items, 2)
	// Newest first.
	assert.Equal(t, int64(2), items[0].ProductID)
	assert.Equal(t, int64(1), items[1].ProductID)
	assert.False(t, items[0].AddedAt.IsZero())
}

func TestStore_AddDuplicateIsNoOp(t *testing.T) {
	s := NewStore(newMemBlobs())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ProductID: 1}))
	require.NoError(t, s.Add(ctx, Item{ProductID: 1}))

	assert.Len(t, s.Items(ctx), 1)
}

func TestStore_Remove(t *testing.T) {
	s := NewStore(newMemBlobs())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ProductID: 1}))
	require.NoError(t, s.Add(ctx, Item{ProductID: 2}))

	require.NoError(t, s.Remove(ctx, 1))
	items := s.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)

	// Unknown product is a no-op.
	require.NoError(t, s.Remove(ctx, 99))
	assert.Len(t, s.Items(ctx), 1)
}

func TestStore_Contains(t *testing.T) {
	s := NewStore(newMemBlobs())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ProductID: 5}))
	assert.True(t, s.Contains(ctx, 5))
	assert.False(t, s.Contains(ctx, 6))
}

func TestStore_Clear(t *testing.T) {
	mem := newMemBlobs()
	s := NewStore(mem)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ProductID: 1}))
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Items(ctx))
	_, ok := mem.blobs[localstore.KeyWishlist]
	assert.False(t, ok)
}

func TestStore_CorruptedBlobFailsSoft(t *testing.T) {
	mem := newMemBlobs()
	mem.blobs[localstore.KeyWishlist] = []byte("{broken")
	s := NewStore(mem)

	assert.Empty(t, s.Items(context.Background()))
}
