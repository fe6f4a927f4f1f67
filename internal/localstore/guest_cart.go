package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"souq-client/internal/cart"
	"souq-client/internal/logger"

	"go.uber.org/zap"
)

// GuestCartStore persists the guest cart under the fixed cart key.
type GuestCartStore interface {
	// Load returns the persisted guest cart. A missing or unreadable blob
	// yields an empty cart, never an error: a corrupt blob must not block
	// the checkout path.
	Load(ctx context.Context) cart.Cart
	Save(ctx context.Context, c cart.Cart) error
	Clear(ctx context.Context) error
}

type guestCartStore struct {
	blobs Store
}

func NewGuestCartStore(blobs Store) GuestCartStore {
	return &guestCartStore{blobs: blobs}
}

func (g *guestCartStore) Load(ctx context.Context) cart.Cart {
	raw, err := g.blobs.GetBlob(ctx, KeyCart)
	if errors.Is(err, ErrKeyNotFound) {
		return cart.Empty()
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("guest cart unreadable, starting empty", zap.Error(err))
		return cart.Empty()
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		logger.FromCtx(ctx).Warn("guest cart blob corrupted, starting empty", zap.Error(err))
		return cart.Empty()
	}

	// Stored totals may predate a price normalization fix.
	cart.RecomputeTotals(&c)
	c.IsGuest = true
	c.UserID = ""
	return c
}

func (g *guestCartStore) Save(ctx context.Context, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}
	return g.blobs.PutBlob(ctx, KeyCart, raw)
}

func (g *guestCartStore) Clear(ctx context.Context) error {
	return g.blobs.DeleteBlob(ctx, KeyCart)
}
