package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"souq-client/internal/cart"
	"souq-client/internal/localstore"
	"souq-client/internal/logger"

	"go.uber.org/zap"
)

// Item is one saved product. The wishlist stores display data only; the
// product page re-fetches live pricing before an add-to-cart.
type Item struct {
	ProductID          int64              `json:"productId"`
	Name               cart.LocalizedText `json:"name"`
	ImageURL           string             `json:"imageUrl"`
	Price              float64            `json:"price"`
	DiscountPercentage float64            `json:"discountPercentage"`
	AddedAt            time.Time          `json:"addedAt"`
}

// Store persists the guest wishlist under its fixed device key, the same
// blob pattern the guest cart uses.
type Store struct {
	blobs localstore.Store
}

func NewStore(blobs localstore.Store) *Store {
	return &Store{blobs: blobs}
}

// Items returns the saved products, newest first. Missing or unreadable
// blobs yield an empty list.
func (s *Store) Items(ctx context.Context) []Item {
	raw, err := s.blobs.GetBlob(ctx, localstore.KeyWishlist)
	if errors.Is(err, localstore.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("wishlist unreadable, starting empty", zap.Error(err))
		return nil
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.FromCtx(ctx).Warn("wishlist blob corrupted, starting empty", zap.Error(err))
		return nil
	}
	return items
}

// Add saves a product at the front of the list. Adding a product that is
// already saved is a no-op.
func (s *Store) Add(ctx context.Context, item Item) error {
	items := s.Items(ctx)
	for _, existing := range items {
		if existing.ProductID == item.ProductID {
			return nil
		}
	}

	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	items = append([]Item{item}, items...)
	return s.save(ctx, items)
}

// Remove drops a product from the list; unknown products are a no-op.
func (s *Store) Remove(ctx context.Context, productID int64) error {
	items := s.Items(ctx)
	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.save(ctx, kept)
}

// Contains reports whether a product is saved.
func (s *Store) Contains(ctx context.Context, productID int64) bool {
	for _, item := range s.Items(ctx) {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Clear erases the wishlist blob.
func (s *Store) Clear(ctx context.Context) error {
	return s.blobs.DeleteBlob(ctx, localstore.KeyWishlist)
}

func (s *Store) save(ctx context.Context, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	return s.blobs.PutBlob(ctx, localstore.KeyWishlist, raw)
}
