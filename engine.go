// Package souqclient is the client-side core of an Arabic/English
// storefront: the guest/authenticated cart reconciliation engine, the
// device-local guest stores, and the remote cart API client. The host
// app's UI event handlers drive it; rendering, routing, and the backend's
// business rules live elsewhere.
package souqclient

import (
	"database/sql"
	"fmt"

	"souq-client/internal/config"
	"souq-client/internal/localstore"
	"souq-client/internal/logger"
	"souq-client/internal/metrics"
	"souq-client/internal/reconcile"
	"souq-client/internal/remote"
	"souq-client/internal/session"
	"souq-client/internal/wishlist"
)

// Engine bundles the wired-up storefront core.
type Engine struct {
	Cart     *reconcile.Controller
	Wishlist *wishlist.Store
	Session  *session.Session
	Metrics  *metrics.Engine

	db *sql.DB
}

// Open assembles the engine from configuration: device store, guest cart
// and wishlist stores, remote client, session, and the reconciliation
// controller that owns the cart.
func Open(cfg *config.Config) (*Engine, error) {
	logger.Init(cfg.AppEnv)

	db, err := localstore.Open(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	blobs := localstore.NewStore(db)
	sess := session.New()
	stats := &metrics.Engine{}

	api := remote.NewClient(remote.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.RequestTimeout,
		Token:     sess.Token,
		RateLimit: cfg.RemoteRateLimit,
		RateBurst: cfg.RemoteRateBurst,
	})

	return &Engine{
		Cart:     reconcile.New(localstore.NewGuestCartStore(blobs), api, sess, stats),
		Wishlist: wishlist.NewStore(blobs),
		Session:  sess,
		Metrics:  stats,
		db:       db,
	}, nil
}

// Close releases the device store and flushes logs.
func (e *Engine) Close() error {
	logger.Sync()
	return e.db.Close()
}
