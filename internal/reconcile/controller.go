package reconcile

import (
	"context"
	"errors"
	"sync"

	"souq-client/internal/cart"
	"souq-client/internal/localstore"
	"souq-client/internal/logger"
	"souq-client/internal/metrics"
	"souq-client/internal/remote"
	"souq-client/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrAlreadyAuthenticated = errors.New("session is already authenticated")
	ErrNotAuthenticated     = errors.New("no authenticated session")
)

// AddParams carries an add-item mutation. VariantGroups lists the
// product's selectable variant groups; the add is rejected unless the
// item's selection covers every group.
type AddParams struct {
	Item          cart.CartItem
	VariantGroups []string
}

// Controller owns the authoritative in-memory cart and decides, per
// mutation, whether it applies to the local guest store or the remote
// cart API. It is the single writer; display surfaces only read the
// projection. Mutations are serialized: each holds the lock across its
// remote round trip, so a later mutation always observes the state the
// previous one produced.
type Controller struct {
	mu      sync.Mutex
	current cart.Cart
	loading bool

	guest localstore.GuestCartStore
	api   remote.Client
	sess  *session.Session
	stats *metrics.Engine

	sfg singleflight.Group
}

func New(guest localstore.GuestCartStore, api remote.Client, sess *session.Session, stats *metrics.Engine) *Controller {
	if stats == nil {
		stats = &metrics.Engine{}
	}
	return &Controller{
		guest:   guest,
		api:     api,
		sess:    sess,
		current: cart.Empty(),
		stats:   stats,
	}
}

// Start primes the in-memory cart for a new app session: the persisted
// guest cart when logged out, the server's cart when a session survived.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sess.IsAuthenticated() {
		c.current = c.guest.Load(ctx)
		return nil
	}

	fetched, err := c.fetchAuthoritative(ctx, c.sess.UserID())
	if err != nil {
		// Keep an empty cart visible; the host can retry via Refresh.
		c.loading = true
		return err
	}
	c.adoptLocked(fetched)
	return nil
}

// AddItem validates the variant selection, then routes the add. The cart
// is untouched on any failure.
func (c *Controller) AddItem(ctx context.Context, params AddParams) error {
	if err := cart.ValidateSelection(params.VariantGroups, params.Item.SelectedVariants); err != nil {
		return err
	}
	if params.Item.Quantity < 1 {
		return cart.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sess.IsAuthenticated() {
		cart.Upsert(&c.current, params.Item)
		c.persistGuestLocked(ctx)
		return nil
	}

	updated, err := c.remoteCall(ctx, func(userID string) (cart.Cart, error) {
		return c.api.Add(ctx, userID, params.Item)
	})
	if err != nil {
		return err
	}
	c.adoptLocked(updated)
	return nil
}

// AdjustQuantity changes a line's quantity by delta, clamped at 1.
func (c *Controller) AdjustQuantity(ctx context.Context, lineID string, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sess.IsAuthenticated() {
		if err := cart.AdjustQuantity(&c.current, lineID, delta); err != nil {
			return err
		}
		c.persistGuestLocked(ctx)
		return nil
	}

	line, ok := c.findLineLocked(lineID)
	if !ok {
		return cart.ErrLineNotFound
	}
	next := line.Quantity + delta
	if next < 1 {
		next = 1
	}
	if next == line.Quantity {
		return nil
	}
	line.Quantity = next

	updated, err := c.remoteCall(ctx, func(userID string) (cart.Cart, error) {
		return c.api.Update(ctx, userID, line)
	})
	if err != nil {
		return err
	}
	c.adoptLocked(updated)
	return nil
}

// RemoveItem deletes a line. Remotely the removal key is the product id,
// so every line of that product goes; guest carts remove the single line.
func (c *Controller) RemoveItem(ctx context.Context, lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sess.IsAuthenticated() {
		if err := cart.RemoveLine(&c.current, lineID); err != nil {
			return err
		}
		c.persistGuestLocked(ctx)
		return nil
	}

	line, ok := c.findLineLocked(lineID)
	if !ok {
		return cart.ErrLineNotFound
	}

	updated, err := c.remoteCall(ctx, func(userID string) (cart.Cart, error) {
		return c.api.Remove(ctx, userID, line.ProductID)
	})
	if err != nil {
		return err
	}
	c.adoptLocked(updated)
	return nil
}

// ClearCart empties the cart in whichever store owns it.
func (c *Controller) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sess.IsAuthenticated() {
		cart.Clear(&c.current)
		c.persistGuestLocked(ctx)
		return nil
	}

	updated, err := c.remoteCall(ctx, func(userID string) (cart.Cart, error) {
		return c.api.Clear(ctx, userID)
	})
	if err != nil {
		return err
	}
	c.adoptLocked(updated)
	return nil
}

// Login transitions Guest -> Authenticated with the merge protocol:
// every guest line is pushed to the server best-effort, the authoritative
// cart is fetched and adopted, and the local guest copy is erased. A
// failed line add is logged and skipped, never aborting the login.
func (c *Controller) Login(ctx context.Context, token string) error {
	if c.sess.IsAuthenticated() {
		return ErrAlreadyAuthenticated
	}

	userID, err := c.sess.Login(token)
	if err != nil {
		return err
	}
	return c.mergeGuestCart(ctx, userID)
}

// LoginAs is Login for hosts whose auth layer already resolved the user.
func (c *Controller) LoginAs(ctx context.Context, userID, token string) error {
	if c.sess.IsAuthenticated() {
		return ErrAlreadyAuthenticated
	}
	c.sess.LoginAs(userID, token)
	return c.mergeGuestCart(ctx, userID)
}

func (c *Controller) mergeGuestCart(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := logger.FromCtx(ctx).With(zap.String("user_id", userID))
	timer := metrics.StartTimer()

	guestCart := c.guest.Load(ctx)
	for _, item := range guestCart.Items {
		if _, err := c.api.Add(ctx, userID, item); err != nil {
			c.stats.MergeFailures.Inc()
			log.Warn("failed to sync guest cart line",
				zap.Int64("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
			continue
		}
		c.stats.MergedLines.Inc()
	}

	fetched, err := c.fetchAuthoritative(ctx, userID)
	if err != nil {
		// Login itself stays successful; the cart shows as loading until
		// a Refresh lands.
		c.loading = true
		c.current = cart.Empty()
		c.current.UserID = userID
		c.current.IsGuest = false
		log.Warn("failed to fetch cart after merge", zap.Error(err))
	} else {
		c.adoptLocked(fetched)
	}

	if err := c.guest.Clear(ctx); err != nil {
		log.Warn("failed to clear guest cart after merge", zap.Error(err))
	}

	log.Info("guest cart merged",
		zap.Int("guest_lines", len(guestCart.Items)),
		zap.Duration("took", timer.Duration()),
	)
	return nil
}

// Logout transitions Authenticated -> Guest: the in-memory cart and the
// local guest copy are dropped. The server keeps its cart for next login.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sess.Logout()
	c.current = cart.Empty()
	c.loading = false

	if err := c.guest.Clear(ctx); err != nil {
		logger.FromCtx(ctx).Warn("failed to clear guest cart on logout", zap.Error(err))
	}
}

// Refresh re-fetches the authoritative cart for an authenticated session.
// Concurrent calls from multiple display surfaces collapse into one
// request.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.sess.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	userID := c.sess.UserID()

	v, err, _ := c.sfg.Do(userID, func() (interface{}, error) {
		return c.fetchAuthoritative(ctx, userID)
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.adoptLocked(v.(cart.Cart))
	c.mu.Unlock()
	return nil
}

// Cart returns a copy of the in-memory cart.
func (c *Controller) Cart() cart.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneCart(c.current)
}

// Summary returns the display projection for the given language.
func (c *Controller) Summary(lang string) cart.Summary {
	c.mu.Lock()
	current := cloneCart(c.current)
	loading := c.loading
	c.mu.Unlock()
	return cart.Project(current, lang, loading)
}

// fetchAuthoritative gets the server cart, mapping not-found to an empty
// cart owned by the user.
func (c *Controller) fetchAuthoritative(ctx context.Context, userID string) (cart.Cart, error) {
	c.stats.RemoteCalls.Inc()
	fetched, err := c.api.Fetch(ctx, userID)
	if remote.IsNotFound(err) {
		empty := cart.Empty()
		empty.UserID = userID
		empty.IsGuest = false
		return empty, nil
	}
	if err != nil {
		c.stats.RemoteFailures.Inc()
		return cart.Cart{}, err
	}
	fetched.UserID = userID
	fetched.IsGuest = false
	return fetched, nil
}

func (c *Controller) remoteCall(ctx context.Context, call func(userID string) (cart.Cart, error)) (cart.Cart, error) {
	c.stats.RemoteCalls.Inc()
	updated, err := call(c.sess.UserID())
	if err != nil {
		c.stats.RemoteFailures.Inc()
		logger.FromCtx(ctx).Warn("remote cart mutation failed", zap.Error(err))
		return cart.Cart{}, err
	}
	updated.UserID = c.sess.UserID()
	updated.IsGuest = false
	return updated, nil
}

// adoptLocked replaces the in-memory cart wholesale with the server's
// response. Caller holds mu.
func (c *Controller) adoptLocked(next cart.Cart) {
	c.current = next
	c.loading = false
}

// persistGuestLocked writes the guest cart through. Persistence failures
// are logged and swallowed: the in-memory cart already holds the user's
// intent. Caller holds mu.
func (c *Controller) persistGuestLocked(ctx context.Context) {
	if err := c.guest.Save(ctx, c.current); err != nil {
		logger.FromCtx(ctx).Warn("failed to persist guest cart", zap.Error(err))
	}
}

func (c *Controller) findLineLocked(lineID string) (cart.CartItem, bool) {
	for _, item := range c.current.Items {
		if item.ID == lineID {
			return item, true
		}
	}
	return cart.CartItem{}, false
}

func cloneCart(c cart.Cart) cart.Cart {
	out := c
	out.Items = make([]cart.CartItem, len(c.Items))
	copy(out.Items, c.Items)
	for i := range out.Items {
		if c.Items[i].SelectedVariants == nil {
			continue
		}
		sel := make(map[string]cart.LocalizedText, len(c.Items[i].SelectedVariants))
		for k, v := range c.Items[i].SelectedVariants {
			sel[k] = v
		}
		out.Items[i].SelectedVariants = sel
	}
	return out
}
