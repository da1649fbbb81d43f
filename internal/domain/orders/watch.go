package orders

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Watch is a live view of the orders collection, optionally narrowed to a
// single owner. Each orders snapshot is joined with the owners' display
// names before it is published. Snapshots are handled one at a time, so a
// published view never goes back to an older snapshot.
type Watch struct {
	store       Store
	names       NameResolver
	lookupLimit int
	userID      string
	parent      context.Context

	// subMu serializes Subscribe*/Cleanup so listeners are never orphaned.
	subMu  sync.Mutex
	orders *listener
	ids    *listener

	mu      sync.Mutex
	state   View
	updates chan View
	closed  bool
}

type listener struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (l *listener) stop() {
	if l == nil {
		return
	}
	l.cancel()
	<-l.done
}

func newWatch(ctx context.Context, store Store, names NameResolver, lookupLimit int, userID string) *Watch {
	if lookupLimit <= 0 {
		lookupLimit = 8
	}
	return &Watch{
		store:       store,
		names:       names,
		lookupLimit: lookupLimit,
		userID:      userID,
		parent:      ctx,
		state:       View{Orders: []OrdersDoc{}, UserIDs: []string{}},
		updates:     make(chan View, 1),
	}
}

// UserID is the owner filter; empty means every owner.
func (w *Watch) UserID() string { return w.userID }

// Snapshot returns the current view.
func (w *Watch) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

// Updates delivers views as they change. Only the latest undelivered view
// is kept. The channel is closed by Cleanup.
func (w *Watch) Updates() <-chan View { return w.updates }

// SubscribeOrders (re)starts the orders listener. The view switches to
// loading until the first snapshot has been joined with display names.
func (w *Watch) SubscribeOrders() {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	if w.isClosed() {
		return
	}

	w.orders.stop()
	w.orders = nil

	w.update(func(v *View) {
		v.Loading = true
		v.Error = ""
	})

	ctx, cancel := context.WithCancel(w.parent)
	it, err := w.store.WatchOrders(ctx, w.userID)
	if err != nil {
		cancel()
		log.Error().Err(err).Str("userId", w.userID).Msg("order subscription setup failed")
		w.update(func(v *View) {
			v.Error = MsgSubscribeFailed
			v.Loading = false
		})
		return
	}

	l := &listener{cancel: cancel, done: make(chan struct{})}
	w.orders = l
	go w.runOrders(ctx, it, l)
}

// SubscribeUserIDs (re)starts the listener over every owner ID.
func (w *Watch) SubscribeUserIDs() {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	if w.isClosed() {
		return
	}

	w.ids.stop()
	w.ids = nil

	ctx, cancel := context.WithCancel(w.parent)
	it, err := w.store.WatchUserIDs(ctx)
	if err != nil {
		cancel()
		log.Error().Err(err).Msg("user id subscription setup failed")
		return
	}

	l := &listener{cancel: cancel, done: make(chan struct{})}
	w.ids = l
	go w.runUserIDs(ctx, it, l)
}

// Cleanup stops both listeners, waits for them to exit and closes Updates.
// It is safe to call more than once.
func (w *Watch) Cleanup() {
	w.subMu.Lock()
	defer w.subMu.Unlock()

	w.orders.stop()
	w.ids.stop()
	w.orders, w.ids = nil, nil

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.updates)
}

func (w *Watch) runOrders(ctx context.Context, it SnapshotIterator, l *listener) {
	defer close(l.done)
	defer it.Stop()

	for {
		docs, err := it.Next()
		if err != nil {
			if stopped(ctx, err) {
				return
			}
			log.Error().Err(err).Str("userId", w.userID).Msg("error fetching orders")
			w.update(func(v *View) {
				v.Error = MsgFetchFailed
				v.Loading = false
			})
			return
		}

		joined := joinDisplayNames(ctx, w.names, w.lookupLimit, docs)
		if ctx.Err() != nil {
			return
		}
		w.update(func(v *View) {
			v.Orders = joined
			v.Loading = false
		})
	}
}

func (w *Watch) runUserIDs(ctx context.Context, it IDIterator, l *listener) {
	defer close(l.done)
	defer it.Stop()

	for {
		ids, err := it.Next()
		if err != nil {
			if !stopped(ctx, err) {
				log.Error().Err(err).Msg("error fetching user ids")
			}
			return
		}
		w.update(func(v *View) { v.UserIDs = ids })
	}
}

func (w *Watch) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// update applies fn to the state and publishes the result, replacing any
// view the consumer has not picked up yet.
func (w *Watch) update(fn func(v *View)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	fn(&w.state)
	v := w.state.clone()
	select {
	case <-w.updates:
	default:
	}
	w.updates <- v
}

// stopped reports whether err only means the listener was shut down.
func stopped(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, iterator.Done) || errors.Is(err, context.Canceled) {
		return true
	}
	return status.Code(err) == codes.Canceled
}

// joinDisplayNames fetches every owner's display name concurrently. A failed
// lookup is logged and leaves the name empty.
func joinDisplayNames(ctx context.Context, names NameResolver, limit int, docs []OrdersDoc) []OrdersDoc {
	out := make([]OrdersDoc, len(docs))
	copy(out, docs)
	if names == nil {
		return out
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range out {
		i := i // per-iteration copy; go 1.21 loop variables are shared
		g.Go(func() error {
			name, err := names.DisplayName(ctx, out[i].UserID)
			if err != nil {
				log.Warn().Err(err).Str("uid", out[i].UserID).Msg("error fetching user displayName")
				return nil
			}
			out[i].UserDisplayName = name
			return nil
		})
	}
	_ = g.Wait()
	return out
}
