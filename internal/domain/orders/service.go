package orders

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"taobao-orders/backend/internal/authctx"
	"taobao-orders/backend/internal/utils"
)

// Store is the persistence the service needs. *Repo implements it.
type Store interface {
	List(ctx context.Context, userID string) ([]OrdersDoc, error)
	UserIDs(ctx context.Context) ([]string, error)
	WatchOrders(ctx context.Context, userID string) (SnapshotIterator, error)
	WatchUserIDs(ctx context.Context) (IDIterator, error)
	UpdateOrders(ctx context.Context, userID string, fn func([]map[string]any) ([]map[string]any, error)) error
}

// NameResolver looks up a user's display name; *user.Repo implements it.
type NameResolver interface {
	DisplayName(ctx context.Context, uid string) (string, error)
}

type Options struct {
	// PriceOverrideRole, when set, is required to change manual prices.
	PriceOverrideRole string
	// LookupConcurrency bounds parallel display name lookups per snapshot.
	LookupConcurrency int
	Now               func() time.Time
}

type Service struct {
	store Store
	names NameResolver
	opts  Options
}

func NewService(store Store, names NameResolver, opts Options) *Service {
	if opts.LookupConcurrency <= 0 {
		opts.LookupConcurrency = 8
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{store: store, names: names, opts: opts}
}

// NewWatch prepares a live view filtered to userID (empty for all owners).
// Nothing is read until SubscribeOrders or SubscribeUserIDs is called; the
// caller owns the watch and must call Cleanup.
func (s *Service) NewWatch(ctx context.Context, userID string) *Watch {
	return newWatch(ctx, s.store, s.names, s.opts.LookupConcurrency, utils.NormalizeID(userID))
}

// List reads the orders once and joins display names, like a single
// snapshot of a Watch.
func (s *Service) List(ctx context.Context, userID string) ([]OrdersDoc, error) {
	docs, err := s.store.List(ctx, utils.NormalizeID(userID))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return joinDisplayNames(ctx, s.names, s.opts.LookupConcurrency, docs), nil
}

func (s *Service) UserIDs(ctx context.Context) ([]string, error) {
	ids, err := s.store.UserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

// UpdateManualPrice stores a manual price override on every order of
// userID's document whose orderId matches. The caller is taken from ctx.
func (s *Service) UpdateManualPrice(ctx context.Context, userID, orderID string, manualPrice float64) (*ManualPriceResult, error) {
	caller, ok := authctx.UserFrom(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if role := s.opts.PriceOverrideRole; role != "" && !caller.HasRole(role) {
		return nil, fmt.Errorf("%w: role %q required", ErrForbidden, role)
	}

	userID = utils.NormalizeID(userID)
	orderID = utils.NormalizeID(orderID)
	if userID == "" || orderID == "" {
		return nil, fmt.Errorf("%w: userId and orderId are required", ErrBadRequest)
	}
	if math.IsNaN(manualPrice) || math.IsInf(manualPrice, 0) || manualPrice < 0 {
		return nil, fmt.Errorf("%w: manualPrice must be a non-negative number", ErrBadRequest)
	}

	now := s.opts.Now()
	var matched int
	err := s.store.UpdateOrders(ctx, userID, func(entries []map[string]any) ([]map[string]any, error) {
		out, n := ApplyManualPrice(entries, orderID, manualPrice, caller.UID, now)
		if n == 0 {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		matched = n
		return out, nil
	})
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Str("orderId", orderID).Msg("error updating manual price")
		return nil, err
	}

	log.Info().
		Str("userId", userID).
		Str("orderId", orderID).
		Float64("manualPrice", manualPrice).
		Str("by", caller.UID).
		Int("matched", matched).
		Msg("manual price updated")

	return &ManualPriceResult{
		UserID:      userID,
		OrderID:     orderID,
		ManualPrice: manualPrice,
		UpdatedAt:   now,
		UpdatedBy:   caller.UID,
		Matched:     matched,
	}, nil
}
