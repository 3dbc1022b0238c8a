package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"shop-service/internal/domain"
	"shop-service/internal/infra/cache"
	rabbit "shop-service/internal/infra/rabbitmq"
	"shop-service/internal/repository"
)

const publishTimeout = 2 * time.Second

type Options struct {
	UpdateMode   domain.UpdateMode
	DeletePolicy domain.DeletePolicy
}

// ShopService owns the create/read/update/delete rules for users, products,
// orders and order items. It is safe for concurrent use.
type ShopService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	cache     cache.ClientInterface
	flight    singleflight.Group
	mode      domain.UpdateMode
	policy    domain.DeletePolicy
	now       func() time.Time
}

func NewShopService(store repository.Store, pub rabbit.PublisherInterface, opts Options) *ShopService {
	if pub == nil {
		pub = rabbit.NopPublisher{}
	}
	return &ShopService{
		store:     store,
		publisher: pub,
		mode:      opts.UpdateMode,
		policy:    opts.DeletePolicy,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetCache enables read-through caching of single-entity lookups.
func (s *ShopService) SetCache(c cache.ClientInterface) {
	s.cache = c
}

func notFound(kind domain.Kind, id uint64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

func missingReference(kind domain.Kind, id uint64) error {
	return fmt.Errorf("%s %d does not exist: %w", kind, id, domain.ErrReference)
}

// lookup reads one entity through the cache. Concurrent misses on the same
// key share a single backend read that no single caller can cancel.
func lookup[T any](ctx context.Context, s *ShopService, kind domain.Kind, id uint64, find func(context.Context, uint64) (*T, error)) (*T, error) {
	key := cache.Key(kind, id)
	if s.cache != nil {
		var hit T
		ok, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			zap.L().Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return &hit, nil
		}
	}

	ch := s.flight.DoChan(key, func() (any, error) {
		v, err := fill(context.WithoutCancel(ctx), s, key, id, find)
		if v == nil {
			return nil, err
		}
		return v, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, domain.Persistence(errors.Wrapf(ctx.Err(), "get %s %d", kind, id))
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Val == nil {
		return nil, notFound(kind, id)
	}
	out := *res.Val.(*T)
	return &out, nil
}

// fill reads key from the store and caches the row. The version is taken
// before the read, so an invalidation that commits in between wins.
func fill[T any](ctx context.Context, s *ShopService, key string, id uint64, find func(context.Context, uint64) (*T, error)) (*T, error) {
	version, verr := int64(0), error(nil)
	if s.cache != nil {
		if version, verr = s.cache.Version(ctx, key); verr != nil {
			zap.L().Warn("cache version failed", zap.String("key", key), zap.Error(verr))
		}
	}

	v, err := find(ctx, id)
	if err != nil || v == nil {
		return nil, err
	}
	if s.cache != nil && verr == nil {
		if err := s.cache.SetIfVersion(ctx, key, version, v); err != nil {
			zap.L().Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

// afterCommit drops stale cache entries and announces the change. Neither
// step can undo the committed write, so failures are only logged.
func (s *ShopService) afterCommit(ctx context.Context, action domain.EntityAction, kind domain.Kind, id uint64, entity any, also ...domain.Ref) {
	ctx = context.WithoutCancel(ctx)

	if s.cache != nil && action != domain.ActionCreated {
		keys := []string{cache.Key(kind, id)}
		for _, r := range also {
			keys = append(keys, cache.Key(r.Kind, r.ID))
		}
		if err := s.cache.Delete(ctx, keys...); err != nil {
			zap.L().Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
		}
	}

	evt := domain.EntityEvent{
		Kind:       kind,
		Action:     action,
		ID:         id,
		Entity:     entity,
		OccurredAt: s.now(),
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pctx, evt.RoutingKey(), evt); err != nil {
		zap.L().Error("failed to publish event", zap.String("routing_key", evt.RoutingKey()), zap.Error(err))
	}
}

// clearDependents applies the delete policy to rows referencing (kind, id).
func (s *ShopService) clearDependents(tx repository.Tx, kind domain.Kind, id uint64) ([]domain.Ref, error) {
	if s.policy == domain.DeleteCascade {
		return tx.DeleteDependents(kind, id)
	}
	n, err := tx.Dependents(kind, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, fmt.Errorf("%s %d is referenced by %d rows: %w", kind, id, n, domain.ErrHasDependents)
	}
	return nil, nil
}
