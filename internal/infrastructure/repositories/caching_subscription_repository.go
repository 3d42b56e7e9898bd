package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/quillpost/newsletter/internal/core/domain/subscription"
	"github.com/quillpost/newsletter/internal/core/ports"
)

var tokenLookups singleflight.Group

// CachingSubscriptionRepository decorates a SubscriptionRepository with a
// cache-aside layer over token lookups. Confirmation links get clicked more
// than once (mail clients prefetch them, users re-click), and every click
// resolves the same immutable token -> subscriber mapping, so it is a safe
// thing to cache. Cache failures fall back to the database silently.
type CachingSubscriptionRepository struct {
	inner ports.SubscriptionRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingSubscriptionRepository(inner ports.SubscriptionRepository, cache ports.Cache, ttl time.Duration) ports.SubscriptionRepository {
	return &CachingSubscriptionRepository{inner: inner, cache: cache, ttl: ttl}
}

func tokenKey(token string) string {
	return "subtoken:" + token
}

// CreateSubscription writes through and warms the token cache so the first
// confirmation click can be served without a database read.
func (c *CachingSubscriptionRepository) CreateSubscription(ctx context.Context, sub *subscription.Subscriber, token string) error {
	if err := c.inner.CreateSubscription(ctx, sub, token); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(ctx, tokenKey(token), []byte(sub.ID.String()), c.ttl)
	}
	return nil
}

// GetSubscriberIDByToken serves from the cache when possible, coalescing
// concurrent fills for the same token. Misses in the database are never
// cached: an unknown token must keep reading as unknown.
func (c *CachingSubscriptionRepository) GetSubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error) {
	if c.cache != nil {
		if raw, ok, err := c.cache.Get(ctx, tokenKey(token)); err == nil && ok {
			if id, err := uuid.Parse(string(raw)); err == nil {
				return id, nil
			}
			// Unparseable entry: drop it and fall through to the database.
			_ = c.cache.Delete(ctx, tokenKey(token))
		}
	}

	// The fill runs on a context detached from cancellation: the result is
	// shared across coalesced callers, and the first caller hanging up must
	// not fail everyone queued behind it.
	fillCtx := context.WithoutCancel(ctx)
	res, err, _ := tokenLookups.Do(token, func() (any, error) {
		id, err := c.inner.GetSubscriberIDByToken(fillCtx, token)
		if err != nil {
			return uuid.Nil, err
		}
		if c.cache != nil {
			_ = c.cache.Set(fillCtx, tokenKey(token), []byte(id.String()), c.ttl)
		}
		return id, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	id, ok := res.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("unexpected type from singleflight result")
	}
	return id, nil
}

func (c *CachingSubscriptionRepository) ConfirmSubscriber(ctx context.Context, id uuid.UUID) error {
	return c.inner.ConfirmSubscriber(ctx, id)
}

func (c *CachingSubscriptionRepository) GetByEmail(ctx context.Context, email string) (*subscription.Subscriber, error) {
	return c.inner.GetByEmail(ctx, email)
}
