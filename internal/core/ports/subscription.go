package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/quillpost/newsletter/internal/core/domain/subscription"
)

// ErrTokenNotFound is returned when a confirmation token does not resolve to
// any subscriber. Handlers map it to 401.
var ErrTokenNotFound = errors.New("subscription token not found")

// SubscriptionRepository defines the persistence contract for subscribers and
// their confirmation tokens.
type SubscriptionRepository interface {
	// CreateSubscription inserts the subscriber and its token atomically:
	// a reader can never observe one row without the other.
	CreateSubscription(ctx context.Context, sub *subscription.Subscriber, token string) error
	// GetSubscriberIDByToken resolves a token to a subscriber id, or
	// ErrTokenNotFound.
	GetSubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error)
	// ConfirmSubscriber marks the subscriber confirmed. Confirming an
	// already-confirmed subscriber is a no-op.
	ConfirmSubscriber(ctx context.Context, id uuid.UUID) error
	// GetByEmail retrieves a subscriber by email address.
	GetByEmail(ctx context.Context, email string) (*subscription.Subscriber, error)
}

// SubscriptionService sequences the sign-up and confirmation workflows.
type SubscriptionService interface {
	Subscribe(ctx context.Context, req *subscription.SignupRequest) (*subscription.Subscriber, error)
	Confirm(ctx context.Context, token string) error
}
