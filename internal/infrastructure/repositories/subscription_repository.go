package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quillpost/newsletter/internal/core/domain/subscription"
	"github.com/quillpost/newsletter/internal/core/ports"
	"github.com/quillpost/newsletter/internal/infrastructure/db"
)

// SubscriptionRepository implements the subscription persistence contract on
// top of Postgres.
type SubscriptionRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewSubscriptionRepository(database *db.Database, logger *logrus.Logger) ports.SubscriptionRepository {
	return &SubscriptionRepository{
		db:     database,
		logger: logger,
	}
}

// CreateSubscription inserts the subscriber row and its confirmation token row
// in a single transaction. Either both rows land or neither does.
func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, sub *subscription.Subscriber, token string) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op once the transaction has been committed.
	defer func() { _ = tx.Rollback() }()

	subscriberQuery := `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.ExecContext(ctx, subscriberQuery,
		sub.ID, sub.Email, sub.Name, sub.SubscribedAt, sub.Status); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": sub.ID, "email": sub.Email}).WithError(err).Error("db: failed to insert subscriber")
		}
		return fmt.Errorf("failed to insert subscriber: %w", err)
	}

	tokenQuery := `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)`

	if _, err := tx.ExecContext(ctx, tokenQuery, token, sub.ID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": sub.ID}).WithError(err).Error("db: failed to insert subscription token")
		}
		return fmt.Errorf("failed to insert subscription token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": sub.ID}).WithError(err).Error("db: failed to commit subscription")
		}
		return fmt.Errorf("failed to commit subscription: %w", err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"subscriber_id": sub.ID, "email": sub.Email}).Info("db: subscription created")
	}

	return nil
}

// GetSubscriberIDByToken resolves a confirmation token to its subscriber id.
func (r *SubscriptionRepository) GetSubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error) {
	var id uuid.UUID
	query := `
		SELECT subscriber_id
		FROM subscription_tokens
		WHERE subscription_token = $1`

	err := r.db.DB.GetContext(ctx, &id, query, token)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.Debug("db: subscription token not found")
			}
			return uuid.Nil, ports.ErrTokenNotFound
		}
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to look up subscription token")
		}
		return uuid.Nil, fmt.Errorf("failed to look up subscription token: %w", err)
	}

	return id, nil
}

// ConfirmSubscriber sets the subscriber's status to confirmed. The update is
// unconditional, so re-confirming an already-confirmed subscriber succeeds.
func (r *SubscriptionRepository) ConfirmSubscriber(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE subscriptions SET status = $2 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, subscription.StatusConfirmed)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": id}).WithError(err).Error("db: failed to confirm subscriber")
		}
		return fmt.Errorf("failed to confirm subscriber: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// The token row references the subscriber by foreign key, so this
		// only happens if the subscriber was removed out of band.
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": id}).Error("db: confirm affected 0 rows - subscriber missing")
		}
		return fmt.Errorf("subscriber with ID %s not found", id)
	}

	return nil
}

// GetByEmail retrieves a subscriber by email address.
func (r *SubscriptionRepository) GetByEmail(ctx context.Context, email string) (*subscription.Subscriber, error) {
	var sub subscription.Subscriber
	query := `
		SELECT id, email, name, subscribed_at, status
		FROM subscriptions
		WHERE email = $1`

	err := r.db.DB.GetContext(ctx, &sub, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": email}).Debug("db: subscriber not found by email")
			}
			return nil, fmt.Errorf("subscriber with email %s not found", email)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to get subscriber by email")
		}
		return nil, fmt.Errorf("failed to get subscriber by email: %w", err)
	}

	return &sub, nil
}
