package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/quillpost/newsletter/internal/core/domain/subscription"
	"github.com/quillpost/newsletter/internal/core/ports"
)

type SubscriptionService struct {
	repo   ports.SubscriptionRepository
	email  ports.EmailClient
	tokens io.Reader
	logger *logrus.Logger
}

func NewSubscriptionService(repo ports.SubscriptionRepository, email ports.EmailClient, logger *logrus.Logger) ports.SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		email:  email,
		tokens: rand.Reader,
		logger: logger,
	}
}

// Subscribe runs the sign-up workflow: validate the form input, persist the
// subscriber together with a fresh confirmation token, then deliver the
// confirmation email. The email is only attempted after the transaction has
// committed; if delivery fails the committed subscriber remains
// pending_confirmation and the failure is surfaced to the caller. There is no
// compensation or retry.
func (s *SubscriptionService) Subscribe(ctx context.Context, req *subscription.SignupRequest) (*subscription.Subscriber, error) {
	sub, err := subscription.NewSubscriber(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	token, err := subscription.NewToken(s.tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	if err := s.repo.CreateSubscription(ctx, sub, token); err != nil {
		return nil, fmt.Errorf("failed to store subscription: %w", err)
	}

	if err := s.email.SendConfirmationEmail(ctx, sub.Email, token); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"subscriber_id": sub.ID,
				"email":         sub.Email,
			}).WithError(err).Error("failed to send confirmation email; subscriber left pending")
		}
		return nil, fmt.Errorf("failed to send confirmation email: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"subscriber_id": sub.ID,
			"email":         sub.Email,
		}).Info("new subscriber pending confirmation")
	}

	return sub, nil
}

// Confirm resolves the token and flips the subscriber to confirmed.
// Confirming the same token twice succeeds both times.
func (s *SubscriptionService) Confirm(ctx context.Context, token string) error {
	id, err := s.repo.GetSubscriberIDByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrTokenNotFound) {
			return err
		}
		return fmt.Errorf("failed to look up subscription token: %w", err)
	}

	if err := s.repo.ConfirmSubscriber(ctx, id); err != nil {
		return fmt.Errorf("failed to confirm subscriber: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"subscriber_id": id}).Info("subscriber confirmed")
	}

	return nil
}
