package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quillpost/newsletter/internal/core/domain/subscription"
	"github.com/quillpost/newsletter/internal/core/ports"
)

// SubscriptionRepositoryMock is a lightweight mock for SubscriptionRepository
type SubscriptionRepositoryMock struct {
	CreateSubscriptionFn     func(ctx context.Context, sub *subscription.Subscriber, token string) error
	GetSubscriberIDByTokenFn func(ctx context.Context, token string) (uuid.UUID, error)
	ConfirmSubscriberFn      func(ctx context.Context, id uuid.UUID) error
	GetByEmailFn             func(ctx context.Context, email string) (*subscription.Subscriber, error)
}

func (m *SubscriptionRepositoryMock) CreateSubscription(ctx context.Context, sub *subscription.Subscriber, token string) error {
	if m.CreateSubscriptionFn != nil {
		return m.CreateSubscriptionFn(ctx, sub, token)
	}
	return nil
}

func (m *SubscriptionRepositoryMock) GetSubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error) {
	if m.GetSubscriberIDByTokenFn != nil {
		return m.GetSubscriberIDByTokenFn(ctx, token)
	}
	return uuid.Nil, ports.ErrTokenNotFound
}

func (m *SubscriptionRepositoryMock) ConfirmSubscriber(ctx context.Context, id uuid.UUID) error {
	if m.ConfirmSubscriberFn != nil {
		return m.ConfirmSubscriberFn(ctx, id)
	}
	return nil
}

func (m *SubscriptionRepositoryMock) GetByEmail(ctx context.Context, email string) (*subscription.Subscriber, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("subscriber with email %s not found", email)
}

// EmailClientMock is a lightweight mock for EmailClient
type EmailClientMock struct {
	SendConfirmationEmailFn func(ctx context.Context, recipient, token string) error
}

func (m *EmailClientMock) SendConfirmationEmail(ctx context.Context, recipient, token string) error {
	if m.SendConfirmationEmailFn != nil {
		return m.SendConfirmationEmailFn(ctx, recipient, token)
	}
	return nil
}

// SubscriptionServiceMock is a lightweight mock for SubscriptionService
type SubscriptionServiceMock struct {
	SubscribeFn func(ctx context.Context, req *subscription.SignupRequest) (*subscription.Subscriber, error)
	ConfirmFn   func(ctx context.Context, token string) error
}

func (m *SubscriptionServiceMock) Subscribe(ctx context.Context, req *subscription.SignupRequest) (*subscription.Subscriber, error) {
	if m.SubscribeFn != nil {
		return m.SubscribeFn(ctx, req)
	}
	sub, err := subscription.NewSubscriber(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (m *SubscriptionServiceMock) Confirm(ctx context.Context, token string) error {
	if m.ConfirmFn != nil {
		return m.ConfirmFn(ctx, token)
	}
	return nil
}

// CacheMock is an in-memory Cache for decorator tests.
type CacheMock struct {
	Entries map[string][]byte

	GetFn    func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFn func(ctx context.Context, key string) error
}

func NewCacheMock() *CacheMock {
	return &CacheMock{Entries: make(map[string][]byte)}
}

func (m *CacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	v, ok := m.Entries[key]
	return v, ok, nil
}

func (m *CacheMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	m.Entries[key] = value
	return nil
}

func (m *CacheMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key)
	}
	delete(m.Entries, key)
	return nil
}

// FailingHealthChecker always reports unhealthy.
type FailingHealthChecker struct{ Dependency string }

func (f *FailingHealthChecker) Name() string                    { return f.Dependency }
func (f *FailingHealthChecker) Check(ctx context.Context) error { return fmt.Errorf("unreachable") }
