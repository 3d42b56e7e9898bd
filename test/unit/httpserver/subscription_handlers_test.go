package httpserver_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpost/newsletter/internal/core/domain/subscription"
	"github.com/quillpost/newsletter/internal/core/ports"
	newsletterHTTP "github.com/quillpost/newsletter/internal/infrastructure/httpserver"
	"github.com/quillpost/newsletter/test/mocks"
)

func newTestServer(t *testing.T, svc ports.SubscriptionService, checkers []ports.HealthChecker) *httptest.Server {
	t.Helper()

	srv := newsletterHTTP.NewServer(&newsletterHTTP.ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}, logrus.New(), newsletterHTTP.ServerDeps{
		SubscriptionService: svc,
		HealthCheckers:      checkers,
	})

	ts := httptest.NewServer(srv.Echo())
	t.Cleanup(ts.Close)
	return ts
}

func postForm(t *testing.T, ts *httptest.Server, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/subscriptions", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthCheck_ReturnsEmpty200(t *testing.T) {
	ts := newTestServer(t, &mocks.SubscriptionServiceMock{}, nil)

	resp, err := http.Get(ts.URL + "/health_check")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestHealthCheck_FailingDependencyStill200(t *testing.T) {
	// The route reports process liveness only; a broken dependency is logged
	// but never turns the response into an error.
	ts := newTestServer(t, &mocks.SubscriptionServiceMock{}, []ports.HealthChecker{
		&mocks.FailingHealthChecker{Dependency: "database"},
	})

	resp, err := http.Get(ts.URL + "/health_check")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestSubscribe_ValidFormData(t *testing.T) {
	var got *subscription.SignupRequest
	svc := &mocks.SubscriptionServiceMock{
		SubscribeFn: func(ctx context.Context, req *subscription.SignupRequest) (*subscription.Subscriber, error) {
			got = req
			return subscription.NewSubscriber(req.Name, req.Email)
		},
	}
	ts := newTestServer(t, svc, nil)

	resp := postForm(t, ts, url.Values{"name": {"le guin"}, "email": {"ursula_le_guin@gmail.com"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, "le guin", got.Name)
	assert.Equal(t, "ursula_le_guin@gmail.com", got.Email)
}

func TestSubscribe_MissingFields(t *testing.T) {
	// The default mock runs real domain validation, so missing fields are
	// rejected the same way the production service rejects them.
	ts := newTestServer(t, &mocks.SubscriptionServiceMock{}, nil)

	cases := map[string]url.Values{
		"missing email":   {"name": {"le guin"}},
		"missing name":    {"email": {"ursula_le_guin@gmail.com"}},
		"missing both":    {},
		"malformed email": {"name": {"le guin"}, "email": {"definitely-not-an-email"}},
		"forbidden name":  {"name": {"<le guin>"}, "email": {"ursula_le_guin@gmail.com"}},
	}

	for label, form := range cases {
		t.Run(label, func(t *testing.T) {
			resp := postForm(t, ts, form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSubscribe_StoreFailure(t *testing.T) {
	svc := &mocks.SubscriptionServiceMock{
		SubscribeFn: func(ctx context.Context, req *subscription.SignupRequest) (*subscription.Subscriber, error) {
			return nil, errors.New("failed to store subscription: connection refused")
		},
	}
	ts := newTestServer(t, svc, nil)

	resp := postForm(t, ts, url.Values{"name": {"le guin"}, "email": {"ursula_le_guin@gmail.com"}})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestConfirm_KnownToken(t *testing.T) {
	var confirmedToken string
	svc := &mocks.SubscriptionServiceMock{
		ConfirmFn: func(ctx context.Context, token string) error {
			confirmedToken = token
			return nil
		},
	}
	ts := newTestServer(t, svc, nil)

	resp, err := http.Get(ts.URL + "/subscriptions/confirm?subscription_token=oDYxYLYt3rJim9qLtC0k17WJJ")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "oDYxYLYt3rJim9qLtC0k17WJJ", confirmedToken)
}

func TestConfirm_UnknownToken(t *testing.T) {
	svc := &mocks.SubscriptionServiceMock{
		ConfirmFn: func(ctx context.Context, token string) error {
			return ports.ErrTokenNotFound
		},
	}
	ts := newTestServer(t, svc, nil)

	resp, err := http.Get(ts.URL + "/subscriptions/confirm?subscription_token=doesnotexist")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConfirm_MissingTokenParameter(t *testing.T) {
	svc := &mocks.SubscriptionServiceMock{
		ConfirmFn: func(ctx context.Context, token string) error {
			assert.Empty(t, token)
			return ports.ErrTokenNotFound
		},
	}
	ts := newTestServer(t, svc, nil)

	resp, err := http.Get(ts.URL + "/subscriptions/confirm")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConfirm_StoreFailure(t *testing.T) {
	svc := &mocks.SubscriptionServiceMock{
		ConfirmFn: func(ctx context.Context, token string) error {
			return errors.New("failed to look up subscription token: connection refused")
		},
	}
	ts := newTestServer(t, svc, nil)

	resp, err := http.Get(ts.URL + "/subscriptions/confirm?subscription_token=sometoken")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
