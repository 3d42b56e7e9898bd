package email_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpost/newsletter/internal/core/ports"
	"github.com/quillpost/newsletter/internal/infrastructure/email"
)

type sendRequest struct {
	From struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"from"`
	Subject          string `json:"subject"`
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func newClient(apiHost string, timeout time.Duration) ports.EmailClient {
	return email.NewClient(&email.ClientConfig{
		APIKey:    "sg-test-key",
		APIHost:   apiHost,
		FromEmail: "newsletter@example.com",
		FromName:  "Quillpost Newsletter",
		BaseURL:   "https://newsletter.example.com",
		Timeout:   timeout,
	}, logrus.New())
}

func TestSendConfirmationEmail_SendsExpectedRequest(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   sendRequest
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	client := newClient(ts.URL, time.Second)
	err := client.SendConfirmationEmail(context.Background(), "ursula_le_guin@gmail.com", "oDYxYLYt3rJim9qLtC0k17WJJ")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "Bearer sg-test-key", gotAuth)

	assert.Equal(t, "newsletter@example.com", gotBody.From.Email)
	assert.NotEmpty(t, gotBody.Subject)
	require.Len(t, gotBody.Personalizations, 1)
	require.Len(t, gotBody.Personalizations[0].To, 1)
	assert.Equal(t, "ursula_le_guin@gmail.com", gotBody.Personalizations[0].To[0].Email)

	// Both bodies carry the confirmation link with the token.
	require.Len(t, gotBody.Content, 2)
	link := "https://newsletter.example.com/subscriptions/confirm?subscription_token=oDYxYLYt3rJim9qLtC0k17WJJ"
	for _, content := range gotBody.Content {
		assert.Contains(t, content.Value, link)
	}
}

func TestSendConfirmationEmail_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := newClient(ts.URL, time.Second)
	err := client.SendConfirmationEmail(context.Background(), "ursula_le_guin@gmail.com", "sometoken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSendConfirmationEmail_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	client := newClient(ts.URL, 50*time.Millisecond)
	err := client.SendConfirmationEmail(context.Background(), "ursula_le_guin@gmail.com", "sometoken")
	require.Error(t, err)
}

func TestSendConfirmationEmail_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newClient(ts.URL, time.Second)
	err := client.SendConfirmationEmail(ctx, "ursula_le_guin@gmail.com", "sometoken")
	require.Error(t, err)
}
