package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/quillpost/newsletter/internal/core/ports"
)

// ClientConfig holds the email client configuration.
type ClientConfig struct {
	APIKey string
	// APIHost is the SendGrid endpoint; tests point it at a local server.
	APIHost   string
	FromEmail string
	FromName  string
	// BaseURL is the externally visible origin embedded in confirmation links.
	BaseURL string
	// Timeout bounds every send so a hung remote cannot stall the caller.
	Timeout time.Duration
}

// Client delivers confirmation emails through the SendGrid v3 mail API.
type Client struct {
	config *ClientConfig
	rest   *rest.Client
	logger *logrus.Logger
}

func NewClient(config *ClientConfig, logger *logrus.Logger) ports.EmailClient {
	return &Client{
		config: config,
		rest:   &rest.Client{HTTPClient: &http.Client{Timeout: config.Timeout}},
		logger: logger,
	}
}

// SendConfirmationEmail sends the confirmation link for token to the
// recipient. Non-2xx responses and timeouts are reported as errors.
func (c *Client) SendConfirmationEmail(ctx context.Context, recipient, token string) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", c.config.BaseURL, token)

	from := mail.NewEmail(c.config.FromName, c.config.FromEmail)
	to := mail.NewEmail("", recipient)
	subject := "Welcome to our newsletter!"
	plain := fmt.Sprintf("Welcome to our newsletter!\nVisit %s to confirm your subscription.", link)
	html := fmt.Sprintf(`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`, link)

	message := mail.NewSingleEmail(from, subject, to, plain, html)

	request := sendgrid.GetRequest(c.config.APIKey, "/v3/mail/send", c.config.APIHost)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(message)

	response, err := c.rest.SendWithContext(ctx, request)
	if err != nil {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"to": recipient}).WithError(err).Error("failed to send confirmation email")
		}
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{
				"to":          recipient,
				"status_code": response.StatusCode,
			}).Error("email API rejected confirmation email")
		}
		return fmt.Errorf("email API returned status %d", response.StatusCode)
	}

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"to":          recipient,
			"status_code": response.StatusCode,
		}).Info("confirmation email sent")
	}

	return nil
}
