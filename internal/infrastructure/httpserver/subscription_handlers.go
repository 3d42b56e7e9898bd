package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpost/newsletter/internal/core/domain/subscription"
	"github.com/quillpost/newsletter/internal/core/ports"
)

// subscribe handles the sign-up form. Validation failures are the client's
// fault (400); anything that goes wrong after validation is a 500.
func (s *Server) subscribe(c echo.Context) error {
	var req subscription.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}

	if _, err := s.subscriptionSvc.Subscribe(c.Request().Context(), &req); err != nil {
		var ve *subscription.ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create subscription")
	}

	subscriptionsCreatedTotal.Inc()
	return c.NoContent(http.StatusOK)
}

// confirmSubscription activates a pending subscription. An unknown token is
// 401: the token is the sole credential for this operation.
func (s *Server) confirmSubscription(c echo.Context) error {
	token := c.QueryParam("subscription_token")

	if err := s.subscriptionSvc.Confirm(c.Request().Context(), token); err != nil {
		if errors.Is(err, ports.ErrTokenNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown subscription token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to confirm subscription")
	}

	subscriptionsConfirmedTotal.Inc()
	return c.NoContent(http.StatusOK)
}
