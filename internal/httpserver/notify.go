package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/notify"
	"storefront/pkg/logging"
)

type NotifyHTTP struct {
	Bus *notify.Bus
}

func (h *NotifyHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notify.list")

	userID, err := ownerID(c)
	if err != nil {
		l.Error("list_notifications_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(http.StatusOK, h.Bus.List(userID))
}

func (h *NotifyHTTP) Dismiss(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notify.dismiss")

	userID, err := ownerID(c)
	if err != nil {
		l.Error("dismiss_notification_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	h.Bus.Dismiss(userID, c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
