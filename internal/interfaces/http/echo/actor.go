package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

const actorContextKey = "import.actor"

// RequireActor reads the identity the gateway injects after authenticating the
// caller. Requests without a user id never reach the handlers.
func RequireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.Request().Header.Get("X-User-ID")
		if userID == "" {
			return c.JSON(http.StatusUnauthorized, apiResponse{Error: &errorBody{
				Code:    "unauthenticated",
				Message: "missing X-User-ID header",
			}})
		}
		role := c.Request().Header.Get("X-User-Role")
		c.Set(actorContextKey, domain.Actor{
			UserID: userID,
			Admin:  role == "admin",
			Sales:  role == "sales",
		})
		return next(c)
	}
}

func actorFrom(c echo.Context) domain.Actor {
	actor, _ := c.Get(actorContextKey).(domain.Actor)
	return actor
}
