package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// ctxActor extracts the actor injected by the Auth middleware. A missing
// actor means the route was registered without the middleware.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor, ok := c.Get("actor").(domain.Actor)
	if !ok || actor.ID == 0 {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}
