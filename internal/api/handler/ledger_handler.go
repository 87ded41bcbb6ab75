package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
)

const maxLeaderboardLimit = 100

// LedgerHandler exposes balances and adjustments over HTTP.
type LedgerHandler struct {
	service ports.LedgerService
}

func NewLedgerHandler(service ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Leaderboard returns the top profiles.
//
// @Summary      Leaderboard
// @Tags         ledger
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries (default from config, max 100)"
// @Success      200    {object}  leaderboardResponse
// @Failure      400    {object}  map[string]string
// @Failure      503    {object}  map[string]string
// @Router       /v1/leaderboard [get]
func (h *LedgerHandler) Leaderboard(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = min(n, maxLeaderboardLimit)
	}

	entries, err := h.service.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leaderboardResponse{Entries: entries})
}

// Me returns the caller's balance, creating the profile on first call.
//
// @Summary      Own balance
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  balanceResponse
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /v1/me [get]
func (h *LedgerHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	res, err := h.service.GetBalance(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{
		ID:       res.Identity,
		Username: res.DisplayName,
		Points:   res.Balance,
		Created:  res.Created,
	})
}

// Adjust credits or debits a profile.
//
// @Summary      Adjust a balance
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      adjustRequest  true  "Target name or id and signed delta"
// @Success      200   {object}  adjustResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /v1/adjustments [post]
func (h *LedgerHandler) Adjust(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// The sign travels in Amount so zero is rejected by the service, after
	// the authorization check.
	res, err := h.service.AdjustBalance(c.Request().Context(), ports.AdjustInput{
		Actor:     actor.ID,
		Target:    req.Target,
		Amount:    strconv.FormatInt(req.Delta, 10),
		Direction: domain.Credit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adjustResponse{
		ID:       res.Identity,
		Username: res.DisplayName,
		Delta:    res.Delta,
		Applied:  res.Applied,
		Points:   res.Balance,
	})
}

// Ledger dumps the whole ledger in its persisted layout.
//
// @Summary      Export ledger
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]domain.Profile
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /v1/ledger [get]
func (h *LedgerHandler) Ledger(c echo.Context) error {
	l, err := h.service.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	data, err := domain.EncodeLedger(l)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, data)
}
