package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bountyboard/points-ledger/internal/api/metrics"
	"github.com/bountyboard/points-ledger/internal/infrastructure/telegram"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Deduper reports whether an update ID is seen for the first time.
type Deduper interface {
	FirstSeen(ctx context.Context, updateID int64) (bool, error)
}

// WebhookHandler accepts Bot API pushes and queues them for the bot.
type WebhookHandler struct {
	queue  telegram.Enqueuer
	dedup  Deduper
	secret string
	log    zerolog.Logger
}

// NewWebhookHandler builds the handler. dedup may be nil; an empty secret
// disables the header check.
func NewWebhookHandler(queue telegram.Enqueuer, dedup Deduper, secret string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{queue: queue, dedup: dedup, secret: secret, log: log}
}

// Receive handles one update.
//
// @Summary  Telegram webhook
// @Tags     telegram
// @Accept   json
// @Success  200
// @Failure  400  {object}  map[string]string
// @Failure  401  {object}  map[string]string
// @Router   /telegram/webhook [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	if h.secret != "" {
		got := c.Request().Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			metrics.UpdatesTotal.WithLabelValues("webhook", "rejected").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid secret token")
		}
	}

	var u telegram.Update
	if err := c.Bind(&u); err != nil {
		metrics.UpdatesTotal.WithLabelValues("webhook", "rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid update")
	}

	if h.dedup != nil {
		first, err := h.dedup.FirstSeen(c.Request().Context(), u.UpdateID)
		if err != nil {
			// Treated as first seen.
			h.log.Warn().Err(err).Int64("update_id", u.UpdateID).Msg("dedup unavailable")
		} else if !first {
			metrics.UpdatesTotal.WithLabelValues("webhook", "duplicate").Inc()
			return c.NoContent(http.StatusOK)
		}
	}

	metrics.UpdatesTotal.WithLabelValues("webhook", "accepted").Inc()
	h.queue.Enqueue(u)
	return c.NoContent(http.StatusOK)
}
