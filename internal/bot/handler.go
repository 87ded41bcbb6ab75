package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bountyboard/points-ledger/internal/api/metrics"
	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
	"github.com/bountyboard/points-ledger/internal/infrastructure/telegram"
)

// Sender delivers replies. *telegram.Client satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, msg telegram.OutgoingMessage) error
}

const (
	resultOK       = "ok"
	resultDenied   = "denied"
	resultInvalid  = "invalid"
	resultNotFound = "not_found"
	resultError    = "error"
	resultIgnored  = "ignored"
)

type Handler struct {
	ledger      ports.LedgerService
	gate        ports.Gate
	sender      Sender
	botUsername string
	log         zerolog.Logger
}

// NewHandler wires the command layer. botUsername filters commands addressed
// to other bots in the same group; empty accepts everything.
func NewHandler(ledger ports.LedgerService, gate ports.Gate, sender Sender, botUsername string, log zerolog.Logger) *Handler {
	return &Handler{ledger: ledger, gate: gate, sender: sender, botUsername: botUsername, log: log}
}

type reply struct {
	text      string
	parseMode string
}

// HandleUpdate runs the command carried by u, if any, and sends the reply.
// Only transport failures are returned; ledger errors become replies.
func (h *Handler) HandleUpdate(ctx context.Context, u telegram.Update) error {
	msg := u.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return nil
	}
	cmd, ok := ParseCommand(msg.Text)
	if !ok || !cmd.AddressedTo(h.botUsername) {
		return nil
	}

	actor := domain.Actor{
		ID:           domain.Identity(msg.From.ID),
		FallbackName: fallbackName(msg.From.ID, msg.From.Username, msg.From.FirstName),
		Role:         domain.RoleMember,
	}

	r, result := h.dispatch(ctx, cmd, actor, msg.Chat)
	metrics.CommandsTotal.WithLabelValues(cmd.Name, result).Inc()
	if r == nil {
		return nil
	}

	err := h.sender.SendMessage(ctx, telegram.OutgoingMessage{
		ChatID:           msg.Chat.ID,
		Text:             r.text,
		ParseMode:        r.parseMode,
		ReplyToMessageID: msg.MessageID,
	})
	if err != nil {
		return fmt.Errorf("reply to /%s: %w", cmd.Name, err)
	}
	return nil
}

func (h *Handler) dispatch(ctx context.Context, cmd Command, actor domain.Actor, chat telegram.Chat) (*reply, string) {
	switch cmd.Name {
	case "start":
		if !chat.IsGroup() {
			return &reply{text: msgGroupsOnly}, resultDenied
		}
		return &reply{text: msgActive}, resultOK
	case "victory", "plus":
		return h.adjust(ctx, cmd, actor, domain.Credit)
	case "minus":
		return h.adjust(ctx, cmd, actor, domain.Debit)
	case "besthunters":
		return h.leaderboard(ctx)
	case "mypoints":
		return h.balance(ctx, actor)
	case "help":
		return &reply{text: helpText}, resultOK
	default:
		return nil, resultIgnored
	}
}

func (h *Handler) adjust(ctx context.Context, cmd Command, actor domain.Actor, dir domain.Direction) (*reply, string) {
	// Unprivileged callers learn nothing about usage; the service rejects
	// them before looking at the arguments.
	if len(cmd.Args) < 2 && h.gate.IsPrivileged(actor.ID) {
		return &reply{text: usage(cmd.Name)}, resultInvalid
	}

	var target, amount string
	if len(cmd.Args) >= 2 {
		target, amount = cmd.Args[0], cmd.Args[1]
	}

	res, err := h.ledger.AdjustBalance(ctx, ports.AdjustInput{
		Actor:     actor.ID,
		Target:    target,
		Amount:    amount,
		Direction: dir,
	})
	if err != nil {
		return h.errorReply(err, cmd.Name)
	}
	metrics.AdjustmentsTotal.WithLabelValues(dir.String()).Inc()
	return &reply{text: renderAdjusted(dir, res)}, resultOK
}

func (h *Handler) leaderboard(ctx context.Context) (*reply, string) {
	entries, err := h.ledger.Leaderboard(ctx, 0)
	if err != nil {
		return h.errorReply(err, "besthunters")
	}
	if len(entries) == 0 {
		return &reply{text: msgNoData}, resultOK
	}
	return &reply{text: renderLeaderboard(entries), parseMode: telegram.ParseModeMarkdown}, resultOK
}

func (h *Handler) balance(ctx context.Context, actor domain.Actor) (*reply, string) {
	res, err := h.ledger.GetBalance(ctx, actor)
	if err != nil {
		return h.errorReply(err, "mypoints")
	}
	return &reply{text: renderBalance(res)}, resultOK
}

func (h *Handler) errorReply(err error, command string) (*reply, string) {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		return &reply{text: msgNotAuthorized}, resultDenied
	case errors.Is(err, domain.ErrInvalidAmount):
		return &reply{text: msgInvalidAmount}, resultInvalid
	case errors.Is(err, domain.ErrIdentityNotFound):
		return &reply{text: msgNotFound}, resultNotFound
	case errors.Is(err, domain.ErrStorageUnavailable):
		h.log.Error().Err(err).Str("command", command).Msg("ledger storage unavailable")
		return &reply{text: msgUnavailable}, resultError
	default:
		h.log.Error().Err(err).Str("command", command).Msg("command failed")
		return &reply{text: msgInternal}, resultError
	}
}
