package bot

import (
	"fmt"
	"strings"

	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
)

const (
	msgGroupsOnly    = "⚠️ This bot works only in groups."
	msgActive        = "👋 Points Bot is active! Use /victory, /besthunters, /mypoints, etc."
	msgNotAuthorized = "🚫 You’re not authorized to use this command."
	msgInvalidAmount = "⚠️ Points must be a non-zero whole number."
	msgNotFound      = "❌ User not found in database."
	msgUnavailable   = "⚠️ The points ledger is unavailable right now. Please try again later."
	msgInternal      = "⚠️ Something went wrong. Please try again."
	msgNoData        = "No data available yet."
)

const helpText = `Available commands:
/mypoints - show your points
/besthunters - show the top bounty hunters
/victory {username/user_id} {points} - add points (admins)
/plus {username/user_id} {points} - add points (admins)
/minus {username/user_id} {points} - deduct points (admins)
/help - show this message`

func usage(command string) string {
	return fmt.Sprintf("Usage: /%s {username/user_id} {points}", command)
}

func renderAdjusted(dir domain.Direction, res *ports.AdjustResult) string {
	var text string
	if dir == domain.Debit {
		text = fmt.Sprintf("✅ Deducted %d points from %s!", -res.Delta, res.DisplayName)
	} else {
		text = fmt.Sprintf("✅ Added %d points to %s!", res.Delta, res.DisplayName)
	}
	if res.Applied != res.Delta {
		text += fmt.Sprintf(" Balance is now %d.", res.Balance)
	}
	return text
}

func renderBalance(res *ports.BalanceResult) string {
	return fmt.Sprintf("💰 %s, you have %d points.", res.DisplayName, res.Balance)
}

// renderLeaderboard produces a Markdown message. Display names are escaped
// because they are user controlled.
func renderLeaderboard(entries []domain.RankedEntry) string {
	if len(entries) == 0 {
		return msgNoData
	}
	var b strings.Builder
	b.WriteString("🏆 *Best Bounty Hunters* 🏆\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. %s — %d pts\n", e.Rank, escapeMarkdown(e.DisplayName), e.Balance)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// fallbackName picks the name stored for a first-time actor: the @handle,
// then the first name, then the numeric id.
func fallbackName(id int64, username, firstName string) string {
	switch {
	case username != "":
		return "@" + username
	case firstName != "":
		return firstName
	default:
		return domain.Identity(id).String()
	}
}
