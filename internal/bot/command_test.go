package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("/Victory@PointsBot  @alice   10 ")
	assert.True(t, ok)
	assert.Equal(t, "victory", cmd.Name)
	assert.Equal(t, "PointsBot", cmd.Mention)
	assert.Equal(t, []string{"@alice", "10"}, cmd.Args)

	cmd, ok = ParseCommand("/mypoints")
	assert.True(t, ok)
	assert.Empty(t, cmd.Args)

	for _, text := range []string{"", "hello /start", "/", "/@bot"} {
		_, ok := ParseCommand(text)
		assert.False(t, ok, text)
	}
}

func TestCommand_AddressedTo(t *testing.T) {
	assert.True(t, Command{Name: "start"}.AddressedTo("PointsBot"))
	assert.True(t, Command{Name: "start", Mention: "pointsbot"}.AddressedTo("@PointsBot"))
	assert.False(t, Command{Name: "start", Mention: "Other"}.AddressedTo("PointsBot"))
	assert.True(t, Command{Name: "start", Mention: "Other"}.AddressedTo(""))
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "@ann", fallbackName(5, "ann", "Ann"))
	assert.Equal(t, "Ann", fallbackName(5, "", "Ann"))
	assert.Equal(t, "5", fallbackName(5, "", ""))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a\_b\*c\[d\`+"`", escapeMarkdown("a_b*c[d`"))
}
