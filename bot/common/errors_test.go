package common

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestBotError(t *testing.T) {
	t.Parallel()

	t.Run("user error", func(t *testing.T) {
		t.Parallel()
		err := NewUserError("Rifa não encontrada.", "event lookup failed")

		assert.False(t, err.IsSystem())
		assert.Equal(t, "event lookup failed", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})

	t.Run("system error wraps cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection refused")
		err := NewSystemError(cause, "Failed to list raffle events")

		assert.True(t, err.IsSystem())
		assert.Equal(t, genericErrorMessage, err.UserMessage)
		assert.Equal(t, "Failed to list raffle events: connection refused", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestInteractionUserID(t *testing.T) {
	t.Parallel()

	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "42"}},
	}}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "7"},
	}}

	assert.Equal(t, "42", InteractionUserID(guild))
	assert.Equal(t, "7", InteractionUserID(dm))
	assert.Empty(t, InteractionUserID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}))
}

func TestInteractionName(t *testing.T) {
	t.Parallel()

	command := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "rifa"},
	}}
	button := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "raffle_draw_start"},
	}}

	assert.Equal(t, "rifa", InteractionName(command))
	assert.Equal(t, "raffle_draw_start", InteractionName(button))
	assert.Empty(t, InteractionName(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}}))
}
