package common

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const genericErrorMessage = "Algo deu errado. Tente novamente mais tarde."

// BotError pairs the message a raffle operator sees with the one we log
type BotError struct {
	UserMessage string
	LogMessage  string
	Err         error

	system bool
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// IsSystem reports whether the failure was ours rather than bad input
func (e *BotError) IsSystem() bool {
	return e.system
}

// NewUserError is for input the operator can fix: bad dates, unknown IDs, no open draw
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError hides err behind a generic message
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: genericErrorMessage,
		LogMessage:  logMessage,
		Err:         err,
		system:      true,
	}
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and tells the user what went wrong. Input mistakes
// log at info, everything else at error.
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	entry := log.WithFields(log.Fields{
		"userId":      InteractionUserID(i),
		"interaction": InteractionName(i),
		"error":       err.Error(),
	})

	userMessage := genericErrorMessage
	var botErr *BotError
	switch {
	case errors.As(err, &botErr) && !botErr.IsSystem():
		userMessage = botErr.UserMessage
		entry.Info(botErr.LogMessage)
	case botErr != nil:
		userMessage = botErr.UserMessage
		entry.Error(botErr.LogMessage)
	default:
		entry.Error("Unexpected error in bot interaction")
	}

	if deferred {
		FollowUpWithError(s, i, userMessage)
	} else {
		RespondWithError(s, i, userMessage)
	}
}

// InteractionUserID returns the ID of the user who triggered the interaction
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// InteractionName returns the command name or component custom ID for logging
func InteractionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	}
	return ""
}
