package raffle

import (
	"fmt"
	"strconv"
	"strings"

	"rifa/domain/entities"
	"rifa/domain/services"
	"rifa/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// Custom IDs handled by this feature
const (
	CustomIDPrefix     = "rifa_"
	customIDDrawStart  = "rifa_draw_start"
	customIDDrawFinish = "rifa_draw_finish"
	customIDGridPrefix = "rifa_grid_"
)

// CreateDrawComponents builds the start/next and finish buttons for the draw screen
func CreateDrawComponents(snap services.DrawSnapshot) []discordgo.MessageComponent {
	closed := snap.Phase == entities.DrawPhaseClosed

	startLabel := utils.T(utils.MsgStartDraw)
	if len(snap.History) > 0 {
		startLabel = utils.T(utils.MsgNextDraw)
	}
	startStyle := discordgo.SuccessButton
	if snap.IsSoldOut {
		startLabel = utils.T(utils.MsgSoldOut)
		startStyle = discordgo.SecondaryButton
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    startLabel,
					Style:    startStyle,
					CustomID: customIDDrawStart,
					Disabled: closed || snap.IsSoldOut || snap.Phase.IsInFlight(),
					Emoji:    &discordgo.ComponentEmoji{Name: "🎲"},
				},
				discordgo.Button{
					Label:    utils.T(utils.MsgFinish),
					Style:    discordgo.DangerButton,
					CustomID: customIDDrawFinish,
					Disabled: closed,
				},
			},
		},
	}
}

// CreateGridComponents builds the page navigation buttons for ticket sheets
func CreateGridComponents(eventID string, page, totalPages int) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: gridCustomID(eventID, page-1),
					Disabled: page <= 1,
				},
				discordgo.Button{
					Label:    utils.T(utils.MsgPage, page, totalPages),
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("%scurrent_%s", customIDGridPrefix, eventID),
					Disabled: true,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: gridCustomID(eventID, page+1),
					Disabled: page >= totalPages,
				},
			},
		},
	}
}

func gridCustomID(eventID string, page int) string {
	return fmt.Sprintf("%s%d_%s", customIDGridPrefix, page, eventID)
}

// ParseGridCustomID extracts the event and page from a grid navigation button
func ParseGridCustomID(customID string) (eventID string, page int, ok bool) {
	rest, found := strings.CutPrefix(customID, customIDGridPrefix)
	if !found {
		return "", 0, false
	}
	pageStr, eventID, found := strings.Cut(rest, "_")
	if !found || eventID == "" {
		return "", 0, false
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return "", 0, false
	}
	return eventID, page, true
}
