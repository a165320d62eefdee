package raffle

import (
	"fmt"
	"strconv"
	"strings"

	"rifa/bot/common"
	"rifa/domain/entities"
	"rifa/domain/services"
	"rifa/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// CreateEventEmbed shows every field of a raffle event
func CreateEventEmbed(event *entities.RaffleEvent, slotsPerPage int) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Local", Value: common.OrDash(event.Location), Inline: true},
		{Name: "Data do sorteio", Value: common.OrDash(utils.FormatDate(event.DrawDate)), Inline: true},
		{Name: "Valor", Value: utils.FormatCurrency(event.Value), Inline: true},
		{Name: "Prêmio", Value: common.Truncate(common.OrDash(event.Prize), common.MaxEmbedFieldLength), Inline: false},
		{Name: "Cartelas", Value: fmt.Sprintf("%s (%s números)", event.Range().String(), utils.FormatCount(event.TotalSlots())), Inline: true},
		{Name: "Páginas", Value: strconv.Itoa(event.TotalPages(slotsPerPage)), Inline: true},
	}

	if !event.CreatedAt.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Criada", Value: common.FormatDiscordTimestamp(event.CreatedAt, "R"), Inline: true})
	}

	if event.StartDate != nil || event.EndDate != nil {
		var period string
		switch {
		case event.StartDate != nil && event.EndDate != nil:
			period = fmt.Sprintf("%s a %s", utils.FormatDate(*event.StartDate), utils.FormatDate(*event.EndDate))
		case event.StartDate != nil:
			period = "a partir de " + utils.FormatDate(*event.StartDate)
		default:
			period = "até " + utils.FormatDate(*event.EndDate)
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Vendas", Value: period, Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:       common.Truncate(event.Title, 256),
		Description: common.Truncate(event.Description, common.MaxEmbedDescriptionLength),
		Color:       common.ColorPrimary,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "ID: " + event.ID,
		},
	}
}

// CreateEventListEmbed lists events, newest first
func CreateEventListEmbed(title string, list []*entities.RaffleEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: common.ColorInfo,
	}

	if len(list) == 0 {
		embed.Description = utils.T(utils.MsgNoEvents)
		return embed
	}

	shown := list
	if len(shown) > common.MaxEventsPerList {
		shown = shown[:common.MaxEventsPerList]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, event := range shown {
		lines = append(lines, fmt.Sprintf("**%s** · %s · %s\n`%s`",
			common.Truncate(event.Title, 60),
			event.Range().String(),
			common.OrDash(utils.FormatDate(event.DrawDate)),
			event.ID,
		))
	}
	if len(list) > len(shown) {
		lines = append(lines, fmt.Sprintf("...e mais %d", len(list)-len(shown)))
	}

	embed.Description = common.Truncate(strings.Join(lines, "\n"), common.MaxEmbedDescriptionLength)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: utils.T(utils.MsgTotal, len(list))}
	return embed
}

// CreateDrawEmbed renders the draw screen for a snapshot
func CreateDrawEmbed(snap services.DrawSnapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: common.Truncate(strings.ToUpper(snap.Title), 256),
		Color: drawColor(snap),
	}

	var headline string
	switch snap.Phase {
	case entities.DrawPhaseSpinning:
		headline = fmt.Sprintf("# 🎰 %s\n%s", displayNumber(snap.CurrentNumber), utils.T(utils.MsgSpinning))
	case entities.DrawPhaseRevealing:
		headline = fmt.Sprintf("# 🎰 %s\n%s", displayNumber(snap.CurrentNumber), utils.T(utils.MsgRevealing))
	default:
		if snap.Winner != nil && snap.Phase == entities.DrawPhaseResolved {
			headline = fmt.Sprintf("# 🏆 %d\n**%s**", *snap.Winner, utils.T(utils.MsgWinner, strconv.Itoa(*snap.Winner)))
		} else {
			headline = fmt.Sprintf("# 🎟️ %s", snap.Range.String())
		}
	}

	status := utils.T(utils.MsgRemaining, snap.AvailableCount)
	if snap.IsSoldOut {
		status = fmt.Sprintf("**%s** · %s", utils.T(utils.MsgSoldOut), utils.T(utils.MsgAllDrawn))
	}
	embed.Description = headline + "\n\n" + status

	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:  utils.T(utils.MsgDrawnNumbers),
			Value: formatHistory(snap.History),
		},
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%s · %s", utils.T(utils.MsgNoRepeat), utils.T(utils.MsgTotal, len(snap.History))),
	}
	return embed
}

// CreateGridEmbed describes a page of ticket sheets whose image is attached as fileName
func CreateGridEmbed(event *entities.RaffleEvent, page *services.GridPage, fileName string) *discordgo.MessageEmbed {
	description := utils.T(utils.MsgPage, page.Number, page.TotalPages)
	if first, ok := page.FirstNumber(); ok {
		last, _ := page.LastNumber()
		description = fmt.Sprintf("%s · números %d a %d", description, first, last)
	}

	return &discordgo.MessageEmbed{
		Title:       common.Truncate(event.Title, 256),
		Description: description,
		Color:       common.ColorInfo,
		Image: &discordgo.MessageEmbedImage{
			URL: "attachment://" + fileName,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s · %s", utils.FormatCurrency(event.Value), common.Truncate(event.Prize, 100)),
		},
	}
}

func drawColor(snap services.DrawSnapshot) int {
	switch {
	case snap.IsSoldOut:
		return common.ColorWarning
	case snap.Phase.IsInFlight():
		return common.ColorSpin
	case snap.Phase == entities.DrawPhaseResolved:
		return common.ColorSuccess
	case snap.Phase == entities.DrawPhaseClosed:
		return common.ColorDanger
	}
	return common.ColorPrimary
}

func displayNumber(n *int) string {
	if n == nil {
		return "..."
	}
	return strconv.Itoa(*n)
}

// formatHistory lists the most recent winners first, keeping within the field limit
func formatHistory(history []int) string {
	if len(history) == 0 {
		return utils.T(utils.MsgNoDrawsYet)
	}

	shown := history
	if len(shown) > common.HistoryShownInDraw {
		shown = shown[:common.HistoryShownInDraw]
	}

	parts := make([]string, len(shown))
	for i, n := range shown {
		if i == 0 {
			parts[i] = fmt.Sprintf("**`%d`**", n)
		} else {
			parts[i] = fmt.Sprintf("`%d`", n)
		}
	}

	out := strings.Join(parts, " ")
	if len(history) > len(shown) {
		out += fmt.Sprintf(" … (+%d)", len(history)-len(shown))
	}
	return common.Truncate(out, common.MaxEmbedFieldLength)
}
