package raffle

import (
	"net/http"
	"strings"
	"time"

	"rifa/application"
	"rifa/domain/services"
	"rifa/infrastructure/render"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the /rifa command and its buttons
type Feature struct {
	events     *application.RaffleEvents
	draws      *application.DrawController
	grid       *services.TicketGrid
	sheets     *render.TicketSheetRenderer
	renderer   *DrawRenderer
	isOperator func(discordID int64) bool
	httpClient *http.Client
	now        func() time.Time
}

func New(
	events *application.RaffleEvents,
	draws *application.DrawController,
	grid *services.TicketGrid,
	sheets *render.TicketSheetRenderer,
	renderer *DrawRenderer,
	isOperator func(discordID int64) bool,
) *Feature {
	return &Feature{
		events:     events,
		draws:      draws,
		grid:       grid,
		sheets:     sheets,
		renderer:   renderer,
		isOperator: isOperator,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	sub := options[0]
	args := optionMap(sub.Options)

	switch sub.Name {
	case "criar":
		f.handleCreate(s, i, args)
	case "listar":
		f.handleList(s, i)
	case "buscar":
		f.handleSearch(s, i, args)
	case "ver":
		f.handleShow(s, i, args)
	case "duplicar":
		f.handleDuplicate(s, i, args)
	case "cartelas":
		f.handleGrid(s, i, args)
	case "sortear":
		f.handleOpenDraw(s, i, args)
	case "exportar":
		f.handleExport(s, i, args)
	case "apagar":
		f.handleDelete(s, i, args)
	}
}

func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case customID == customIDDrawStart:
		f.handleDrawStart(s, i)
	case customID == customIDDrawFinish:
		f.handleDrawFinish(s, i)
	case strings.HasPrefix(customID, customIDGridPrefix):
		f.handleGridPage(s, i, customID)
	}
}
