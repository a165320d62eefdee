package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rifa/application"
	"rifa/bot/features/raffle"
	"rifa/domain/services"
	"rifa/domain/utils"
	"rifa/events"
	"rifa/infrastructure/render"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token         string
	GuildID       string
	FrameInterval time.Duration
	IdleTimeout   time.Duration
	IsOperator    func(discordID int64) bool
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	renderer *raffle.DrawRenderer
	raffle   *raffle.Feature
	draws    *application.DrawController
	stop     chan struct{}
}

func New(config Config, raffleEvents *application.RaffleEvents, draws *application.DrawController, grid *services.TicketGrid, sheets *render.TicketSheetRenderer, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	if config.IsOperator == nil {
		config.IsOperator = func(int64) bool { return true }
	}

	renderer := raffle.NewDrawRenderer(dg, config.FrameInterval)
	draws.OnSnapshot(renderer.HandleSnapshot)

	bot := &Bot{
		config:   config,
		session:  dg,
		renderer: renderer,
		raffle:   raffle.New(raffleEvents, draws, grid, sheets, renderer, config.IsOperator),
		draws:    draws,
		stop:     make(chan struct{}),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleRaffleInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start periodic cleanup of abandoned draw sessions
	if config.IdleTimeout > 0 {
		go bot.startSessionCleanup()
	}

	// Announce in the channel when a draw runs out of numbers
	eventBus.Subscribe(events.EventTypeDrawExhausted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.DrawExhaustedEvent); ok {
			bot.announceExhausted(e)
		}
	})

	return bot, nil
}

func (b *Bot) Close() error {
	close(b.stop)
	b.renderer.Stop()
	return b.session.Close()
}

// startSessionCleanup closes draw sessions nobody has used for IdleTimeout
func (b *Bot) startSessionCleanup() {
	ticker := time.NewTicker(b.config.IdleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.draws.CloseIdle(b.config.IdleTimeout)
		}
	}
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "rifa":
		b.raffle.HandleCommand(s, i)
	}
}

// handleRaffleInteractions handles raffle component interactions
func (b *Bot) handleRaffleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	if strings.HasPrefix(i.MessageComponentData().CustomID, raffle.CustomIDPrefix) {
		b.raffle.HandleInteraction(s, i)
	}
}

func (b *Bot) announceExhausted(e events.DrawExhaustedEvent) {
	// only Discord sessions are keyed by channel ID
	if _, err := strconv.ParseUint(e.SessionKey, 10, 64); err != nil {
		return
	}

	message := fmt.Sprintf("🏁 **%s**: %s (%s)", e.Title, utils.T(utils.MsgAllDrawn), utils.T(utils.MsgTotal, e.TotalDrawn))
	if _, err := b.session.ChannelMessageSend(e.SessionKey, message); err != nil {
		log.WithFields(log.Fields{
			"channelId": e.SessionKey,
			"eventId":   e.EventID,
			"error":     err,
		}).Error("Failed to announce exhausted draw")
	}
}
