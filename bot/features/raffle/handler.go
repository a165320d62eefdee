package raffle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rifa/application"
	"rifa/bot/common"
	"rifa/domain/entities"
	"rifa/domain/services"
	"rifa/domain/utils"
	"rifa/infrastructure/export"
	"rifa/infrastructure/render"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	maxHeaderImageBytes = 8 << 20
	maxFilesPerMessage  = 10
)

type commandArgs map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) commandArgs {
	m := make(commandArgs, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func (o commandArgs) getString(name string) string {
	if opt, ok := o[name]; ok {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

func (o commandArgs) getInt(name string) (int, bool) {
	if opt, ok := o[name]; ok {
		return int(opt.IntValue()), true
	}
	return 0, false
}

func (o commandArgs) getBool(name string) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return false
}

// mapError turns domain errors into messages the user can act on
func mapError(err error, logMessage string) error {
	var botErr *common.BotError
	switch {
	case errors.As(err, &botErr):
		return botErr
	case errors.Is(err, entities.ErrEventNotFound):
		botErr = common.NewUserError(utils.T(utils.MsgEventNotFound), logMessage)
	case errors.Is(err, entities.ErrRangeTooLarge):
		botErr = common.NewUserError(fmt.Sprintf("Uma rifa pode ter no máximo %s números.", utils.FormatCount(entities.MaxRangeSize)), logMessage)
	case errors.Is(err, entities.ErrInvalidRange):
		botErr = common.NewUserError("O número inicial deve ser menor ou igual ao número final.", logMessage)
	case errors.Is(err, entities.ErrInvalidEvent):
		botErr = common.NewUserError("Dados da rifa inválidos: "+err.Error(), logMessage)
	case errors.Is(err, application.ErrSessionNotFound):
		botErr = common.NewUserError("Nenhum sorteio aberto neste canal. Use /rifa sortear.", logMessage)
	case errors.Is(err, export.ErrNothingToExport):
		botErr = common.NewUserError(utils.T(utils.MsgNoEvents), logMessage)
	default:
		return common.NewSystemError(err, logMessage)
	}
	botErr.Err = err
	return botErr
}

func (f *Feature) requireOperator(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	userID, err := strconv.ParseInt(common.InteractionUserID(i), 10, 64)
	if err == nil && f.isOperator(userID) {
		return true
	}
	common.RespondWithError(s, i, "Você não tem permissão para gerenciar rifas.")
	return false
}

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, args commandArgs) {
	if !f.requireOperator(s, i) {
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring create response: %v", err)
		return
	}

	ctx := context.Background()
	event, err := f.eventFromOptions(ctx, i, args)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	saved, err := f.events.Save(ctx, event)
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to create raffle event"), true)
		return
	}

	log.WithFields(log.Fields{
		"eventId": saved.ID,
		"userId":  common.InteractionUserID(i),
	}).Info("Raffle event created from Discord")

	if _, err := common.FollowUpWithEmbed(s, i, CreateEventEmbed(saved, f.grid.SlotsPerPage()), nil, false); err != nil {
		log.Errorf("Error sending created event: %v", err)
	}
}

// eventFromOptions builds a draft event from the criar subcommand
func (f *Feature) eventFromOptions(ctx context.Context, i *discordgo.InteractionCreate, args commandArgs) (*entities.RaffleEvent, error) {
	event := entities.NewRaffleEventDraft()
	event.Title = args.getString("titulo")
	event.Prize = args.getString("premio")
	event.Location = args.getString("local")
	event.Description = args.getString("descricao")

	drawDate, err := utils.ParseDate(args.getString("data_sorteio"))
	if err != nil {
		return nil, common.NewUserError("Data do sorteio inválida. Use dd/mm/aaaa.", err.Error())
	}
	event.DrawDate = drawDate

	for name, target := range map[string]**time.Time{"inicio_vendas": &event.StartDate, "fim_vendas": &event.EndDate} {
		raw := args.getString(name)
		if raw == "" {
			continue
		}
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Data inválida em %s. Use dd/mm/aaaa.", name), err.Error())
		}
		*target = &parsed
	}

	if raw := args.getString("valor"); raw != "" {
		value, err := utils.ParseMoney(raw)
		if err != nil {
			return nil, common.NewUserError("Valor inválido. Exemplo: 10,00", err.Error())
		}
		event.Value = value
	}
	if n, ok := args.getInt("inicial"); ok {
		event.InitialSeq = n
	}
	if n, ok := args.getInt("final"); ok {
		event.FinalSeq = n
	}

	if opt, ok := args["imagem"]; ok {
		attachmentID, _ := opt.Value.(string)
		data := i.ApplicationCommandData()
		if data.Resolved == nil || data.Resolved.Attachments[attachmentID] == nil {
			return nil, common.NewUserError("Não foi possível ler a imagem enviada.", "missing resolved attachment "+attachmentID)
		}
		image, err := f.downloadAttachment(ctx, data.Resolved.Attachments[attachmentID])
		if err != nil {
			return nil, err
		}
		event.HeaderImage = image
	}

	return event, nil
}

func (f *Feature) downloadAttachment(ctx context.Context, attachment *discordgo.MessageAttachment) ([]byte, error) {
	if attachment.Size > maxHeaderImageBytes {
		return nil, common.NewUserError("A imagem deve ter no máximo 8 MB.", fmt.Sprintf("attachment too large: %d bytes", attachment.Size))
	}
	if !strings.HasPrefix(attachment.ContentType, "image/") {
		return nil, common.NewUserError("O arquivo enviado não é uma imagem.", "attachment content type "+attachment.ContentType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, attachment.URL, nil)
	if err != nil {
		return nil, common.NewSystemError(err, "Failed to build attachment request")
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, common.NewSystemError(err, "Failed to download attachment")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, common.NewSystemError(fmt.Errorf("unexpected status %d", resp.StatusCode), "Failed to download attachment")
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxHeaderImageBytes+1))
	if err != nil {
		return nil, common.NewSystemError(err, "Failed to read attachment")
	}
	if len(data) > maxHeaderImageBytes {
		return nil, common.NewUserError("A imagem deve ter no máximo 8 MB.", "attachment body exceeded limit")
	}
	return data, nil
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	list, err := f.events.List(context.Background())
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to list raffle events"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateEventListEmbed("🎟️ Rifas", list), nil, true); err != nil {
		log.Errorf("Error responding to list command: %v", err)
	}
}

func (f *Feature) handleSearch(s *discordgo.Session, i *discordgo.InteractionCreate, args commandArgs) {
	term := args.getString("termo")
	list, err := f.events.Search(context.Background(), term)
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to search raffle events"), false)
		return
	}

	title := fmt.Sprintf("🔎 Rifas: \"%s\"", common.Truncate(term, 100))
	if err := common.RespondWithEmbed(s, i, CreateEventListEmbed(title, list), nil, true); err != nil {
		log.Errorf("Error responding to search command: %v", err)
	}
}

func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate, args commandArgs) {
	event, err := f.events.Get(context.Background(), args.getString("id"))
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to load raffle event"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateEventEmbed(event, f.grid.SlotsPerPage()), nil, false); err != nil {
		log.Errorf("Error responding to show command: %v", err)
	}
}

func (f *Feature) handleDuplicate(s *discordgo.Session, i *discordgo.InteractionCreate, args commandArgs) {
	if !f.requireOperator(s, i) {
		return
	}

	copied, err := f.events.Duplicate(context.Background(), args.getString("id"))
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to duplicate raffle event"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateEventEmbed(copied, f.grid.SlotsPerPage()), nil, false); err != nil {
		log.Errorf("Error responding to duplicate command: %v", err)
	}
}

func (f *Feature) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, args commandArgs) {
	if !f.requireOperator(s, i) {
		return
	}

	if err := f.events.Delete(context.Background(), args.getString("id")); err != nil {
		common.HandleError(s, i, mapError(err, "Failed to delete raffle event"), false)
		return
	}

	if err := common.RespondWithSuccess(s, i, utils.T(utils.MsgEventDeleted), true); err != nil {
		log.Errorf("Error responding to delete command: %v", err)
	}
}

func (f *Feature) handleGrid(s *discordgo.Session, i *discordgo.InteractionCreate, args commandArgs) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring grid response: %v", err)
		return
	}

	ctx := context.Background()
	event, err := f.events.Get(ctx, args.getString("id"))
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to load raffle event for grid"), true)
		return
	}

	if args.getBool("imprimir") {
		f.sendAllSheets(s, i, event)
		return
	}

	page := 1
	if n, ok := args.getInt("pagina"); ok {
		page = n
	}

	embed, components, file, err := f.gridView(event, page)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	if _, err := common.FollowUpWithFiles(s, i, "", embed, components, file); err != nil {
		log.Errorf("Error sending grid page: %v", err)
	}
}

func (f *Feature) handleGridPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	eventID, page, ok := ParseGridCustomID(customID)
	if !ok {
		return
	}
	if err := common.DeferUpdate(s, i); err != nil {
		log.Errorf("Error deferring grid page update: %v", err)
		return
	}

	event, err := f.events.Get(context.Background(), eventID)
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to load raffle event for grid page"), true)
		return
	}

	embed, components, file, err := f.gridView(event, page)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	if err := common.UpdateMessage(s, i, embed, components, file); err != nil {
		log.Errorf("Error updating grid page: %v", err)
	}
}

func (f *Feature) gridView(event *entities.RaffleEvent, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, common.Attachment, error) {
	gridPage, err := f.grid.Page(event, page)
	if err != nil {
		if errors.Is(err, entities.ErrPageOutOfRange) {
			msg := fmt.Sprintf("Página inválida. Esta rifa tem %d páginas.", f.grid.TotalPages(event))
			return nil, nil, common.Attachment{}, common.NewUserError(msg, err.Error())
		}
		return nil, nil, common.Attachment{}, mapError(err, "Failed to build grid page")
	}

	png, err := f.sheets.RenderPage(event, gridPage)
	if err != nil {
		return nil, nil, common.Attachment{}, common.NewSystemError(err, "Failed to render ticket sheet")
	}

	file := common.Attachment{
		Name:        fmt.Sprintf("%s-%02d.png", render.FileBaseName(event), gridPage.Number),
		ContentType: "image/png",
		Data:        png,
	}
	return CreateGridEmbed(event, gridPage, file.Name), CreateGridComponents(event.ID, gridPage.Number, gridPage.TotalPages), file, nil
}

// sendAllSheets renders every page and posts them in batches
func (f *Feature) sendAllSheets(s *discordgo.Session, i *discordgo.InteractionCreate, event *entities.RaffleEvent) {
	sheets, err := f.sheets.RenderAll(event)
	if errors.Is(err, render.ErrTooManySheets) {
		msg := fmt.Sprintf("Esta rifa tem mais de %d páginas. Gere as cartelas com o comando export sheets.", render.MaxSheetsInMemory)
		common.HandleError(s, i, common.NewUserError(msg, err.Error()), true)
		return
	}
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to render ticket sheets"), true)
		return
	}

	for start := 0; start < len(sheets); start += maxFilesPerMessage {
		end := min(start+maxFilesPerMessage, len(sheets))

		files := make([]common.Attachment, 0, end-start)
		for _, sheet := range sheets[start:end] {
			files = append(files, common.Attachment{Name: sheet.FileName, ContentType: "image/png", Data: sheet.PNG})
		}

		content := fmt.Sprintf("**%s** · %s", event.Title, utils.T(utils.MsgPage, sheets[end-1].Page, len(sheets)))
		if _, err := common.FollowUpWithFiles(s, i, content, nil, nil, files...); err != nil {
			log.WithFields(log.Fields{
				"eventId": event.ID,
				"batch":   start / maxFilesPerMessage,
				"error":   err,
			}).Error("Failed to send ticket sheets")
			return
		}
	}
}

func (f *Feature) handleExport(s *discordgo.Session, i *discordgo.InteractionCreate, args commandArgs) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring export response: %v", err)
		return
	}

	list, err := f.events.List(context.Background())
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to load raffle events for export"), true)
		return
	}

	format := args.getString("formato")
	if format == "" {
		format = "xlsx"
	}

	var buf bytes.Buffer
	contentType := "text/csv"
	switch format {
	case "csv":
		err = export.WriteCSV(&buf, list)
	default:
		format = "xlsx"
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, list)
	}
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to export raffle events"), true)
		return
	}

	file := common.Attachment{
		Name:        export.FileName(format, f.now()),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}
	content := fmt.Sprintf("✅ %s: %s", utils.T(utils.MsgExportFinished), utils.T(utils.MsgTotal, len(list)))
	if _, err := common.FollowUpWithFiles(s, i, content, nil, nil, file); err != nil {
		log.Errorf("Error sending export file: %v", err)
	}
}

func (f *Feature) handleOpenDraw(s *discordgo.Session, i *discordgo.InteractionCreate, args commandArgs) {
	if !f.requireOperator(s, i) {
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring draw response: %v", err)
		return
	}

	key := i.ChannelID
	snap, err := f.draws.Open(context.Background(), key, args.getString("id"))
	if err != nil {
		common.HandleError(s, i, mapError(err, "Failed to open draw session"), true)
		return
	}

	msg, err := common.FollowUpWithEmbed(s, i, CreateDrawEmbed(snap), CreateDrawComponents(snap), false)
	if err != nil {
		log.Errorf("Error sending draw screen: %v", err)
		return
	}
	f.renderer.Track(key, msg.ChannelID, msg.ID)
}

func (f *Feature) handleDrawStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.requireOperator(s, i) {
		return
	}
	if err := common.DeferUpdate(s, i); err != nil {
		log.Errorf("Error deferring draw start: %v", err)
		return
	}

	key := i.ChannelID
	if _, err := f.draws.Snapshot(key); err != nil {
		f.disableStaleDraw(s, i, err)
		return
	}
	f.followMessage(key, i)

	started, err := f.draws.Start(key)
	if err != nil {
		f.disableStaleDraw(s, i, err)
		return
	}
	if !started {
		log.WithField("sessionKey", key).Debug("Draw start ignored")
	}
}

func (f *Feature) handleDrawFinish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.requireOperator(s, i) {
		return
	}
	if err := common.DeferUpdate(s, i); err != nil {
		log.Errorf("Error deferring draw finish: %v", err)
		return
	}

	key := i.ChannelID
	if _, err := f.draws.Snapshot(key); err != nil {
		f.disableStaleDraw(s, i, err)
		return
	}
	f.followMessage(key, i)

	if err := f.draws.Close(key); err != nil {
		f.disableStaleDraw(s, i, err)
	}
}

// followMessage makes the clicked draw message the one kept up to date
func (f *Feature) followMessage(key string, i *discordgo.InteractionCreate) {
	if i.Message == nil {
		return
	}
	if current, ok := f.renderer.MessageID(key); ok && current == i.Message.ID {
		return
	}
	f.renderer.Track(key, i.ChannelID, i.Message.ID)
}

// disableStaleDraw handles buttons of a draw screen whose session is gone
func (f *Feature) disableStaleDraw(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if i.Message != nil && len(i.Message.Embeds) > 0 {
		components := CreateDrawComponents(services.DrawSnapshot{Phase: entities.DrawPhaseClosed})
		if editErr := common.UpdateMessage(s, i, i.Message.Embeds[0], components); editErr != nil {
			log.Errorf("Error disabling stale draw buttons: %v", editErr)
		}
	}
	common.HandleError(s, i, mapError(err, "Draw button without open session"), true)
}
