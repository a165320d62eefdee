package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rifa/application"
	"rifa/database"
	"rifa/domain/clock"
	"rifa/domain/services"
	"rifa/infrastructure"
	"rifa/infrastructure/export"
	"rifa/infrastructure/render"
	"rifa/repository"

	log "github.com/sirupsen/logrus"
)

// Export writes spreadsheets or ticket sheets to a directory.
//
//	export csv <dir>
//	export xlsx <dir>
//	export sheets <event-id> <dir>
func Export(ctx context.Context, databaseURL string, slotsPerPage int, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rifa export [csv|xlsx] <dir> | rifa export sheets <event-id> <dir>")
	}

	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := repository.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	raffleEvents := application.NewRaffleEvents(uowFactory, clock.NewSystem())

	switch args[0] {
	case "csv", "xlsx":
		return exportSpreadsheet(ctx, raffleEvents, args[0], args[1])
	case "sheets":
		if len(args) < 3 {
			return fmt.Errorf("usage: rifa export sheets <event-id> <dir>")
		}
		return exportSheets(ctx, raffleEvents, slotsPerPage, args[1], args[2])
	default:
		return fmt.Errorf("unknown export format: %s", args[0])
	}
}

func exportSpreadsheet(ctx context.Context, raffleEvents *application.RaffleEvents, format, dir string) (err error) {
	list, err := raffleEvents.List(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, export.FileName(format, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close export file: %w", closeErr)
		}
	}()

	if format == "csv" {
		err = export.WriteCSV(f, list)
	} else {
		err = export.WriteXLSX(f, list)
	}
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"path":   path,
		"events": len(list),
	}).Info("Raffle events exported")
	return nil
}

func exportSheets(ctx context.Context, raffleEvents *application.RaffleEvents, slotsPerPage int, eventID, dir string) error {
	event, err := raffleEvents.Get(ctx, eventID)
	if err != nil {
		return err
	}

	renderer, err := render.NewTicketSheetRenderer(services.NewTicketGrid(slotsPerPage), render.DefaultPixelsPerMM)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	pages := 0
	err = renderer.RenderEach(event, func(sheet render.Sheet) error {
		if err := os.WriteFile(filepath.Join(dir, sheet.FileName), sheet.PNG, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", sheet.FileName, err)
		}
		pages++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to export ticket sheets: %w", err)
	}

	log.WithFields(log.Fields{
		"eventId": event.ID,
		"pages":   pages,
		"dir":     dir,
	}).Info("Ticket sheets exported")
	return nil
}
