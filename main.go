package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"rifa/cmd"
	"rifa/database"
	"rifa/domain/entities"

	log "github.com/sirupsen/logrus"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error: ", err)
		}
		return
	}

	// Normal operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if len(os.Args) > 1 && os.Args[1] == "export" {
		if err := handleExportCommand(ctx); err != nil {
			log.Fatal("Export error: ", err)
		}
		return
	}

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: rifa migrate [up|down|status] [args...]")
	}

	// Migrations only need the database settings, not the full configuration
	migrator := database.NewMigrator(database.ConstructDatabaseURL(os.Getenv("DATABASE_URL"), os.Getenv("DATABASE_NAME")))

	command := os.Args[2]
	switch command {
	case "up":
		return migrator.Up()
	case "down":
		steps := 1
		if len(os.Args) > 3 {
			n, err := strconv.Atoi(os.Args[3])
			if err != nil {
				return fmt.Errorf("invalid steps value: %q", os.Args[3])
			}
			steps = n
		}
		return migrator.Down(steps)
	case "status":
		status, err := migrator.Status()
		if err != nil {
			return err
		}
		log.WithField("status", status.String()).Info("Current migration status")
		return nil
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleExportCommand reads only the database settings so exports run without a Discord token
func handleExportCommand(ctx context.Context) error {
	slotsPerPage := entities.DefaultSlotsPerPage
	if v, err := strconv.Atoi(os.Getenv("SLOTS_PER_PAGE")); err == nil && v > 0 {
		slotsPerPage = v
	}

	databaseURL := database.ConstructDatabaseURL(os.Getenv("DATABASE_URL"), os.Getenv("DATABASE_NAME"))
	return cmd.Export(ctx, databaseURL, slotsPerPage, os.Args[2:])
}
