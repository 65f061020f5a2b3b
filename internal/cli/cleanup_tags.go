package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/lucasmoraes/devocional/internal/config"
	"github.com/lucasmoraes/devocional/internal/database"
	"github.com/lucasmoraes/devocional/internal/database/tags"
)

// CleanupTagsCommand deletes tags that no devotional links to. The server
// can run this on a schedule; the command exists for one-off maintenance.
type CleanupTagsCommand struct {
	DatabasePath string
	DryRun       bool
}

func NewCleanupTagsCommand() *CleanupTagsCommand {
	return &CleanupTagsCommand{}
}

func (cmd *CleanupTagsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-tags", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show how many tags would be deleted without deleting them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-tags [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete tags no devotional links to.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CleanupTagsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := tags.NewRepository(db.DB)

	if cmd.DryRun {
		count, err := repo.CountOrphans()
		if err != nil {
			return fmt.Errorf("failed to count orphan tags: %w", err)
		}
		fmt.Printf("%d orphan tags would be deleted\n", count)
		return nil
	}

	deleted, err := repo.DeleteOrphans()
	if err != nil {
		return fmt.Errorf("failed to delete orphan tags: %w", err)
	}

	fmt.Printf("Deleted %d orphan tags\n", deleted)
	return nil
}
