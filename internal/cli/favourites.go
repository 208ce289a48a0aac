package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/mrlokans/postbrowser/internal/config"
	"github.com/mrlokans/postbrowser/internal/database"
	"github.com/mrlokans/postbrowser/internal/database/favourites"
)

// FavouritesCommand prints a user's stored favourites.
type FavouritesCommand struct {
	UserID       string
	DatabasePath string

	Out io.Writer
}

// NewFavouritesCommand creates a new FavouritesCommand
func NewFavouritesCommand() *FavouritesCommand {
	return &FavouritesCommand{Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *FavouritesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("favourites", flag.ContinueOnError)

	fs.StringVar(&cmd.UserID, "user", "", "User whose favourites to list (required)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the database file (default: DATABASE_PATH or "+config.DefaultDatabasePath+")")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s favourites -user <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List a user's favourite posts, oldest first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.UserID == "" {
		fs.Usage()
		return errors.New("-user is required")
	}
	return nil
}

// Run executes the favourites command
func (cmd *FavouritesCommand) Run() error {
	dbPath := cmd.DatabasePath
	if dbPath == "" {
		dbPath = config.NewConfig().Database.Path
	}

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	entries, err := favourites.NewRepository(db.DB).List(context.Background(), cmd.UserID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(cmd.Out, "%s has no favourites.\n", cmd.UserID)
		return nil
	}

	fmt.Fprintf(cmd.Out, "Favourites of %s (%d):\n", cmd.UserID, len(entries))
	for i, e := range entries {
		fmt.Fprintf(cmd.Out, "%4d. %-24s added %s\n", i+1, e.Identity, humanize.Time(e.AddedAt))
	}
	return nil
}
