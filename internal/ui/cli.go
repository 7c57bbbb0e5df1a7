// Package ui implements the command line interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/config"
	"github.com/mvidal/tripline/internal/db"
	"github.com/mvidal/tripline/internal/trip"
	"github.com/mvidal/tripline/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store    *db.SQLite
	config   *config.Config
	root     *cobra.Command
	tripName string
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "tripline",
		Short: "A CLI tool for planning trips on a day and slot board",
		Long: `Tripline plans trips as a board of days split into morning,
afternoon and evening slots. Stops are placed on the board, grouped
into areas, and connected with routes.

Running tripline without a subcommand opens the interactive board.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			st, name, err := a.loadTrip(context.Background())
			if err != nil {
				return err
			}
			return tui.Run(st, name, a.store, a.config)
		},
	}

	a.root.PersistentFlags().StringVar(&a.tripName, "trip", "", "Trip to operate on (default: most recently updated)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.newCmd())
	a.root.AddCommand(a.tripsCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.nestCmd())
	a.root.AddCommand(a.routeCmd())
	a.root.AddCommand(a.stayCmd())
	a.root.AddCommand(a.datesCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("tripline %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := toml.Marshal(a.config)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Printf("# config file: %s\n%s", config.DefaultConfigPath(), data)
			return nil
		},
	}
}

// ensureStore opens the database on first use.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}

	dir := filepath.Dir(a.config.Storage.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = store
	return nil
}

// resolveTripName returns the trip named by --trip, or the most
// recently updated trip when the flag is empty.
func (a *App) resolveTripName(ctx context.Context) (string, error) {
	if a.tripName != "" {
		return a.tripName, nil
	}

	infos, err := a.store.List(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", errors.New("no trips yet, create one with: tripline new")
	}
	return infos[0].Name, nil
}

// loadTrip loads the active trip into an in-memory store.
func (a *App) loadTrip(ctx context.Context) (*trip.Store, string, error) {
	if err := a.ensureStore(); err != nil {
		return nil, "", err
	}

	name, err := a.resolveTripName(ctx)
	if err != nil {
		return nil, "", err
	}

	doc, err := a.store.Load(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("loading trip %q: %w", name, err)
	}

	st, err := trip.FromDocument(doc)
	if err != nil {
		return nil, "", fmt.Errorf("reading trip %q: %w", name, err)
	}
	return st, name, nil
}

// saveTrip persists the trip back to the database.
func (a *App) saveTrip(ctx context.Context, name string, st *trip.Store) error {
	return a.store.Save(ctx, name, st.Export())
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
