package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/trip"
)

func (a *App) importCmd() *cobra.Command {
	var (
		fromClipboard bool
		name          string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a trip from JSON",
		Long: `Import a trip from a JSON document produced by export. The
document is validated before anything is stored; a bad document
changes nothing.

Example:
  tripline import barcelona.json --name=barcelona`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			var (
				data []byte
				err  error
			)
			switch {
			case fromClipboard:
				text, err := clipboard.ReadAll()
				if err != nil {
					return fmt.Errorf("reading clipboard: %w", err)
				}
				data = []byte(text)
			case len(args) == 1:
				data, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("reading file: %w", err)
				}
			default:
				return fmt.Errorf("a file or --clipboard is required")
			}

			doc, err := trip.Decode(data)
			if err != nil {
				return err
			}
			st, err := trip.FromDocument(doc)
			if err != nil {
				return fmt.Errorf("invalid trip document: %w", err)
			}

			if name == "" {
				name = "imported"
			}

			ctx := context.Background()
			if err := a.saveTrip(ctx, name, st); err != nil {
				return err
			}

			fmt.Printf("Imported trip %q: %d days, %d stops\n",
				name, len(st.Days()), st.CountLocations())
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "Read the document from the clipboard")
	cmd.Flags().StringVar(&name, "name", "", "Name to store the trip under")

	return cmd
}
