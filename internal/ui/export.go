package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		toClipboard bool
		compact     bool
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the trip as JSON",
		Long: `Export the trip as a JSON document. Without a file the document
goes to stdout; with --clipboard it goes to the system clipboard.

Example:
  tripline export barcelona.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st, _, err := a.loadTrip(context.Background())
			if err != nil {
				return err
			}

			doc := st.Export()
			var data []byte
			if compact {
				data, err = json.Marshal(doc)
			} else {
				data, err = json.MarshalIndent(doc, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encoding trip: %w", err)
			}

			switch {
			case toClipboard:
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Println("Copied trip to clipboard")
			case len(args) == 1:
				if err := os.WriteFile(args[0], data, 0o644); err != nil {
					return fmt.Errorf("writing file: %w", err)
				}
				fmt.Printf("Exported trip to %s\n", args[0])
			default:
				fmt.Println(string(data))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy the document to the clipboard")
	cmd.Flags().BoolVar(&compact, "compact", false, "Emit compact JSON")

	return cmd
}
