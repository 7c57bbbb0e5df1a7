package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/drill"
	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/tui/theme"
	"github.com/mvidal/tripline/internal/view"
)

func (a *App) showCmd() *cobra.Command {
	var (
		into      string
		themeName string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the trip board",
		Long: `Print the trip board: days as sections, slots as rows, and
overlapping stops side by side. With --into, shows the nested board
of an area instead.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			st, name, err := a.loadTrip(context.Background())
			if err != nil {
				return err
			}

			ix := schedule.FromStore(st)

			title := name
			var v drill.View
			if into != "" {
				parent, err := findLocation(st, into)
				if err != nil {
					return err
				}
				if !parent.IsParent() {
					return fmt.Errorf("%s has no nested stops", parent.Name)
				}
				id := parent.ID
				v = drill.Resolve(st, ix, &id, nil)
				title = fmt.Sprintf("%s › %s", name, parent.Name)
			} else {
				v = drill.Resolve(st, ix, nil, nil)
			}

			if themeName == "" {
				themeName = a.config.UI.Theme
			}
			th, err := theme.Load(themeName)
			if err != nil {
				return err
			}

			// Nested stops are projected onto the window's days, so
			// the board's index must cover exactly those days.
			board := view.Board{
				Title:     title,
				Days:      v.Days,
				Locations: v.Locations,
				Index:     schedule.NewIndex(v.Days, st.Routes()),
				Width:     termWidth(),
				Styles:    view.NewStyles(th),
			}

			fmt.Print(board.Render())
			if routes := board.RenderRoutes(); routes != "" {
				fmt.Println()
				fmt.Print(routes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Show the nested board of this area")
	cmd.Flags().StringVar(&themeName, "theme", "", "Color theme (default: from config)")

	return cmd
}
