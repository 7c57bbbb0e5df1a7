package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) tripsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List stored trips",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			infos, err := a.store.List(context.Background())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No trips yet. Create one with: tripline new")
				return nil
			}

			fmt.Println(formatHeader("Trips"))
			for _, info := range infos {
				fmt.Printf("  %s  %s to %s, %d stops  %s\n",
					formatScheduled(info.Name),
					info.StartDate, info.EndDate,
					info.Locations,
					formatMuted(info.UpdatedAt.Format("2006-01-02 15:04")),
				)
			}
			return nil
		},
	}

	cmd.AddCommand(a.tripsDeleteCmd())
	cmd.AddCommand(a.tripsRenameCmd())

	return cmd
}

func (a *App) tripsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if err := a.store.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted trip %q\n", args[0])
			return nil
		},
	}
}

func (a *App) tripsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [old] [new]",
		Short: "Rename a stored trip",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if err := a.store.Rename(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed trip %q to %q\n", args[0], args[1])
			return nil
		},
	}
}
