package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mikey-austin/media_deck/internal/core"
)

func bookmarkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bm"},
		Short:   "Bookmark commands",
	}

	cmd.AddCommand(bookmarkListCommand())
	cmd.AddCommand(bookmarkAddCommand())
	cmd.AddCommand(bookmarkRemoveCommand())

	return cmd
}

func bookmarkListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			result, err := app.service.ListBookmarks()
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func bookmarkAddCommand() *cobra.Command {
	var (
		label string
		note  string
	)

	cmd := &cobra.Command{
		Use:   "add <seconds>",
		Short: "Add a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			at, err := parseIndex(args[0], "seconds")
			if err != nil {
				return err
			}
			result, err := app.service.AddBookmark(label, at, note)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "bookmark label")
	cmd.Flags().StringVar(&note, "note", "", "bookmark note")
	return cmd
}

func bookmarkRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			index, err := parseIndex(args[0], "index")
			if err != nil {
				return err
			}
			result, err := app.service.RemoveBookmark(index)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func parseIndex(arg, name string) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, &core.CLIError{Code: core.ExitUsage, Msg: name + " must be an integer", Err: err}
	}
	return v, nil
}
