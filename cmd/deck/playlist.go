package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
)

func playlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "playlist",
		Aliases: []string{"pl"},
		Short:   "Playlist commands",
	}

	cmd.AddCommand(playlistListCommand())
	cmd.AddCommand(playlistShowCommand())
	cmd.AddCommand(playlistCreateCommand())
	cmd.AddCommand(playlistDeleteCommand())
	cmd.AddCommand(playlistAddCommand())
	cmd.AddCommand(playlistShuffleCommand())
	cmd.AddCommand(playlistSortCommand())
	cmd.AddCommand(playlistImportFeedCommand())

	return cmd
}

func playlistListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			result, err := app.service.ListPlaylists()
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func playlistShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show playlist entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			result, err := app.service.ShowPlaylist(optionalArg(args))
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func playlistCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			result, err := app.service.CreatePlaylist(args[0])
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func playlistDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			if err := app.service.DeletePlaylist(args[0]); err != nil {
				return err
			}
			return app.printer.Print(map[string]string{"deleted": args[0]})
		},
	}
}

func playlistAddCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Append media files to a playlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			result, err := app.service.AddToPlaylist(name, args)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
	cmd.Flags().StringVarP(&name, "playlist", "p", "", "playlist name (default: active)")
	return cmd
}

func playlistShuffleCommand() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "shuffle [name]",
		Short: "Shuffle a playlist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			result, err := app.service.ShufflePlaylist(optionalArg(args), rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	return cmd
}

func playlistSortCommand() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "sort [name]",
		Short: "Sort a playlist by name or duration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			result, err := app.service.SortPlaylist(optionalArg(args), by)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
	cmd.Flags().StringVar(&by, "by", "name", "sort key (name|duration)")
	return cmd
}

func playlistImportFeedCommand() *cobra.Command {
	var (
		name    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "import-feed <url|file>",
		Short: "Append podcast enclosures from an RSS or Atom feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := app.service.ImportFeed(ctx, name, args[0])
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
	cmd.Flags().StringVarP(&name, "playlist", "p", "", "playlist name (default: active)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "fetch timeout")
	return cmd
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
