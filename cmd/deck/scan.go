package main

import (
	"github.com/spf13/cobra"
)

func scanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "List playable files in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			dir := optionalArg(args)
			if dir == "" {
				dir = app.cfg.Library.Root
			}
			result, err := app.service.Scan(dir)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}
