package main

import (
	"github.com/spf13/cobra"

	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/filter"
)

func filterCommand() *cobra.Command {
	var (
		settings = filter.DefaultSettings()
		effect   string
		radius   int
	)

	cmd := &cobra.Command{
		Use:   "filter <in.png> <out.png>",
		Short: "Run the color filter chain over a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			fx, err := filter.ParseEffect(effect)
			if err != nil {
				return core.WrapError(core.ExitUsage, "effect", err)
			}
			if !cmd.Flags().Changed("radius") {
				radius = app.cfg.Player.BlurRadius
			}
			result, err := app.service.FilterImage(args[0], args[1], settings, fx, radius)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
	cmd.Flags().Float64Var(&settings.Brightness, "brightness", settings.Brightness, "brightness multiplier")
	cmd.Flags().Float64Var(&settings.Contrast, "contrast", settings.Contrast, "contrast multiplier")
	cmd.Flags().Float64Var(&settings.Saturation, "saturation", settings.Saturation, "saturation multiplier")
	cmd.Flags().Float64Var(&settings.Gamma, "gamma", settings.Gamma, "gamma (> 0)")
	cmd.Flags().IntVar(&settings.Sharpness, "sharpness", settings.Sharpness, "sharpen passes")
	cmd.Flags().StringVar(&effect, "effect", "none", "effect (none|sepia|grayscale|invert|blur)")
	cmd.Flags().IntVar(&radius, "radius", 2, "blur radius")
	return cmd
}
