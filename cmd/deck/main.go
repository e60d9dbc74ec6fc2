package main

import (
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/adapters/output"
	"github.com/mikey-austin/media_deck/internal/adapters/resume"
	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/deck"
	"github.com/mikey-austin/media_deck/internal/media"
	"github.com/mikey-austin/media_deck/internal/modules/playlist"
	"github.com/mikey-austin/media_deck/internal/service"
)

type app struct {
	cfg       deck.Config
	log       *zap.Logger
	printer   output.Printer
	service   service.Service
	playlists *playlist.Registry
	positions *resume.Store
	json      bool
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(core.ExitCode(err))
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "deck",
		Short:         "Media deck player and library tools",
		SilenceUsage:  true,
	}

	var (
		configPath string
		jsonOut    bool
		noColor    bool
		logLevel   string
		aliases    map[string]string
	)

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	root.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output json")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override")
	root.PersistentFlags().StringToStringVar(&aliases, "alias", nil, "playlist alias (name=playlist)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if noColor {
			pterm.DisableStyling()
		}
		cfg, err := loadConfig(configPath)
		if err != nil {
			return core.WrapError(core.ExitUsage, "load config", err)
		}
		if logLevel != "" {
			cfg.Server.LogLevel = logLevel
		}

		a, err := newApp(cfg, jsonOut, aliases, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if a := fromContext(cmd); a != nil {
			a.close()
		}
		return nil
	}

	root.AddCommand(runCommand())
	root.AddCommand(playlistCommand())
	root.AddCommand(bookmarkCommand())
	root.AddCommand(scanCommand())
	root.AddCommand(filterCommand())
	return root
}

func loadConfig(path string) (deck.Config, error) {
	if path == "" {
		return deck.LoadDefaultConfig()
	}
	return deck.LoadConfig(path)
}

func newApp(cfg deck.Config, jsonOut bool, aliases map[string]string, out io.Writer) (*app, error) {
	logger := deck.NewLogger(deck.LogConfig{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
		Output: cfg.Server.LogOutput,
		UTC:    cfg.Server.LogUTC,
	})

	registry, err := playlist.NewRegistry(cfg.Playlists.Dir, logger.With(zap.String("component", "playlists")))
	if err != nil {
		return nil, core.WrapError(core.ExitUsage, "playlists", err)
	}
	if err := registry.Open(cfg.Playlists.Active); err != nil {
		return nil, core.WrapError(core.ExitRuntime, "open playlists", err)
	}

	a := &app{cfg: cfg, log: logger, playlists: registry, json: jsonOut}
	if cfg.Resume.Enabled {
		store, err := resume.Open(cfg.Resume.DBPath, logger.With(zap.String("component", "resume")))
		if err != nil {
			logger.Warn("resume store unavailable", zap.Error(err))
		} else {
			a.positions = store
		}
	}

	svcCfg := service.Config{
		Aliases:         aliases,
		DefaultPlaylist: cfg.Playlists.Active,
		BookmarkPath:    cfg.Bookmarks.Path,
	}
	if svcCfg.DefaultPlaylist == "" {
		svcCfg.DefaultPlaylist = playlist.DefaultNames[0]
	}
	estimator := media.FileEstimator{Log: logger}
	a.service = service.Service{
		Playlists: registry,
		Scanner:   browser(cfg, estimator, logger),
		Estimator: estimator,
		Resolver:  service.Resolver{Playlists: registry, Config: svcCfg},
		Config:    svcCfg,
		Log:       logger,
	}
	if a.positions != nil {
		a.service.Positions = a.positions
	}

	if jsonOut {
		a.printer = output.JSONPrinter{Out: out}
	} else {
		a.printer = output.HumanPrinter{Out: out}
	}
	return a, nil
}

func browser(cfg deck.Config, estimator media.Estimator, logger *zap.Logger) media.Browser {
	b := media.Browser{Lister: media.OSLister{}, Estimator: estimator, Log: logger}
	if cfg.Library.TagTitles {
		b.Titles = media.TagTitles{}
	}
	return b
}

func (a *app) close() {
	if a.positions != nil {
		if err := a.positions.Close(); err != nil {
			a.log.Warn("close resume store", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

type appKey struct{}

func fromContext(cmd *cobra.Command) *app {
	val := cmd.Context().Value(appKey{})
	if val == nil {
		return nil
	}
	return val.(*app)
}
