package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/adapters/clock"
	"github.com/mikey-austin/media_deck/internal/adapters/console"
	"github.com/mikey-austin/media_deck/internal/adapters/framebuffer"
	"github.com/mikey-austin/media_deck/internal/adapters/mqttserver"
	"github.com/mikey-austin/media_deck/internal/bookmark"
	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/deck"
	"github.com/mikey-austin/media_deck/internal/media"
	embeddedmqtt "github.com/mikey-austin/media_deck/internal/modules/embedded_mqtt"
	"github.com/mikey-austin/media_deck/internal/modules/remote"
	"github.com/mikey-austin/media_deck/internal/modules/session"
)

func runCommand() *cobra.Command {
	var (
		library  string
		headless bool
		remoteOn bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the interactive player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if library != "" {
				a.cfg.Library.Root = library
			}
			if headless {
				a.cfg.Player.Console = false
			}
			if remoteOn {
				a.cfg.MQTT.Enabled = true
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			modules, err := buildModules(a)
			if err != nil {
				return err
			}
			a.log.Info("deck starting",
				zap.String("node_id", a.cfg.NodeName()),
				zap.String("library", a.cfg.Library.Root),
				zap.Int("frame_rate", a.cfg.Player.FrameRate),
				zap.Strings("modules", moduleNames(modules)),
			)

			supervisor := deck.Supervisor{Logger: a.log}
			if err := supervisor.Run(ctx, modules); err != nil && !errors.Is(err, session.ErrExit) {
				return core.WrapError(core.ExitRuntime, "run", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&library, "library", "l", "", "library root override")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without the console")
	cmd.Flags().BoolVar(&remoteOn, "remote", false, "enable the MQTT remote link")
	return cmd
}

func buildModules(a *app) ([]deck.ModuleRunner, error) {
	cfg := a.cfg
	logger := a.log

	store := bookmark.NewStore("")
	err := store.Load(cfg.Bookmarks.Path, func(line int, err error) {
		logger.Warn("skipped bookmark line", zap.Int("line", line), zap.Error(err))
	})
	if err != nil && !core.IsKind(err, core.KindNotFound) {
		return nil, core.WrapError(core.ExitRuntime, "load bookmarks", err)
	}

	fb, err := framebuffer.New(cfg.Player.Width, cfg.Player.Height)
	if err != nil {
		return nil, core.WrapError(core.ExitUsage, "framebuffer", err)
	}

	opts := session.Options{
		Registry:      a.playlists,
		Bookmarks:     store,
		BookmarkPath:  cfg.Bookmarks.Path,
		Browser:       browser(cfg, media.FileEstimator{Log: logger}, logger),
		LibraryRoot:   cfg.Library.Root,
		Framebuffer:   fb,
		Screenshotter: framebuffer.NewScreenshots(cfg.Player.ScreenshotsDir),
		BlurRadius:    cfg.Player.BlurRadius,
		Log:           logger.With(zap.String("module", "session")),
	}
	if a.positions != nil {
		opts.Positions = a.positions
	}
	s, err := session.New(opts)
	if err != nil {
		return nil, err
	}
	loop, err := session.NewModule(logger.With(zap.String("module", "loop")), s, clock.Clock{}, session.Config{FrameRate: cfg.Player.FrameRate})
	if err != nil {
		return nil, err
	}

	modules := []deck.ModuleRunner{{Name: "session", Run: loop.Run}}

	if cfg.EmbeddedMQTT.Enabled {
		mod, err := embeddedmqtt.NewModule(logger.With(zap.String("module", "embedded_mqtt")), embeddedmqtt.Config{
			Listen:         cfg.EmbeddedMQTT.Listen,
			TopicBase:      cfg.MQTT.TopicBase,
			AllowAnonymous: cfg.EmbeddedMQTT.AllowAnonymous,
			Username:       cfg.EmbeddedMQTT.Username,
			Password:       cfg.EmbeddedMQTT.Password,
			TLS:            embeddedTLS(cfg),
		})
		if err != nil {
			return nil, err
		}
		modules = append(modules, deck.ModuleRunner{Name: "embedded_mqtt", Run: mod.Run})
	}

	if cfg.MQTT.Enabled {
		mod, err := remoteModule(cfg, logger, loop)
		if err != nil {
			return nil, err
		}
		modules = append(modules, deck.ModuleRunner{Name: "remote", Run: mod.Run})
	}

	if cfg.Player.Console {
		modules = append(modules, deck.ModuleRunner{
			Name: "console",
			Run:  console.NewModule(logger.With(zap.String("module", "console")), loop).Run,
		})
	}
	return modules, nil
}

func remoteModule(cfg deck.Config, logger *zap.Logger, loop remote.Loop) (*remote.Module, error) {
	broker := cfg.MQTT.Broker
	if broker == "" {
		broker = embeddedBrokerURL(cfg)
	}

	var mod *remote.Module
	dial := func() (remote.Transport, error) {
		_, offline := mod.OfflinePresence()
		client, err := mqttserver.NewClient(mqttserver.Options{
			Broker:    broker,
			NodeID:    cfg.NodeName(),
			TopicBase: cfg.MQTT.TopicBase,
			User:      cfg.MQTT.Auth.User,
			Pass:      cfg.MQTT.Auth.Pass,
			TLS:       mqttserver.TLSFiles{CA: cfg.MQTT.TLS.CA, Cert: cfg.MQTT.TLS.Cert, Key: cfg.MQTT.TLS.Key},
			Logger:    logger.With(zap.String("component", "mqtt")),
			Debug:     cfg.MQTT.Debug,
			Offline:   offline,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	var err error
	mod, err = remote.NewModule(logger.With(zap.String("module", "remote")), dial, loop, remote.Config{
		NodeID:    cfg.NodeName(),
		Name:      "Media Deck",
		TopicBase: cfg.MQTT.TopicBase,
	})
	if err != nil {
		return nil, err
	}
	return mod, nil
}

func embeddedBrokerURL(cfg deck.Config) string {
	listen := cfg.EmbeddedMQTT.Listen
	if listen == "" {
		listen = embeddedmqtt.DefaultListen
	}
	return embeddedmqtt.BrokerURL(listen, embeddedTLS(cfg).Enabled())
}

func embeddedTLS(cfg deck.Config) mqttserver.TLSFiles {
	return mqttserver.TLSFiles{CA: cfg.EmbeddedMQTT.TLSCA, Cert: cfg.EmbeddedMQTT.TLSCert, Key: cfg.EmbeddedMQTT.TLSKey}
}

func moduleNames(modules []deck.ModuleRunner) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		out = append(out, m.Name)
	}
	return out
}
