package console

import (
	"context"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/modules/session"
)

// Loop is what the console needs from the session loop.
type Loop interface {
	Sender
	Subscribe() <-chan session.Snapshot
}

// Module draws the session and reads the keyboard.
type Module struct {
	log  *zap.Logger
	loop Loop
}

// NewModule creates a console front end.
func NewModule(log *zap.Logger, loop Loop) *Module {
	if log == nil {
		log = zap.NewNop()
	}
	return &Module{log: log, loop: loop}
}

// Run redraws on every snapshot until ctx ends.
func (m *Module) Run(ctx context.Context) error {
	updates := m.loop.Subscribe()
	area, err := pterm.DefaultArea.WithRemoveWhenDone().Start()
	if err != nil {
		return err
	}
	defer area.Stop()

	keyErr := make(chan error, 1)
	go func() { keyErr <- ListenKeys(ctx, m.loop) }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-keyErr:
			if err != nil {
				m.log.Warn("keyboard unavailable", zap.Error(err))
			}
			keyErr = nil
		case snap := <-updates:
			area.Update(Render(snap))
		}
	}
}
