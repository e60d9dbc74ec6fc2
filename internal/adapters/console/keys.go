package console

import (
	"context"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"

	"github.com/mikey-austin/media_deck/internal/modules/session"
)

var runeButtons = map[rune]session.Buttons{
	'+': session.ButtonPlus,
	'=': session.ButtonPlus,
	'-': session.ButtonMinus,
	'1': session.ButtonOne,
	'2': session.ButtonTwo,
	'h': session.ButtonHome,
	'q': session.ButtonHome,
	'z': session.ButtonZ,
	'c': session.ButtonC,
	'a': session.ButtonA,
	'b': session.ButtonB,
}

var codeButtons = map[keys.KeyCode]session.Buttons{
	keys.Up:        session.ButtonUp,
	keys.Down:      session.ButtonDown,
	keys.Left:      session.ButtonLeft,
	keys.Right:     session.ButtonRight,
	keys.Enter:     session.ButtonA,
	keys.Space:     session.ButtonA,
	keys.Escape:    session.ButtonB,
	keys.Backspace: session.ButtonB,
	keys.Home:      session.ButtonHome,
	keys.CtrlC:     session.ButtonHome,
}

// MapKey converts a key press to controller input. Terminals report key
// events, not key state, so every event is both pressed and held for one
// frame. Holding a key relies on the OS auto-repeat, which repeats list
// navigation as well as held seeking and volume.
func MapKey(key keys.Key) (session.Input, bool) {
	if key.Code == keys.RuneKey {
		if len(key.Runes) != 1 {
			return session.Input{}, false
		}
		b, ok := runeButtons[key.Runes[0]]
		if !ok {
			return session.Input{}, false
		}
		return session.Press(b), true
	}
	b, ok := codeButtons[key.Code]
	if !ok {
		return session.Input{}, false
	}
	return session.Press(b), true
}

// Sender queues input for the session loop.
type Sender interface {
	Send(ctx context.Context, in session.Input) error
}

// ListenKeys forwards key presses until ctx ends or Ctrl+C is pressed.
func ListenKeys(ctx context.Context, sink Sender) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- keyboard.Listen(func(key keys.Key) (bool, error) {
			if ctx.Err() != nil {
				return true, nil
			}
			in, ok := MapKey(key)
			if !ok {
				return false, nil
			}
			if err := sink.Send(ctx, in); err != nil {
				return true, nil
			}
			return key.Code == keys.CtrlC, nil
		})
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
