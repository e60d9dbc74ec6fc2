package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultFrameRate is the number of frames per simulated second.
const DefaultFrameRate = 30

// FrameSource paces the session loop.
type FrameSource interface {
	Frames(ctx context.Context, interval time.Duration) <-chan time.Time
}

// Config configures the session loop.
type Config struct {
	FrameRate int
}

// Module drives a Session from queued input and fans snapshots out to
// observers.
type Module struct {
	log     *zap.Logger
	session *Session
	frames  FrameSource
	config  Config
	input   chan Input

	mu        sync.Mutex
	observers []chan Snapshot
	frame     int
}

// NewModule wraps a session in a frame loop.
func NewModule(log *zap.Logger, s *Session, frames FrameSource, cfg Config) (*Module, error) {
	if s == nil {
		return nil, errors.New("session required")
	}
	if frames == nil {
		return nil, errors.New("frame source required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultFrameRate
	}
	return &Module{
		log:     log,
		session: s,
		frames:  frames,
		config:  cfg,
		input:   make(chan Input, 64),
	}, nil
}

// Send queues input for the next frame.
func (m *Module) Send(ctx context.Context, in Input) error {
	select {
	case m.input <- in:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns a channel that always holds the latest snapshot.
func (m *Module) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	m.mu.Lock()
	m.observers = append(m.observers, ch)
	m.mu.Unlock()
	return ch
}

// Run processes frames until ctx is done or the user exits, in which case
// ErrExit is returned.
func (m *Module) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(m.config.FrameRate)
	frames := m.frames.Frames(ctx, interval)
	m.publish()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			if err := m.step(); err != nil {
				m.publish()
				return err
			}
			m.publish()
		}
	}
}

func (m *Module) step() error {
	if in, ok := m.drain(); ok {
		if err := m.session.HandleInput(in); err != nil {
			if errors.Is(err, ErrExit) {
				m.log.Info("exit requested")
			}
			return err
		}
	}

	m.frame++
	if m.frame >= m.framesPerTick() {
		m.frame = 0
		m.session.Tick()
	}
	return nil
}

// drain merges all input queued since the last frame.
func (m *Module) drain() (Input, bool) {
	var merged Input
	got := false
	for {
		select {
		case in := <-m.input:
			merged = merged.Merge(in)
			got = true
		default:
			return merged, got
		}
	}
}

// framesPerTick scales the clock by the playback speed.
func (m *Module) framesPerTick() int {
	speed := m.session.PlaybackSpeed()
	if speed <= 0 {
		speed = 1
	}
	n := int(math.Round(float64(m.config.FrameRate) / speed))
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Module) publish() {
	snap := m.session.Snapshot()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.observers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
