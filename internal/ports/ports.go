package ports

// Clock returns the current unix time in seconds.
type Clock interface {
	NowUnix() int64
}

// IDGen returns unique identifiers.
type IDGen interface {
	NewID() string
}

// PositionStore persists where playback of an item stopped.
type PositionStore interface {
	Position(path string) (int, bool, error)
	SavePosition(path string, seconds int) error
}
