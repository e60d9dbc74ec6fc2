package service

// Config is runtime configuration for the CLI use cases.
type Config struct {
	Aliases         map[string]string
	DefaultPlaylist string
	BookmarkPath    string
}
