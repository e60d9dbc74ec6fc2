package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mikey-austin/media_deck/internal/core"
)

// PlaylistNames lists the known playlists.
type PlaylistNames interface {
	Names() []string
}

// Resolver resolves playlist selectors to names.
type Resolver struct {
	Playlists PlaylistNames
	Config    Config
}

// ResolvePlaylist resolves a selector using aliases, exact names and then
// unique case-insensitive prefixes. An empty selector uses the default.
func (r Resolver) ResolvePlaylist(selector string) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		selector = r.Config.DefaultPlaylist
	}
	if selector == "" {
		return "", &core.CLIError{Code: core.ExitUsage, Msg: "playlist selector required"}
	}
	if alias, ok := r.Config.Aliases[selector]; ok {
		selector = alias
	}

	names := r.Playlists.Names()
	for _, name := range names {
		if name == selector {
			return name, nil
		}
	}

	matches := make([]string, 0)
	for _, name := range names {
		if strings.EqualFold(name, selector) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		lower := strings.ToLower(selector)
		for _, name := range names {
			if strings.HasPrefix(strings.ToLower(name), lower) {
				matches = append(matches, name)
			}
		}
	}

	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) == 0 {
		return "", &core.CLIError{Code: core.ExitNotFound, Msg: fmt.Sprintf("no playlist matches %q", selector)}
	}
	return "", &core.CLIError{Code: core.ExitUsage, Msg: fmt.Sprintf("ambiguous playlist %q: %s", selector, suggestionList(matches))}
}

func suggestionList(matches []string) string {
	sorted := append([]string(nil), matches...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
