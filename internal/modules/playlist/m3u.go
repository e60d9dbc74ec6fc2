package playlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/media"
)

const (
	headerMarker = "#EXTM3U"
	infoPrefix   = "#EXTINF:"
	namePrefix   = "# Playlist:"
)

// SkipFunc receives lines dropped while decoding.
type SkipFunc func(line int, err error)

// Encode writes pl as an extended M3U file.
func Encode(w io.Writer, pl *Playlist) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, headerMarker)
	fmt.Fprintf(bw, "%s %s\n", namePrefix, oneLine(pl.name))
	fmt.Fprintf(bw, "# Items: %d\n", len(pl.items))
	for _, e := range pl.items {
		fmt.Fprintf(bw, "%s%d,%s\n", infoPrefix, e.DurationSeconds, oneLine(e.DisplayName))
		fmt.Fprintln(bw, oneLine(e.SourcePath))
	}
	return bw.Flush()
}

type pendingInfo struct {
	duration int
	name     string
}

// Decode appends the entries in r to pl and takes the playlist name from a
// "# Playlist:" header when one is present. Parsing is best effort: blank lines
// and unknown comments are ignored, malformed #EXTINF lines are reported to
// onSkip and otherwise dropped. Metadata from an #EXTINF line applies to the
// next path line only.
func Decode(r io.Reader, pl *Playlist, onSkip SkipFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var pending *pendingInfo
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, infoPrefix) {
			info, err := parseInfo(line)
			if err != nil {
				pending = nil
				if onSkip != nil {
					onSkip(lineNo, err)
				}
				continue
			}
			pending = &info
			continue
		}
		if strings.HasPrefix(line, "#") {
			if name, ok := strings.CutPrefix(line, namePrefix); ok {
				if name = strings.TrimSpace(name); name != "" {
					pl.name = name
				}
			}
			continue
		}

		entry := media.NewEntry(line, 0)
		if pending != nil {
			if pending.name != "" {
				entry.DisplayName = pending.name
			}
			if pending.duration > 0 {
				entry.DurationSeconds = pending.duration
			}
			pending = nil
		}
		pl.Append(entry)
	}
	return scanner.Err()
}

func parseInfo(line string) (pendingInfo, error) {
	rest := strings.TrimPrefix(line, infoPrefix)
	durationText, name, ok := strings.Cut(rest, ",")
	if !ok {
		return pendingInfo{}, core.Malformed("playlist.decode", "#EXTINF without a comma")
	}
	// attributes such as tvg-id may follow the duration
	if i := strings.IndexAny(durationText, " \t"); i >= 0 {
		durationText = durationText[:i]
	}
	duration, err := strconv.Atoi(strings.TrimSpace(durationText))
	if err != nil {
		return pendingInfo{}, core.Malformed("playlist.decode", fmt.Sprintf("bad duration %q", durationText))
	}
	if duration < 0 {
		duration = 0
	}
	return pendingInfo{duration: duration, name: strings.TrimSpace(name)}, nil
}

func oneLine(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
