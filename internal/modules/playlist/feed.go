package playlist

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/media"
)

// ImportFeed appends one entry per enclosure in an RSS or Atom feed read
// from r and returns how many were added.
func ImportFeed(pl *Playlist, r io.Reader) (int, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return 0, core.Malformed("playlist.feed", err.Error())
	}
	return appendFeed(pl, feed), nil
}

// ImportFeedURL fetches a feed and appends its enclosures to pl.
func ImportFeedURL(ctx context.Context, pl *Playlist, feedURL string) (int, error) {
	feed, err := gofeed.NewParser().ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch feed: %w", err)
	}
	return appendFeed(pl, feed), nil
}

func appendFeed(pl *Playlist, feed *gofeed.Feed) int {
	added := 0
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		src, mimeType := pickEnclosure(item)
		if src == "" {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = enclosureName(src)
		}
		pl.Append(media.Entry{
			DisplayName:     title,
			SourcePath:      src,
			IsVideo:         strings.HasPrefix(mimeType, "video/") || media.IsVideoPath(enclosureName(src)),
			DurationSeconds: parseDuration(item),
		})
		added++
	}
	return added
}

func pickEnclosure(item *gofeed.Item) (string, string) {
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if enc.URL != "" {
			return enc.URL, strings.ToLower(enc.Type)
		}
	}
	return "", ""
}

func enclosureName(src string) string {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(src)
}

// parseDuration reads itunes:duration as seconds or [hh:]mm:ss.
func parseDuration(item *gofeed.Item) int {
	if item.ITunesExt == nil {
		return 0
	}
	raw := strings.TrimSpace(item.ITunesExt.Duration)
	if raw == "" {
		return 0
	}
	total := 0
	for _, part := range strings.Split(raw, ":") {
		n := 0
		if _, err := fmt.Sscanf(part, "%d", &n); err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}
