package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mikey-austin/media_deck/internal/service"
)

// HumanPrinter prints human-readable output.
type HumanPrinter struct {
	Out io.Writer
}

// Print renders human output.
func (p HumanPrinter) Print(v any) error {
	w := writer(p.Out)
	switch data := v.(type) {
	case service.PlaylistListResult:
		return printPlaylists(w, data)
	case service.PlaylistShowResult:
		return printPlaylistShow(w, data)
	case service.ImportResult:
		_, err := fmt.Fprintf(w, "added %d to %s (%d total)\n", data.Added, data.Playlist, data.Total)
		return err
	case service.BookmarkListResult:
		return printBookmarks(w, data)
	case service.ScanResult:
		return printScan(w, data)
	case service.FilterResult:
		_, err := fmt.Fprintf(w, "wrote %s (%dx%d, effect %s)\n", data.Output, data.Width, data.Height, data.Effect)
		return err
	default:
		_, err := fmt.Fprintln(w, "ok")
		return err
	}
}

func printPlaylists(w io.Writer, result service.PlaylistListResult) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "NAME\tITEMS\tLEN\tACTIVE"); err != nil {
		return err
	}
	for _, pl := range result.Playlists {
		active := ""
		if pl.Active {
			active = "*"
		}
		_, err := fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", pl.Name, pl.Items, formatSeconds(pl.Duration), active)
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printPlaylistShow(w io.Writer, result service.PlaylistShowResult) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", result.Name, result.Path); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "INDEX\tTITLE\tTYPE\tLEN\tRESUME\tPATH"); err != nil {
		return err
	}
	for idx, entry := range result.Entries {
		marker := " "
		if idx == result.Cursor {
			marker = ">"
		}
		resume := ""
		if entry.Resume > 0 {
			resume = formatSeconds(entry.Resume)
		}
		_, err := fmt.Fprintf(tw, "%s%d\t%s\t%s\t%s\t%s\t%s\n", marker, idx, entry.DisplayName, entry.Kind(), formatSeconds(entry.DurationSeconds), resume, entry.SourcePath)
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printBookmarks(w io.Writer, result service.BookmarkListResult) error {
	if result.Source != "" {
		if _, err := fmt.Fprintf(w, "Bookmarks for: %s\n", result.Source); err != nil {
			return err
		}
	}
	if len(result.Bookmarks) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "INDEX\tLABEL\tSTART\tEND\tNOTE"); err != nil {
		return err
	}
	for idx, b := range result.Bookmarks {
		_, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", idx, b.Label, formatSeconds(b.Start), formatSeconds(b.End), b.Note)
		if err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if result.Skipped > 0 {
		_, err := fmt.Fprintf(w, "skipped %d malformed lines\n", result.Skipped)
		return err
	}
	return nil
}

func printScan(w io.Writer, result service.ScanResult) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "NAME\tKIND\tLEN"); err != nil {
		return err
	}
	for _, item := range result.Items {
		_, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", item.DisplayName, item.Kind, formatSeconds(item.DurationSeconds))
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatSeconds(secs int) string {
	if secs <= 0 {
		return "0:00"
	}
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
