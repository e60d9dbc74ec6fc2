// Package console draws session snapshots in the terminal and turns key
// presses into controller input.
package console

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/mikey-austin/media_deck/internal/modules/session"
)

const barWidth = 30

// Render returns the screen for a snapshot.
func Render(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(pterm.DefaultHeader.Sprint("deck: " + title(snap)))
	b.WriteString("\n")

	switch snap.State {
	case session.StateMenu:
		renderList(&b, snap.Cursor, session.MenuItems)
	case session.StateFileBrowser:
		rows := make([][]string, 0, len(snap.BrowserItems))
		for _, item := range snap.BrowserItems {
			rows = append(rows, []string{item.DisplayName, item.Kind.String(), FormatClock(item.DurationSeconds)})
		}
		renderTable(&b, snap.Cursor, []string{"NAME", "KIND", "LENGTH"}, rows)
	case session.StatePlaylist:
		rows := make([][]string, 0, len(snap.PlaylistItems))
		for i, e := range snap.PlaylistItems {
			mark := ""
			if i == snap.PlaylistCursor {
				mark = "*"
			}
			rows = append(rows, []string{mark, e.DisplayName, FormatClock(e.DurationSeconds)})
		}
		renderTable(&b, snap.Cursor, []string{"", "NAME", "LENGTH"}, rows)
	case session.StatePlayingVideo, session.StatePlayingAudio:
		renderPlayer(&b, snap)
	case session.StateSettings:
		b.WriteString(pterm.Bold.Sprint(session.SettingsPageTitles[snap.SettingsPage]) + "  (left/right to change page)\n")
		renderRows(&b, snap.Cursor, snap.SettingsRows)
	case session.StateBookmarks:
		rows := make([][]string, 0, len(snap.Bookmarks))
		for i, bm := range snap.Bookmarks {
			mark := ""
			if i == snap.CurrentBookmark {
				mark = "*"
			}
			rows = append(rows, []string{mark, bm.Label, FormatClock(bm.Start), FormatClock(bm.End), bm.Note})
		}
		renderTable(&b, snap.Cursor, []string{"", "LABEL", "START", "END", "NOTE"}, rows)
	case session.StateEffects:
		renderRows(&b, snap.Cursor, snap.EffectRows)
	}

	if snap.Status != "" {
		b.WriteString("\n" + pterm.FgGray.Sprint(snap.Status) + "\n")
	}
	return b.String()
}

func title(snap session.Snapshot) string {
	switch snap.State {
	case session.StatePlaylist:
		return "playlist " + snap.Playlist
	case session.StatePlayingVideo, session.StatePlayingAudio:
		if snap.Current != nil {
			return snap.Current.DisplayName
		}
	}
	return strings.ReplaceAll(snap.State.String(), "_", " ")
}

func renderList(b *strings.Builder, cursor session.Cursor, items []string) {
	from, to := cursor.Visible()
	for i := from; i < to && i < len(items); i++ {
		b.WriteString(pointer(i == cursor.Selected) + items[i] + "\n")
	}
}

func renderRows(b *strings.Builder, cursor session.Cursor, rows []session.SettingRow) {
	from, to := cursor.Visible()
	for i := from; i < to && i < len(rows); i++ {
		fmt.Fprintf(b, "%s%-20s %s\n", pointer(i == cursor.Selected), rows[i].Label, rows[i].Value)
	}
}

func renderTable(b *strings.Builder, cursor session.Cursor, header []string, rows [][]string) {
	if len(rows) == 0 {
		b.WriteString("  (empty)\n")
		return
	}
	from, to := cursor.Visible()
	data := pterm.TableData{append([]string{""}, header...)}
	for i := from; i < to && i < len(rows); i++ {
		data = append(data, append([]string{strings.TrimSpace(pointer(i == cursor.Selected))}, rows[i]...))
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		b.WriteString(err.Error() + "\n")
		return
	}
	b.WriteString(out + "\n")
}

func renderPlayer(b *strings.Builder, snap session.Snapshot) {
	state := "paused"
	if snap.Playing {
		state = "playing"
	}
	fmt.Fprintf(b, "%s %s %s / %s\n", ProgressBar(snap.Clock, snap.Duration, barWidth), state, FormatClock(snap.Clock), FormatClock(snap.Duration))
	fmt.Fprintf(b, "volume %d%%  speed %.1fx  loop %s\n", snap.Volume, snap.Playback.Speed, snap.Playback.Loop)
	if snap.Current != nil {
		b.WriteString(pterm.FgGray.Sprint(snap.Current.SourcePath) + "\n")
	}
}

func pointer(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

// ProgressBar draws a fixed width text bar.
func ProgressBar(pos, total, width int) string {
	filled := 0
	if total > 0 {
		filled = pos * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// FormatClock renders seconds as m:ss or h:mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
