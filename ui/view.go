package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/svga"
)

var titleCase = cases.Title(language.English)

func (m model) View() string {
	var b strings.Builder

	fmt.Fprintln(&b, m.canvasView())
	fmt.Fprintln(&b, m.progressView())
	for _, line := range m.history {
		fmt.Fprintln(&b, subtleStyle.Render("  "+runewidth.Truncate(line, max(m.width-2, 10), ellipsis)))
	}
	if m.cfg.ShowDebug {
		fmt.Fprintln(&b, subtleStyle.Render(m.player.DebugInfo()))
	}

	m.statusBarView(&b)
	fmt.Fprint(&b, "\n"+m.help.View(m.keys))
	return b.String()
}

// canvasView draws what the renderer would: the current frame and the
// layers of the held movie.
func (m model) canvasView() string {
	if m.surface.hidden() || m.player.Entity() == nil {
		return canvasStyle.Render(subtleStyle.Render(emptyCanvasText(m.player.Status())))
	}

	e := m.player.Entity()
	w, h := e.Size()
	lines := []string{
		frameStyle.Render(fmt.Sprintf("frame %d", m.player.CurrentFrame())),
		fmt.Sprintf("%gx%g  %d fps  %d frames  %s", w, h, e.FPS(), e.Frames(), player.Duration(e)),
	}
	if movie, ok := e.(*svga.Movie); ok {
		lines = append(lines, spriteLines(movie, m.cfg.SpriteRows)...)
	}

	canvas := canvasStyle.Render(strings.Join(lines, "\n"))
	if m.surface.faint() {
		return lipgloss.NewStyle().Faint(true).Render(canvas)
	}
	return canvas
}

func emptyCanvasText(s player.Status) string {
	if s == player.Loading {
		return "loading…"
	}
	return "nothing to show"
}

func spriteLines(movie *svga.Movie, rows int) []string {
	lines := []string{fmt.Sprintf("v%s  %d sprites  %d images  %d audios",
		movie.Version, len(movie.Sprites), len(movie.Images), len(movie.Audios))}

	for i, s := range movie.Sprites {
		if i == rows {
			lines = append(lines, subtleStyle.Render(fmt.Sprintf("… %d more", len(movie.Sprites)-rows)))
			break
		}
		line := "  " + s.ImageKey
		if s.MatteKey != "" {
			line += subtleStyle.Render(" matte " + s.MatteKey)
		}
		lines = append(lines, line)
	}
	return lines
}

// progressView shows how far the playhead is between the leading and
// trailing frames.
func (m model) progressView() string {
	return m.progress.ViewAs(playhead(m.player.LeadingFrame(), m.player.TrailingFrame(), m.player.CurrentFrame()))
}

// playhead maps frame onto [0, 1] from lead to trail. Lead may be greater
// than trail when playing in reverse.
func playhead(lead, trail, frame int) float64 {
	if lead == trail {
		return 0
	}
	p := float64(frame-lead) / float64(trail-lead)
	return min(max(p, 0), 1)
}

func loopsText(loops, count int) string {
	if loops == 0 {
		return fmt.Sprintf("loop %d/∞", count)
	}
	return fmt.Sprintf("loop %d/%d", count, loops)
}

func (m model) statusBarView(b *strings.Builder) {
	st := m.player.Status()

	logo := logoStyle(" SVGA ")
	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1B1B1B")).
		Background(statusColor(st)).
		Render(" " + titleCase.String(st.String()) + " ")
	pos := statusBarPosStyle(fmt.Sprintf(" %s ", loopsText(m.player.Loops(), m.player.LoopCount())))

	var note string
	switch {
	case m.statusMessage.message != "":
		note = m.statusMessage.message
	case m.player.Source() != "":
		note = m.player.Source()
		if n := len(m.cfg.Sources); n > 1 {
			note = fmt.Sprintf("%s (%d/%d)", note, m.index+1, n)
		}
	default:
		note = "no source"
	}

	fixed := ansi.PrintableRuneWidth(logo) + ansi.PrintableRuneWidth(badge) + ansi.PrintableRuneWidth(pos)
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, m.width-fixed)), ellipsis) //nolint:gosec
	padding := strings.Repeat(" ", max(0, m.width-fixed-ansi.PrintableRuneWidth(note)))

	style := statusBarNoteStyle
	switch {
	case m.statusMessage.isError:
		style = statusBarErrorStyle
	case m.statusMessage.message != "":
		style = statusBarMessageStyle
	}

	fmt.Fprintf(b, "%s%s%s%s%s", logo, badge, style(note), style(padding), pos)
}
