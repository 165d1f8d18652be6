package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
	"github.com/dgnsrekt/svgaplay/internal/svga"
)

var probeStyle string

var probeCmd = &cobra.Command{
	Use:     "probe SOURCE...",
	Short:   "Describe SVGA files without playing them",
	Long:    paragraph(fmt.Sprintf("\n%s SVGA files, URLs or bundled animations and print their dimensions, timing and layers.", keyword("Probe"))),
	Example: paragraph("svgaplay probe loading.svga\nsvgaplay probe https://example.com/gift.svga"),
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newStack(ctx, afero.NewOsFs(), runloop.Inline)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		r, err := glamour.NewTermRenderer(
			glamour.WithColorProfile(lipgloss.ColorProfile()),
			glamour.WithStandardStyle(probeGlamourStyle()),
			glamour.WithWordWrap(terminalWidth()),
		)
		if err != nil {
			return fmt.Errorf("unable to create renderer: %w", err)
		}

		for _, source := range args {
			md, err := probe(ctx, s, source)
			if err != nil {
				return err
			}
			out, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("unable to render report: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func probeGlamourStyle() string {
	if probeStyle != styles.AutoStyle {
		return probeStyle
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return styles.NoTTYStyle
	}
	if termenv.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return min(w, 120)
	}
	return 80
}

func probe(ctx context.Context, s *stack, source string) (string, error) {
	data, err := s.read(ctx, source)
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", source, err)
	}
	movie, err := svga.Parse(data)
	if err != nil {
		return "", fmt.Errorf("unable to parse %s: %w", source, err)
	}
	return probeReport(source, len(data), movie), nil
}

// probeReport describes a movie as markdown.
func probeReport(source string, size int, m *svga.Movie) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", source)
	fmt.Fprintf(&b, "| Property | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Version | %s |\n", m.Version)
	fmt.Fprintf(&b, "| Size | %g × %g |\n", m.Width, m.Height)
	fmt.Fprintf(&b, "| Frame rate | %d fps |\n", m.FrameRate)
	fmt.Fprintf(&b, "| Frames | %d |\n", m.FrameCount)
	fmt.Fprintf(&b, "| Duration | %s |\n", player.Duration(m))
	fmt.Fprintf(&b, "| File size | %s |\n", humanize.Bytes(uint64(size))) //nolint:gosec
	fmt.Fprintf(&b, "| Validity | %s |\n", player.Validate(m))

	if len(m.Sprites) > 0 {
		fmt.Fprintf(&b, "\n## Sprites (%d)\n\n", len(m.Sprites))
		for _, sp := range m.Sprites {
			fmt.Fprintf(&b, "- `%s` %d frames", sp.ImageKey, sp.Frames)
			if sp.MatteKey != "" {
				fmt.Fprintf(&b, ", matte `%s`", sp.MatteKey)
			}
			b.WriteString("\n")
		}
	}

	if len(m.Images) > 0 {
		keys := make([]string, 0, len(m.Images))
		for k := range m.Images {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(&b, "\n## Images (%d)\n\n| Key | Size |\n|---|---|\n", len(keys))
		for _, k := range keys {
			fmt.Fprintf(&b, "| `%s` | %s |\n", k, humanize.Bytes(uint64(len(m.Images[k]))))
		}
	}

	if len(m.Audios) > 0 {
		fmt.Fprintf(&b, "\n## Audio (%d)\n\n", len(m.Audios))
		for _, a := range m.Audios {
			fmt.Fprintf(&b, "- `%s` frames %d to %d\n", a.AudioKey, a.StartFrame, a.EndFrame)
		}
	}
	return b.String()
}

func init() {
	probeCmd.Flags().StringVarP(&probeStyle, "style", "s", styles.AutoStyle, "glamour style name")
}
