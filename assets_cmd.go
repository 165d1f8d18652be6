package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/gitcha"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/svgaplay/internal/assets"
)

var showAllAssets bool

var assetsCmd = &cobra.Command{
	Use:     "assets [QUERY]",
	Short:   "List bundled animations",
	Long:    paragraph(fmt.Sprintf("\n%s the animations under the asset directory, best fuzzy matches first when a query is given.", keyword("List"))),
	Example: paragraph("svgaplay assets\nsvgaplay assets gift"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle := assets.NewBundle(afero.NewOsFs(), assetsDir())
		found, err := findAssets(bundle, showAllAssets)
		if err != nil {
			return err
		}

		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		printAssets(cmd.OutOrStdout(), rankAssets(found, query), time.Now())
		return nil
	},
}

type assetFile struct {
	name    string
	size    int64
	modTime time.Time
}

// findAssets walks the bundle with gitcha, honoring .gitignore unless all
// is set.
func findAssets(b *assets.Bundle, all bool) ([]assetFile, error) {
	patterns := []string{"*" + assets.Ext}

	var (
		ch  chan gitcha.SearchResult
		err error
	)
	if all {
		ch, err = gitcha.FindAllFilesExcept(b.Dir(), patterns, nil)
	} else {
		ch, err = gitcha.FindFilesExcept(b.Dir(), patterns, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to search %s: %w", b.Dir(), err)
	}

	var found []assetFile
	for res := range ch {
		name, ok := b.NameOf(res.Path)
		if !ok {
			continue
		}
		found = append(found, assetFile{name: name, size: res.Info.Size(), modTime: res.Info.ModTime()})
	}
	return found, nil
}

// rankAssets orders files by fuzzy match against query, dropping
// non-matches. An empty query keeps the search order.
func rankAssets(files []assetFile, query string) []assetFile {
	if query == "" {
		return files
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}

	matches := fuzzy.Find(query, names)
	ranked := make([]assetFile, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, files[m.Index])
	}
	return ranked
}

func printAssets(w io.Writer, files []assetFile, now time.Time) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No animations found.")
		return
	}
	for _, f := range files {
		fmt.Fprintf(w, "%-40s %10s  %s\n", f.name, humanize.Bytes(uint64(f.size)), //nolint:gosec
			humanize.RelTime(f.modTime, now, "ago", "from now"))
	}
}

func init() {
	assetsCmd.Flags().BoolVarP(&showAllAssets, "all", "a", false, "include files ignored by .gitignore")
}
