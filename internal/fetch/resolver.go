package fetch

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/dgnsrekt/svgaplay/internal/player"
)

// LocalResolver routes sources the way the command line expects: an
// existing file is read directly, http(s) URLs are downloaded, and
// everything else is looked up in the asset bundle.
type LocalResolver struct {
	fs afero.Fs
}

// NewLocalResolver creates a resolver reading files from fsys.
func NewLocalResolver(fsys afero.Fs) *LocalResolver {
	return &LocalResolver{fs: fsys}
}

// Resolve implements player.Resolver. File reads are synchronous; local
// files are small and the control goroutine tolerates the delay.
func (r *LocalResolver) Resolve(source string, c player.Continuation) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		c.ForwardDownload(source)
		return
	}

	path, err := homedir.Expand(source)
	if err != nil {
		path = source
	}

	if info, err := r.fs.Stat(path); err == nil && !info.IsDir() {
		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			log.Debug("local read failed", "path", path, "error", err)
			c.Fail(err)
			return
		}
		c.Succeed(data)
		return
	}

	c.ForwardAsset(source)
}

var _ player.Resolver = (*LocalResolver)(nil)
