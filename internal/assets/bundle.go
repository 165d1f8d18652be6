// Package assets serves the bundled animations: files under an asset
// directory addressed by name, with or without the .svga extension.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
)

// Ext is the extension of animation files.
const Ext = ".svga"

// ErrNotFound is returned for names that match no file in the bundle.
var ErrNotFound = errors.New("asset not found")

// Bundle reads animations from a directory.
type Bundle struct {
	fs  afero.Fs
	dir string
}

// NewBundle creates a bundle rooted at dir on fsys.
func NewBundle(fsys afero.Fs, dir string) *Bundle {
	return &Bundle{fs: fsys, dir: filepath.Clean(dir)}
}

// Dir returns the bundle root.
func (b *Bundle) Dir() string { return b.dir }

// Lookup returns the file path name resolves to, if any.
func (b *Bundle) Lookup(name string) mo.Option[string] {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return mo.None[string]()
	}

	for _, candidate := range []string{clean, clean + Ext} {
		path := filepath.Join(b.dir, candidate)
		if info, err := b.fs.Stat(path); err == nil && !info.IsDir() {
			return mo.Some(path)
		}
	}
	return mo.None[string]()
}

// Read returns the contents of the named animation.
func (b *Bundle) Read(name string) ([]byte, error) {
	path, ok := b.Lookup(name).Get()
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, name, b.dir)
	}
	data, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", name, err)
	}
	return data, nil
}

// Names lists every animation in the bundle by name, sorted.
func (b *Bundle) Names() ([]string, error) {
	var paths []string
	err := afero.Walk(b.fs, b.dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), Ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list assets in %s: %w", b.dir, err)
	}

	names := lo.FilterMap(paths, func(path string, _ int) (string, bool) {
		name, ok := b.NameOf(path)
		return name, ok
	})
	sort.Strings(names)
	return names, nil
}

// NameOf maps a file path inside the bundle back to its asset name.
func (b *Bundle) NameOf(path string) (string, bool) {
	rel, err := filepath.Rel(b.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	return rel[:len(rel)-len(filepath.Ext(rel))], true
}
