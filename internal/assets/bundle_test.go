package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/assets/rose.svga":         "rose",
		"/assets/heart":             "heart",
		"/assets/gifts/car.svga":    "car",
		"/assets/readme.md":         "ignored",
		"/outside/secret.svga":      "secret",
		"/assets/dir.svga/inner.md": "x",
	}
	for path, body := range files {
		if err := afero.WriteFile(fsys, path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
	}
	return NewBundle(fsys, "/assets")
}

func TestBundleRead(t *testing.T) {
	b := testBundle(t)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "rose", want: "rose"},
		{name: "rose.svga", want: "rose"},
		{name: "heart", want: "heart"},
		{name: "gifts/car", want: "car"},
		{name: "missing", wantErr: true},
		{name: "../outside/secret", wantErr: true},
		{name: "/outside/secret.svga", wantErr: true},
		{name: "dir", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := b.Read(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("Read(%q) error = %v, want ErrNotFound", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read(%q) failed: %v", tt.name, err)
			}
			if string(data) != tt.want {
				t.Errorf("Read(%q) = %q, want %q", tt.name, data, tt.want)
			}
		})
	}
}

func TestBundleNames(t *testing.T) {
	names, err := testBundle(t).Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	want := []string{"gifts/car", "rose"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

func TestBundleLookup(t *testing.T) {
	b := testBundle(t)
	if path, ok := b.Lookup("rose").Get(); !ok || path != filepath.Join("/assets", "rose.svga") {
		t.Errorf("Lookup(rose) = %q, %v", path, ok)
	}
	if b.Lookup("nothing").IsPresent() {
		t.Error("Lookup(nothing) should be empty")
	}
}

func TestBundleWatch(t *testing.T) {
	dir := t.TempDir()
	b := NewBundle(afero.NewOsFs(), dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	if err := b.Watch(ctx, func(name string) { changed <- name }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "rose.svga"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-changed:
		if name != "rose" {
			t.Errorf("changed = %q, want rose", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}
