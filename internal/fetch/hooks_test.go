package fetch

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spf13/afero"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
)

type outcome struct {
	kind string
	data []byte
	arg  string
	err  error
}

func capture(ch chan<- outcome) player.Continuation {
	return player.NewContinuation(
		func(data []byte) { ch <- outcome{kind: "succeed", data: data} },
		func(err error) { ch <- outcome{kind: "fail", err: err} },
		func(location string) { ch <- outcome{kind: "download", arg: location} },
		func(name string) { ch <- outcome{kind: "asset", arg: name} },
	)
}

func TestDownloader(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.svga" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("bytes"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := runloop.New(4)
	go loop.Run(ctx)

	client, _ := NewClient(fastConfig())
	d := NewDownloader(ctx, client, loop.Dispatch())

	tests := []struct {
		path string
		want string
	}{
		{"/a.svga", "succeed"},
		{"/missing.svga", "fail"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ch := make(chan outcome, 1)
			d.Download(srv.URL+tt.path, capture(ch))
			got := <-ch
			if got.kind != tt.want {
				t.Errorf("outcome = %+v, want %s", got, tt.want)
			}
			if got.kind == "fail" && !errors.Is(got.err, ErrStatus) {
				t.Errorf("error = %v, want ErrStatus", got.err)
			}
		})
	}
}

func TestLocalResolver(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "/anim/a.svga", []byte("local"), 0o644)
	fsys.MkdirAll("/anim/dir.svga", 0o755)

	r := NewLocalResolver(fsys)

	tests := []struct {
		source string
		want   outcome
	}{
		{"/anim/a.svga", outcome{kind: "succeed", data: []byte("local")}},
		{"https://cdn.example.com/a.svga", outcome{kind: "download", arg: "https://cdn.example.com/a.svga"}},
		{"http://cdn.example.com/a.svga", outcome{kind: "download", arg: "http://cdn.example.com/a.svga"}},
		{"/anim/dir.svga", outcome{kind: "asset", arg: "/anim/dir.svga"}},
		{"rose", outcome{kind: "asset", arg: "rose"}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			ch := make(chan outcome, 1)
			r.Resolve(tt.source, capture(ch))
			got := <-ch
			if got.kind != tt.want.kind || got.arg != tt.want.arg || string(got.data) != string(tt.want.data) {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.source, got, tt.want)
			}
		})
	}
}
