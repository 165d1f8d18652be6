package svga

import (
	"errors"
	"testing"
)

func TestParseV2(t *testing.T) {
	data := encodeV2(t, testMovie{
		version: "2.1.0",
		width:   750, height: 400,
		fps: 20, frames: 60,
		images:       map[string][]byte{"a": []byte("aa"), "b": []byte("bbb")},
		sprites:      []string{"a", "b"},
		spriteFrames: 60,
		audios:       []Audio{{AudioKey: "bgm", StartFrame: 0, EndFrame: 59, TotalTime: 3000}},
	})

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Version != "2.1.0" || m.Width != 750 || m.Height != 400 {
		t.Errorf("header = %q %vx%v", m.Version, m.Width, m.Height)
	}
	if m.FPS() != 20 || m.Frames() != 60 {
		t.Errorf("timing = %d fps, %d frames", m.FPS(), m.Frames())
	}
	if len(m.Images) != 2 || string(m.Images["b"]) != "bbb" {
		t.Errorf("images = %v", m.Images)
	}
	if len(m.Sprites) != 2 || m.Sprites[1].ImageKey != "b" || m.Sprites[1].Frames != 60 {
		t.Errorf("sprites = %+v", m.Sprites)
	}
	if len(m.Audios) != 1 || m.Audios[0].AudioKey != "bgm" || m.Audios[0].EndFrame != 59 || m.Audios[0].TotalTime != 3000 {
		t.Errorf("audios = %+v", m.Audios)
	}
}

func TestParseV1(t *testing.T) {
	spec := `{
		"ver": "1.1.0",
		"movie": {"viewBox": {"width": 100, "height": 50}, "fps": 15, "frames": 30},
		"images": {"star": "star_0"},
		"sprites": [{"imageKey": "star.png", "frames": [{}, {}, {}]}]
	}`
	data := encodeV1(t, spec, map[string][]byte{"star_0.png": []byte("png")})

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Version != "1.1.0" || m.Frames() != 30 || m.FPS() != 15 {
		t.Errorf("movie = %+v", m)
	}
	if w, h := m.Size(); w != 100 || h != 50 {
		t.Errorf("size = %vx%v", w, h)
	}
	if string(m.Images["star"]) != "png" {
		t.Errorf("image not resolved: %v", m.Images)
	}
	if len(m.Sprites) != 1 || m.Sprites[0].ImageKey != "star" || m.Sprites[0].Frames != 3 {
		t.Errorf("sprites = %+v", m.Sprites)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data func(*testing.T) []byte
		want error
	}{
		{
			name: "empty",
			data: func(*testing.T) []byte { return nil },
			want: ErrUnsupportedFormat,
		},
		{
			name: "plain text",
			data: func(*testing.T) []byte { return []byte("<svg></svg>") },
			want: ErrUnsupportedFormat,
		},
		{
			name: "archive without spec",
			data: func(t *testing.T) []byte { return encodeV1(t, "", map[string][]byte{"a.png": {1}}) },
			want: ErrMissingSpec,
		},
		{
			name: "archive with bad spec",
			data: func(t *testing.T) []byte { return encodeV1(t, "{not json", nil) },
			want: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseTruncatedV2(t *testing.T) {
	data := sampleV2(t, 10, 10)
	if _, err := Parse(data[:len(data)/2]); err == nil {
		t.Error("expected an error for truncated data")
	}
}

func TestMovieBytes(t *testing.T) {
	small := &Movie{}
	big := &Movie{Images: map[string][]byte{"a": make([]byte, 1000)}}
	if big.Bytes()-small.Bytes() < 1000 {
		t.Errorf("Bytes() does not account for images: %d vs %d", big.Bytes(), small.Bytes())
	}
}
