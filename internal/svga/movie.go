// Package svga reads SVGA animation files and decodes them into entities
// the player can drive.
//
// Two containers exist in the wild: 1.x files are zip archives holding a
// movie.spec JSON document next to the images, 2.x files are a
// zlib-compressed protobuf MovieEntity message.
package svga

import "github.com/dgnsrekt/svgaplay/internal/player"

// Movie is a decoded SVGA file.
type Movie struct {
	Version    string
	Width      float64
	Height     float64
	FrameRate  int
	FrameCount int

	Images  map[string][]byte
	Sprites []Sprite
	Audios  []Audio

	// Origin names where the movie came from. Players use it as the source
	// identifier when the movie is played directly.
	Origin string
}

// Sprite is one animated layer.
type Sprite struct {
	ImageKey string
	MatteKey string
	Frames   int
}

// Audio is a sound clip scheduled on the timeline.
type Audio struct {
	AudioKey   string
	StartFrame int
	EndFrame   int
	StartTime  int
	TotalTime  int
}

func (m *Movie) Frames() int { return m.FrameCount }
func (m *Movie) FPS() int    { return m.FrameRate }

func (m *Movie) Size() (float64, float64) { return m.Width, m.Height }

// SourceID implements player.SourceIdentifier.
func (m *Movie) SourceID() string { return m.Origin }

// Bytes approximates the memory held by the movie.
func (m *Movie) Bytes() int64 {
	n := int64(256 + 64*len(m.Sprites) + 32*len(m.Audios))
	for k, v := range m.Images {
		n += int64(len(k) + len(v))
	}
	return n
}

var (
	_ player.Entity           = (*Movie)(nil)
	_ player.SourceIdentifier = (*Movie)(nil)
)
