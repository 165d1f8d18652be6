package svga

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zlib"
	"google.golang.org/protobuf/encoding/protowire"
)

// Parse errors.
var (
	// ErrUnsupportedFormat is returned for data that is neither container.
	ErrUnsupportedFormat = errors.New("unsupported svga container")

	// ErrMissingSpec is returned for 1.x archives without movie.spec.
	ErrMissingSpec = errors.New("movie.spec not found")

	// ErrMalformed is returned when the movie description cannot be read.
	ErrMalformed = errors.New("malformed movie")
)

// maxInflated bounds the decompressed size of a 2.x file.
const maxInflated = 256 << 20

var zipMagic = []byte("PK\x03\x04")

// Parse decodes an SVGA file of either container version.
func Parse(data []byte) (*Movie, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return parseArchive(data)
	case len(data) >= 2 && data[0] == 0x78:
		return parseCompressed(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseCompressed(data []byte) (*Movie, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, maxInflated+1))
	if err != nil {
		return nil, fmt.Errorf("inflate movie: %w", err)
	}
	if len(raw) > maxInflated {
		return nil, fmt.Errorf("%w: inflated movie exceeds %d bytes", ErrMalformed, maxInflated)
	}

	m := &Movie{Images: map[string][]byte{}}
	if err := readMovieEntity(raw, m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if m.Version == "" {
		m.Version = "2.0"
	}
	return m, nil
}

// walk calls fn for every field of a protobuf message. fn receives the raw
// field value: the varint, the fixed32 bits, or the length-delimited bytes.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, v uint64, bs []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		var v uint64
		var bs []byte
		switch typ {
		case protowire.VarintType:
			v, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			var u uint32
			u, n = protowire.ConsumeFixed32(b)
			v = uint64(u)
		case protowire.Fixed64Type:
			v, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			bs, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(num, typ, v, bs); err != nil {
			return err
		}
	}
	return nil
}

// MovieEntity: 1 version, 2 params, 3 images, 4 sprites, 5 audios.
func readMovieEntity(b []byte, m *Movie) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, _ uint64, bs []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			m.Version = string(bs)
		case 2:
			return readParams(bs, m)
		case 3:
			return readImage(bs, m)
		case 4:
			s, err := readSprite(bs)
			if err != nil {
				return err
			}
			m.Sprites = append(m.Sprites, s)
		case 5:
			a, err := readAudio(bs)
			if err != nil {
				return err
			}
			m.Audios = append(m.Audios, a)
		}
		return nil
	})
}

// MovieParams: 1 viewBoxWidth, 2 viewBoxHeight, 3 fps, 4 frames.
func readParams(b []byte, m *Movie) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v uint64, _ []byte) error {
		switch {
		case num == 1 && typ == protowire.Fixed32Type:
			m.Width = float64(math.Float32frombits(uint32(v)))
		case num == 2 && typ == protowire.Fixed32Type:
			m.Height = float64(math.Float32frombits(uint32(v)))
		case num == 3 && typ == protowire.VarintType:
			m.FrameRate = int(int32(v))
		case num == 4 && typ == protowire.VarintType:
			m.FrameCount = int(int32(v))
		}
		return nil
	})
}

// map<string, bytes> entry: 1 key, 2 value.
func readImage(b []byte, m *Movie) error {
	var key string
	var value []byte
	err := walk(b, func(num protowire.Number, typ protowire.Type, _ uint64, bs []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			key = string(bs)
		case 2:
			value = append([]byte(nil), bs...)
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.Images[key] = value
	return nil
}

// SpriteEntity: 1 imageKey, 2 frames, 3 matteKey.
func readSprite(b []byte) (Sprite, error) {
	var s Sprite
	err := walk(b, func(num protowire.Number, typ protowire.Type, _ uint64, bs []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case 1:
			s.ImageKey = string(bs)
		case 2:
			s.Frames++
		case 3:
			s.MatteKey = string(bs)
		}
		return nil
	})
	return s, err
}

// AudioEntity: 1 audioKey, 2 startFrame, 3 endFrame, 4 startTime, 5 totalTime.
func readAudio(b []byte) (Audio, error) {
	var a Audio
	err := walk(b, func(num protowire.Number, typ protowire.Type, v uint64, bs []byte) error {
		switch {
		case num == 1 && typ == protowire.BytesType:
			a.AudioKey = string(bs)
		case typ != protowire.VarintType:
		case num == 2:
			a.StartFrame = int(int32(v))
		case num == 3:
			a.EndFrame = int(int32(v))
		case num == 4:
			a.StartTime = int(int32(v))
		case num == 5:
			a.TotalTime = int(int32(v))
		}
		return nil
	})
	return a, err
}

// movieSpec is the movie.spec document of 1.x archives.
type movieSpec struct {
	Ver   string `json:"ver"`
	Movie struct {
		ViewBox struct {
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		} `json:"viewBox"`
		FPS    int `json:"fps"`
		Frames int `json:"frames"`
	} `json:"movie"`
	Images  map[string]string `json:"images"`
	Sprites []struct {
		ImageKey string            `json:"imageKey"`
		Frames   []json.RawMessage `json:"frames"`
	} `json:"sprites"`
}

func parseArchive(data []byte) (*Movie, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[path.Base(f.Name)] = f
	}

	specFile, ok := files["movie.spec"]
	if !ok {
		return nil, ErrMissingSpec
	}
	raw, err := readZipFile(specFile)
	if err != nil {
		return nil, err
	}

	var spec movieSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	m := &Movie{
		Version:    spec.Ver,
		Width:      spec.Movie.ViewBox.Width,
		Height:     spec.Movie.ViewBox.Height,
		FrameRate:  spec.Movie.FPS,
		FrameCount: spec.Movie.Frames,
		Images:     make(map[string][]byte, len(spec.Images)),
	}
	if m.Version == "" {
		m.Version = "1.0"
	}

	for key, name := range spec.Images {
		f, ok := files[name+".png"]
		if !ok {
			f, ok = files[name]
		}
		if !ok {
			continue
		}
		img, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		m.Images[key] = img
	}

	for _, s := range spec.Sprites {
		m.Sprites = append(m.Sprites, Sprite{
			ImageKey: strings.TrimSuffix(s.ImageKey, ".png"),
			Frames:   len(s.Frames),
		})
	}
	return m, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxInflated))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}
