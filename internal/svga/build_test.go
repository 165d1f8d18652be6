package svga

import (
	"bytes"
	"math"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zlib"
	"google.golang.org/protobuf/encoding/protowire"
)

type testMovie struct {
	version       string
	width, height float32
	fps, frames   int
	images        map[string][]byte
	sprites       []string
	spriteFrames  int
	audios        []Audio
}

func message(fields ...[]byte) []byte {
	return bytes.Join(fields, nil)
}

func bytesField(num protowire.Number, v []byte) []byte {
	b := protowire.AppendTag(nil, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func varintField(num protowire.Number, v int) []byte {
	b := protowire.AppendTag(nil, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func floatField(num protowire.Number, v float32) []byte {
	b := protowire.AppendTag(nil, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// encodeV2 builds a zlib-compressed MovieEntity.
func encodeV2(t *testing.T, m testMovie) []byte {
	t.Helper()

	var fields [][]byte
	fields = append(fields, bytesField(1, []byte(m.version)))
	fields = append(fields, bytesField(2, message(
		floatField(1, m.width),
		floatField(2, m.height),
		varintField(3, m.fps),
		varintField(4, m.frames),
	)))
	for k, v := range m.images {
		fields = append(fields, bytesField(3, message(bytesField(1, []byte(k)), bytesField(2, v))))
	}
	for _, key := range m.sprites {
		sprite := [][]byte{bytesField(1, []byte(key))}
		for i := 0; i < m.spriteFrames; i++ {
			sprite = append(sprite, bytesField(2, varintField(1, 1)))
		}
		fields = append(fields, bytesField(4, message(sprite...)))
	}
	for _, a := range m.audios {
		fields = append(fields, bytesField(5, message(
			bytesField(1, []byte(a.AudioKey)),
			varintField(2, a.StartFrame),
			varintField(3, a.EndFrame),
			varintField(4, a.StartTime),
			varintField(5, a.TotalTime),
		)))
	}
	// Unknown fields must be skipped.
	fields = append(fields, varintField(99, 7))

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(message(fields...)); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

// encodeV1 builds a 1.x zip archive from a movie.spec document and images.
func encodeV1(t *testing.T, spec string, images map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if spec != "" {
		w, err := zw.Create("movie.spec")
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		w.Write([]byte(spec))
	}
	for name, data := range images {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		w.Write(data)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func sampleV2(t *testing.T, frames, fps int) []byte {
	return encodeV2(t, testMovie{
		version: "2.0.0",
		width:   300, height: 200,
		fps: fps, frames: frames,
		images:       map[string][]byte{"img_1": []byte("png-bytes")},
		sprites:      []string{"img_1"},
		spriteFrames: frames,
	})
}
