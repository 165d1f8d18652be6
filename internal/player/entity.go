package player

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// Entity is a decoded, immutable animation resource.
type Entity interface {
	// Frames returns the number of frames.
	Frames() int
	// FPS returns the frame rate.
	FPS() int
	// Size returns the intrinsic width and height.
	Size() (width, height float64)
}

// Classifier is implemented by entities that carry their own validity
// classification. It is consulted after the built-in checks pass.
type Classifier interface {
	Validity() Validity
}

// SourceIdentifier is implemented by entities that name themselves when
// played directly.
type SourceIdentifier interface {
	SourceID() string
}

// Validity classifies a decoded entity.
type Validity int

const (
	// Valid means the entity can be played.
	Valid Validity = iota
	// ZeroIntrinsicSize means the entity has no drawable area.
	ZeroIntrinsicSize
	// ZeroFrameRate means the entity reports zero frames per second.
	ZeroFrameRate
	// ZeroFrameCount means the entity has no frames.
	ZeroFrameCount
	// OtherInvalid covers every other reason.
	OtherInvalid
)

// String returns the string representation of the classification.
func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case ZeroIntrinsicSize:
		return "zero intrinsic size"
	case ZeroFrameRate:
		return "zero frame rate"
	case ZeroFrameCount:
		return "zero frame count"
	case OtherInvalid:
		return "other invalid"
	default:
		return "unknown"
	}
}

// Validate classifies e. A nil entity is OtherInvalid.
func Validate(e Entity) Validity {
	if isNil(e) {
		return OtherInvalid
	}

	if w, h := e.Size(); w <= 0 || h <= 0 {
		return ZeroIntrinsicSize
	}
	if e.FPS() <= 0 {
		return ZeroFrameRate
	}
	if e.Frames() <= 0 {
		return ZeroFrameCount
	}

	if c, ok := e.(Classifier); ok {
		return c.Validity()
	}
	return Valid
}

// Duration returns the play time of one full cycle of e.
func Duration(e Entity) time.Duration {
	if isNil(e) || e.FPS() <= 0 {
		return 0
	}
	return time.Duration(e.Frames()) * time.Second / time.Duration(e.FPS())
}

// MinFrame returns the first frame index of any entity.
func MinFrame() int {
	return 0
}

// MaxFrame returns the last frame index of e.
func MaxFrame(e Entity) int {
	if isNil(e) {
		return 0
	}
	return max(e.Frames()-1, 0)
}

// entitySource synthesizes the source identifier of a directly supplied
// entity. Reference types are named by address, values by content hash.
func entitySource(e Entity) string {
	if isNil(e) {
		return ""
	}
	if s, ok := e.(SourceIdentifier); ok && s.SourceID() != "" {
		return s.SourceID()
	}

	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("entity://%#x", v.Pointer())
	}

	hash, err := hashstructure.Hash(e, hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Sprintf("entity://%T", e)
	}
	return fmt.Sprintf("entity://%T/%x", e, hash)
}

// sameEntity reports whether a and b are one entity: the same reference for
// pointer-like types, equal values otherwise.
func sameEntity(a, b Entity) bool {
	if isNil(a) || isNil(b) {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if va.Comparable() {
		return a == b
	}
	return entitySource(a) == entitySource(b)
}

func isNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
