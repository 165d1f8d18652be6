// Package player orchestrates loading and playback of a single animation.
//
// A Player resolves a source identifier into a decoded Entity through a
// pluggable Decoder and optional Hooks, validates it, and drives a Renderer
// through a five-state machine (idle, loading, playing, paused, stopped).
// Every asynchronous continuation is tagged with a generation Token; only
// continuations presenting the current token are honored, so a newer load
// always supersedes an older one without aborting it.
//
// A Player is not safe for concurrent use. All methods, and every
// continuation handed to collaborators, must run on one control goroutine.
package player
