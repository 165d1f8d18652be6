// Package cache provides the two cache levels used by svgaplay: an in-memory
// LRU (L1) holding decoded entities or raw bytes, and a compressed disk
// cache (L2) holding downloaded animation files across runs. Store combines
// both for downloaded bytes.
package cache
