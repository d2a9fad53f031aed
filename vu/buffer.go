// Package vu implements the loudness core of the meter: a bounded rolling
// sample history shared between the capture and render goroutines, and the
// pure conversion from that history to needle angles.
package vu

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrInvalidCapacity is returned when a buffer cannot hold whole frames.
var ErrInvalidCapacity = errors.New("vu: capacity must be a positive multiple of the channel count")

// ErrMisaligned is returned when a block does not contain whole frames.
var ErrMisaligned = errors.New("vu: block is not aligned to the channel count")

// RollingBuffer keeps the most recent Cap() interleaved samples.
// Append and Snapshot take the same lock for their whole duration, so a reader
// sees either the state before an append or the state after it.
type RollingBuffer struct {
	mu       sync.Mutex
	data     []float32
	writePos int
	size     int
	filled   int
	channels int
}

// NewRollingBuffer creates a buffer holding capacity interleaved samples.
func NewRollingBuffer(capacity, channels int) (*RollingBuffer, error) {
	if channels <= 0 || capacity <= 0 || capacity%channels != 0 {
		return nil, fmt.Errorf("%w: capacity=%d channels=%d", ErrInvalidCapacity, capacity, channels)
	}
	return &RollingBuffer{
		data:     make([]float32, capacity),
		size:     capacity,
		channels: channels,
	}, nil
}

// Append adds block after the newest sample, evicting the oldest frames once
// the buffer is full. Blocks that are not a whole number of frames are
// rejected and leave the buffer untouched.
func (rb *RollingBuffer) Append(block []float32) error {
	if len(block)%rb.channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrMisaligned, len(block), rb.channels)
	}
	if len(block) == 0 {
		return nil
	}
	// Only the tail of an oversized block can survive.
	if len(block) > rb.size {
		block = block[len(block)-rb.size:]
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := copy(rb.data[rb.writePos:], block)
	copy(rb.data, block[n:])
	rb.writePos = (rb.writePos + len(block)) % rb.size
	rb.filled = min(rb.filled+len(block), rb.size)
	return nil
}

// Snapshot returns a copy of the buffered samples, oldest first.
func (rb *RollingBuffer) Snapshot() []float32 {
	return rb.SnapshotInto(nil)
}

// SnapshotInto is like Snapshot but reuses dst's backing array when it is
// large enough. The returned slice is owned by the caller.
func (rb *RollingBuffer) SnapshotInto(dst []float32) []float32 {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	dst = slices.Grow(dst[:0], rb.filled)[:rb.filled]
	start := (rb.writePos - rb.filled + rb.size) % rb.size
	n := copy(dst, rb.data[start:min(start+rb.filled, rb.size)])
	copy(dst[n:], rb.data[:rb.filled-n])
	return dst
}

// Len returns the number of buffered samples.
func (rb *RollingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.filled
}

// Cap returns the fixed capacity in samples.
func (rb *RollingBuffer) Cap() int {
	return rb.size
}

// Channels returns the interleaving factor.
func (rb *RollingBuffer) Channels() int {
	return rb.channels
}

// Reset empties the buffer.
func (rb *RollingBuffer) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.writePos = 0
	rb.filled = 0
}
