package vu

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestNewRollingBuffer(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		channels int
		wantErr  error
	}{
		{"stereo", 4, 2, nil},
		{"mono", 3, 1, nil},
		{"zero_capacity", 0, 2, ErrInvalidCapacity},
		{"partial_frame", 3, 2, ErrInvalidCapacity},
		{"zero_channels", 4, 0, ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb, err := NewRollingBuffer(tt.capacity, tt.channels)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewRollingBuffer(%d, %d) error = %v, want %v", tt.capacity, tt.channels, err, tt.wantErr)
			}
			if err == nil && rb.Cap() != tt.capacity {
				t.Errorf("Cap() = %d, want %d", rb.Cap(), tt.capacity)
			}
		})
	}
}

func TestAppendCapacityInvariant(t *testing.T) {
	const capacity = 8
	rb, err := NewRollingBuffer(capacity, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}

	total := 0
	for _, n := range []int{2, 4, 6, 0, 8, 2, 10, 16} {
		if err := rb.Append(make([]float32, n)); err != nil {
			t.Fatalf("Append(%d): %v", n, err)
		}
		total += n
		want := min(capacity, total)
		if got := rb.Len(); got != want {
			t.Fatalf("after %d samples Len() = %d, want %d", total, got, want)
		}
		if rb.Len()%2 != 0 {
			t.Fatalf("Len() = %d is not a whole number of frames", rb.Len())
		}
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	const capacity = 10
	rb, err := NewRollingBuffer(capacity, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}

	var all []float32
	next := float32(0)
	for i := 0; i < 40; i++ {
		block := make([]float32, 2*(i%5+1))
		for j := range block {
			block[j] = next
			next++
		}
		all = append(all, block...)
		if err := rb.Append(block); err != nil {
			t.Fatalf("Append: %v", err)
		}

		want := all[max(0, len(all)-capacity):]
		if got := rb.Snapshot(); !slices.Equal(got, want) {
			t.Fatalf("after %d samples Snapshot() = %v, want %v", len(all), got, want)
		}
	}
}

func TestAppendOversizedBlock(t *testing.T) {
	rb, err := NewRollingBuffer(4, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}
	if err := rb.Append([]float32{9, 9}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := rb.Append([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	want := []float32{7, 8, 9, 10}
	if got := rb.Snapshot(); !slices.Equal(got, want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
}

func TestAppendEvictsWholeFrames(t *testing.T) {
	rb, err := NewRollingBuffer(4, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}
	if err := rb.Append([]float32{1, 1, 0, 0}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := rb.Append([]float32{0, 0, 0, 0}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	snap := rb.Snapshot()
	if want := []float32{0, 0, 0, 0}; !slices.Equal(snap, want) {
		t.Fatalf("Snapshot() = %v, want %v", snap, want)
	}

	s := DefaultScale()
	if got := ChannelPower(snap, 2, 0); got != 0 {
		t.Errorf("ChannelPower(left) = %v, want 0", got)
	}
	if got := s.Angles(snap)[0]; got != -s.Range {
		t.Errorf("left angle = %v, want %v", got, -s.Range)
	}
}

func TestAppendMisaligned(t *testing.T) {
	rb, err := NewRollingBuffer(6, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}
	if err := rb.Append([]float32{1, 2}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := rb.Append([]float32{3, 4, 5}); !errors.Is(err, ErrMisaligned) {
		t.Fatalf("Append(odd) error = %v, want ErrMisaligned", err)
	}
	if got := rb.Snapshot(); !slices.Equal(got, []float32{1, 2}) {
		t.Fatalf("rejected append changed buffer: %v", got)
	}
}

func TestSnapshotIdempotentAndIsolated(t *testing.T) {
	rb, err := NewRollingBuffer(6, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}
	if err := rb.Append([]float32{1, 2, 3, 4}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	first := rb.Snapshot()
	second := rb.Snapshot()
	if !slices.Equal(first, second) {
		t.Fatalf("Snapshot() not idempotent: %v vs %v", first, second)
	}

	first[0] = 42
	if got := rb.Snapshot(); got[0] != 1 {
		t.Fatalf("mutating a snapshot leaked into the buffer: %v", got)
	}
}

func TestSnapshotIntoReusesCapacity(t *testing.T) {
	rb, err := NewRollingBuffer(4, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}
	if err := rb.Append([]float32{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	dst := make([]float32, 0, 16)
	got := rb.SnapshotInto(dst)
	if !slices.Equal(got, []float32{3, 4, 5, 6}) {
		t.Fatalf("SnapshotInto() = %v", got)
	}
	if &got[0] != &dst[:1][0] {
		t.Error("SnapshotInto allocated although dst had room")
	}
}

func TestReset(t *testing.T) {
	rb, err := NewRollingBuffer(4, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}
	_ = rb.Append([]float32{1, 2})
	rb.Reset()
	if rb.Len() != 0 || len(rb.Snapshot()) != 0 {
		t.Fatalf("Reset left %d samples", rb.Len())
	}
}

// Every block fills the buffer with one value, so any snapshot taken between
// appends must be empty or uniform. A mixed snapshot means a torn write.
func TestConcurrentAppendSnapshot(t *testing.T) {
	const capacity = 64
	rb, err := NewRollingBuffer(capacity, 2)
	if err != nil {
		t.Fatalf("NewRollingBuffer: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		block := make([]float32, capacity)
		for k := 1; k <= 2000; k++ {
			for i := range block {
				block[i] = float32(k)
			}
			if err := rb.Append(block); err != nil {
				t.Errorf("Append: %v", err)
				return
			}
		}
	}()

	var dst []float32
	for i := 0; i < 2000; i++ {
		dst = rb.SnapshotInto(dst)
		for _, v := range dst {
			if v != dst[0] {
				t.Fatalf("torn snapshot: %v", dst)
			}
		}
	}
	wg.Wait()
}
