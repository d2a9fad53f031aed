//go:build cgo

package audiocapture

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// portaudioSource reads from the default input device through a blocking
// PortAudio stream.
type portaudioSource struct {
	stream *portaudio.Stream
	buf    []float32
	closed bool
}

// Open initializes PortAudio and starts a blocking input stream on the
// default device. The caller owns the source and must Close it.
func Open(cfg Config) (Source, error) {
	cfg = cfg.WithDefaults()

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	buf := make([]float32, cfg.BlockSamples())
	stream, err := portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), cfg.BlockFrames, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open default input: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	return &portaudioSource{stream: stream, buf: buf}, nil
}

func (s *portaudioSource) ReadBlock(dst []float32) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkBlock(dst, len(s.buf)); err != nil {
		return err
	}
	if err := s.stream.Read(); err != nil {
		return fmt.Errorf("read input stream: %w", err)
	}
	copy(dst, s.buf)
	return nil
}

func (s *portaudioSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if stopErr := s.stream.Stop(); stopErr != nil {
		err = fmt.Errorf("stop input stream: %w", stopErr)
	}
	if closeErr := s.stream.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close input stream: %w", closeErr)
	}
	if termErr := portaudio.Terminate(); termErr != nil && err == nil {
		err = fmt.Errorf("terminate portaudio: %w", termErr)
	}
	return err
}
