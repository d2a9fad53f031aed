//go:build !cgo

package audiocapture

// Open returns ErrUnsupported: PortAudio needs cgo.
func Open(cfg Config) (Source, error) {
	return nil, ErrUnsupported
}
