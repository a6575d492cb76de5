package audiosource

import (
	"encoding/binary"
	"io"

	"github.com/kimjaesung/uic751demod/internal/uicerr"
)

// StreamSource reads raw little-endian int16 mono PCM from an
// io.Reader, matching the original implementation's fread loop over
// stdin. Any io.Reader works, so a regular file source falls out of
// the same type.
type StreamSource struct {
	r    io.Reader
	name string
	buf  []byte
}

// NewStreamSource wraps r as a Source. name is used only in error
// messages (e.g. "stdin" or a file path).
func NewStreamSource(r io.Reader, name string) *StreamSource {
	return &StreamSource{r: r, name: name}
}

// Read fills buf with up to len(buf) samples, returning fewer than
// requested (with a nil error) at end of stream, matching fread's
// short-read-on-EOF behaviour.
func (s *StreamSource) Read(buf []int16) (int, error) {
	need := len(buf) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	raw := s.buf[:need]

	n, err := io.ReadFull(s.r, raw)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, &uicerr.InputError{Source: s.name, Err: err}
	}

	samples := n / 2
	for i := 0; i < samples; i++ {
		buf[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return samples, nil
}

// Close is a no-op unless the underlying reader also implements
// io.Closer (e.g. an opened file).
func (s *StreamSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
