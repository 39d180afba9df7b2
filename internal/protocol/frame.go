// Package protocol implements the RMI wire format: newline-delimited JSON
// frames exchanged with the robot controller, and the packet envelope
// types those frames carry.
//
// Frame codec (component A). Parses a byte stream into UTF-8 text frames
// separated by the LF byte. A trailing CR before LF is tolerated on input
// and emitted on output, since the robot expects "\r\n" terminators. The
// scanner grows a buffer across reads; partial frames remain buffered
// until a terminator arrives.
package protocol

import (
	"bytes"
	"unicode/utf8"
)

// FrameTerminator is appended to every outbound frame.
const FrameTerminator = "\r\n"

// FrameScanner accumulates bytes from repeated Feed calls and extracts
// complete newline-delimited frames. It has no concept of the underlying
// connection; callers feed it whatever a single Read returned.
type FrameScanner struct {
	buf []byte
}

// NewFrameScanner returns an empty scanner.
func NewFrameScanner() *FrameScanner {
	return &FrameScanner{}
}

// Feed appends newly read bytes and returns every complete frame they
// produced, in order. Non-UTF-8 frames are dropped rather than returned;
// callers that want to observe the drop should check the dropped count.
func (s *FrameScanner) Feed(data []byte) (frames []string, dropped int) {
	s.buf = append(s.buf, data...)

	for {
		idx := bytes.IndexByte(s.buf, '\n')
		if idx < 0 {
			break
		}
		line := s.buf[:idx]
		s.buf = s.buf[idx+1:]

		line = bytes.TrimSuffix(line, []byte{'\r'})

		if !utf8.Valid(line) {
			dropped++
			continue
		}
		frames = append(frames, string(line))
	}

	return frames, dropped
}

// EncodeFrame appends the canonical "\r\n" terminator to a serialized
// envelope, ready to write to the socket.
func EncodeFrame(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+len(FrameTerminator))
	out = append(out, payload...)
	out = append(out, FrameTerminator...)
	return out
}
