// Package errs defines the error taxonomy of the RMI bridge.
//
// Errors are grouped by functional area, mirroring the way the coordination
// kernel reports failures to callers: per-packet errors to the originating
// session, link-level disconnects broadcast to every session, and parse
// errors surfaced as protocol-level reports rather than link teardown.
package errs

import (
	"errors"
	"fmt"
)

// Robot link errors.
//
// These relate to establishing and maintaining the TCP session with the
// robot controller.

// ErrQueueFull indicates the link's submission channel is saturated.
// Surfaced to the caller; never dropped silently.
var ErrQueueFull = errors.New("submission queue is full")

// ErrDisconnected indicates the robot link closed mid-operation.
var ErrDisconnected = errors.New("robot link disconnected")

// ErrFailedToSend indicates a write timeout or socket error while sending
// to the robot. Does not by itself tear down the link unless repeated.
var ErrFailedToSend = errors.New("failed to send packet to robot")

// ErrFailedToReceive indicates a read error on the robot socket. Tears
// down the link.
var ErrFailedToReceive = errors.New("failed to receive from robot")

// ErrSerialization indicates an outbound packet could not be encoded.
var ErrSerialization = errors.New("failed to serialize outbound packet")

// ErrUnrecognizedPacket indicates a handshake reply was semantically
// wrong, e.g. missing the new port number. Fatal to the connect attempt.
var ErrUnrecognizedPacket = errors.New("unrecognized or malformed packet")

// Control-lease errors.

// ErrControlDenied indicates a request for the lease while another holder
// is active.
var ErrControlDenied = errors.New("control denied: another session holds the lease")

// ErrControlLost indicates the lease was revoked out from under a holder
// by timeout or disconnect.
var ErrControlLost = errors.New("control lost")

// General errors.

// ErrValidation indicates a request was well-formed but semantically
// invalid (missing program, constraint violation from storage, etc.).
var ErrValidation = errors.New("validation error")

// ErrNotFound indicates a requested resource does not exist in storage.
var ErrNotFound = errors.New("not found")

// HandshakeStage names the establishment-protocol step that failed.
type HandshakeStage string

const (
	StageDialControl    HandshakeStage = "dial-control"
	StageSerialize      HandshakeStage = "serialize"
	StageSend           HandshakeStage = "send"
	StageReceive        HandshakeStage = "receive"
	StageParse          HandshakeStage = "parse"
	StageUnexpectedReply HandshakeStage = "unexpected-reply"
	StageDialMotion     HandshakeStage = "dial-motion"
)

// HandshakeError reports failure to establish the motion-channel session.
type HandshakeError struct {
	Stage HandshakeStage
	Cause error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("handshake failed at %s: %v", e.Stage, e.Cause)
}

func (e *HandshakeError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrHandshakeFailed) match any *HandshakeError,
// regardless of stage or cause.
func (e *HandshakeError) Is(target error) bool {
	return target == ErrHandshakeFailed
}

// ErrHandshakeFailed is the sentinel kind matched by HandshakeError.Is.
var ErrHandshakeFailed = errors.New("handshake failed")

// DeniedError reports that a control-lease request was refused because
// another session already holds it.
type DeniedError struct {
	Holder string
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("control denied (held by %s): %s", e.Holder, e.Reason)
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrControlDenied
}

// ParseError reports a frame the codec or link could not decode. The raw
// frame is retained so it can be forwarded to clients for debugging; per
// spec this error never tears down the link.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v (raw=%q)", e.Cause, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Cause }
