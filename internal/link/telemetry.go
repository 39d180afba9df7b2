package link

import (
	"context"
	"time"

	"github.com/shaply/rmibridge/internal/protocol"
)

// StartTelemetryPoll periodically submits read-only Command packets at
// High priority so that fanned-out clients keep seeing fresh position,
// joint-angle, and status telemetry even when no program is executing.
// Grounded in the reference implementation's status-polling task; named
// as a supplemented feature in SPEC_FULL.md since spec.md's prose doesn't
// call it out explicitly.
func (l *Link) StartTelemetryPoll(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !l.Connected() {
					continue
				}
				l.Submit(protocol.FrcReadCartesianPosition{}, protocol.PriorityHigh)
				l.Submit(protocol.FrcReadJointAngles{}, protocol.PriorityHigh)
				l.Submit(protocol.FrcGetStatus{}, protocol.PriorityHigh)
			}
		}
	}()
}
