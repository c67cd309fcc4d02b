package engagement

import (
	"context"
	"time"

	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/anonto42/engagement/backend/internal/models"
)

// DefaultCounterTimeout bounds a counter delta issued after its record write.
const DefaultCounterTimeout = 5 * time.Second

// counterSync issues counter deltas and turns failures into recorded drift.
type counterSync struct {
	counters CounterAdjuster
	drift    DriftRecorder
	timeout  time.Duration
}

// apply issues deltas for postID in a single store call. The call is detached
// from ctx cancellation: the record write it follows has already committed.
func (s counterSync) apply(ctx context.Context, postID, reason string, deltas ...models.CounterDelta) error {
	timeout := s.timeout
	if timeout <= 0 {
		timeout = DefaultCounterTimeout
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	err := s.counters.AdjustCounters(cctx, postID, deltas...)
	if err == nil {
		return nil
	}

	// cctx may have expired with the failed delta; the drift write gets its own deadline.
	dctx, dcancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer dcancel()

	for _, d := range deltas {
		logs.LogJSON("ERROR", "counter drift", map[string]interface{}{
			"post_id": postID,
			"counter": d.Counter,
			"delta":   d.Delta,
			"reason":  reason,
			"error":   err.Error(),
		})
		if s.drift == nil {
			continue
		}
		entry := &models.DriftEntry{
			PostID:  postID,
			Counter: d.Counter,
			Delta:   d.Delta,
			Reason:  reason,
		}
		if rerr := s.drift.RecordDrift(dctx, entry); rerr != nil {
			logs.LogJSON("ERROR", "failed to record counter drift", map[string]interface{}{
				"post_id": postID,
				"counter": d.Counter,
				"error":   rerr.Error(),
			})
		}
	}
	return &Error{Code: CodeCounterDrift, Op: "adjust_counters", Resource: "post", ID: postID, Err: err}
}
