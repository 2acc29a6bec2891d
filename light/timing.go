package light

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Timing controls how long a light dwells in each phase and how it paces the
// handoff of each new phase.
type Timing struct {
	// CycleMin and CycleMax bound the dwell time. Each dwell is drawn
	// uniformly from the whole milliseconds in [CycleMin, CycleMax].
	CycleMin time.Duration
	CycleMax time.Duration

	// PollInterval is how often the loop checks whether the dwell has elapsed.
	PollInterval time.Duration

	// SendDelay is paused after each flip, before the new phase is sent.
	SendDelay time.Duration
}

var DefaultTiming = Timing{
	CycleMin:     4000 * time.Millisecond,
	CycleMax:     6000 * time.Millisecond,
	PollInterval: 1 * time.Millisecond,
	SendDelay:    100 * time.Millisecond,
}

func (t Timing) Validate() error {
	if t.CycleMin < time.Millisecond {
		return fmt.Errorf("cycle-min must be at least 1ms, got %v", t.CycleMin)
	}

	if t.CycleMax < t.CycleMin {
		return fmt.Errorf("cycle-max (%v) must not be less than cycle-min (%v)", t.CycleMax, t.CycleMin)
	}

	if t.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive, got %v", t.PollInterval)
	}

	if t.SendDelay < 0 {
		return fmt.Errorf("send-delay must not be negative, got %v", t.SendDelay)
	}

	return nil
}

// dwell draws the next cycle duration from r.
func (t Timing) dwell(r *rand.Rand) time.Duration {
	lo := t.CycleMin.Milliseconds()
	hi := t.CycleMax.Milliseconds()

	return time.Duration(lo+r.Int64N(hi-lo+1)) * time.Millisecond
}
