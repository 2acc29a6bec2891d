package light

import (
	"context"
	cryptorand "crypto/rand"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/davidbalbert/stoplight/sync"
)

// Transition describes one phase flip.
type Transition struct {
	Light string
	Seq   uint64
	Phase Phase
	Dwell time.Duration // time spent in the previous phase
	At    time.Time
}

type Option func(*Cycler)

func WithTiming(t Timing) Option {
	return func(c *Cycler) {
		c.timing = t
	}
}

func WithOrder(o sync.Order) Option {
	return func(c *Cycler) {
		c.order = o
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cycler) {
		c.log = l
	}
}

// WithRand replaces the entropy-seeded source. Only the cycling goroutine
// uses r.
func WithRand(r *rand.Rand) Option {
	return func(c *Cycler) {
		c.rng = r
	}
}

func WithInitialPhase(p Phase) Option {
	return func(c *Cycler) {
		c.initial = p
	}
}

// Cycler is a traffic light that flips between Red and Green on a randomized
// interval. Each flip is handed to waiters through a blocking queue.
//
// Start (or Run) must be called at most once per Cycler. Calling it twice runs
// two competing loops.
type Cycler struct {
	name    string
	timing  Timing
	order   sync.Order
	initial Phase
	log     *slog.Logger

	phase atomic.Uint32
	queue *sync.Queue[Phase]

	// owned by the cycling goroutine
	rng *rand.Rand
	seq uint64

	transitions *sync.QueuedNotifier[Transition]
}

// New returns a stopped light in its initial phase, Red unless
// WithInitialPhase says otherwise.
func New(name string, opts ...Option) (*Cycler, error) {
	c := &Cycler{
		name:        name,
		timing:      DefaultTiming,
		order:       sync.LIFO,
		initial:     Red,
		log:         slog.Default(),
		transitions: sync.NewQueuedNotifier[Transition](),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.timing.Validate(); err != nil {
		return nil, fmt.Errorf("light %s: %w", name, err)
	}

	if c.initial != Red && c.initial != Green {
		return nil, fmt.Errorf("light %s: %w: %d", name, ErrUnknownPhase, c.initial)
	}

	if c.rng == nil {
		c.rng = newRand()
	}

	c.phase.Store(uint32(c.initial))
	c.queue = sync.NewQueue[Phase](c.order)

	return c, nil
}

func newRand() *rand.Rand {
	var seed [32]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("light: failed to seed random source: %v", err))
	}

	return rand.New(rand.NewChaCha8(seed))
}

func (c *Cycler) Name() string {
	return c.name
}

func (c *Cycler) Timing() Timing {
	return c.timing
}

// CurrentPhase returns the phase most recently flipped to. It doesn't wait on
// the queue, so it may lead the last value a waiter has received by one
// in-flight transition.
func (c *Cycler) CurrentPhase() Phase {
	return Phase(c.phase.Load())
}

// pending returns the number of phases sent but not yet received.
func (c *Cycler) pending() int {
	return c.queue.Len()
}

// Start runs the cycling loop on a new goroutine and returns immediately. The
// loop runs for the life of the process.
func (c *Cycler) Start() {
	go c.Run(context.Background())
}

// Run cycles the light until ctx is done. It always returns nil.
func (c *Cycler) Run(ctx context.Context) error {
	c.log.Info("light started", "light", c.name, "phase", c.CurrentPhase())

	ticker := time.NewTicker(c.timing.PollInterval)
	defer ticker.Stop()

	start := time.Now()
	dwell := c.timing.dwell(c.rng)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("light stopped", "light", c.name, "phase", c.CurrentPhase(), "pending", c.pending())
			return nil
		case now := <-ticker.C:
			if now.Sub(start) < dwell {
				continue
			}
		}

		c.flip(time.Since(start))

		start = time.Now()
		dwell = c.timing.dwell(c.rng)
	}
}

// flip toggles the phase and hands the new one to the queue. The send always
// follows the store, even if the loop is being cancelled.
func (c *Cycler) flip(elapsed time.Duration) {
	next := c.CurrentPhase().Next()
	c.phase.Store(uint32(next))

	if c.timing.SendDelay > 0 {
		time.Sleep(c.timing.SendDelay)
	}
	c.queue.Send(next)

	c.seq++
	c.transitions.NotifyChange(Transition{
		Light: c.name,
		Seq:   c.seq,
		Phase: next,
		Dwell: elapsed,
		At:    time.Now(),
	})

	c.log.Debug("phase changed", "light", c.name, "phase", next, "dwell", elapsed)
}

// WaitForGreen blocks until a Green phase is received from the queue while the
// light is green. Red phases, and greens left over from a cycle that has
// already turned red, are discarded. If the light was never started it blocks
// forever.
func (c *Cycler) WaitForGreen() {
	for {
		if c.current(c.queue.Receive(), Green) {
			return
		}
	}
}

func (c *Cycler) WaitForGreenContext(ctx context.Context) error {
	return c.WaitFor(ctx, Green)
}

// WaitFor receives phases from the queue until it gets p while the light is
// showing p, or ctx is done.
func (c *Cycler) WaitFor(ctx context.Context, p Phase) error {
	for {
		v, err := c.queue.ReceiveContext(ctx)
		if err != nil {
			return err
		}

		if c.current(v, p) {
			return nil
		}
	}
}

// current reports whether v, taken from the queue, is p and still the light's
// phase. Phases nobody received pile up, so v may be stale.
func (c *Cycler) current(v, p Phase) bool {
	return v == p && c.CurrentPhase() == p
}

// Register returns a token that sees every transition from now on, without
// taking anything from the queue WaitForGreen reads.
func (c *Cycler) Register() sync.Token {
	return c.transitions.Register()
}

func (c *Cycler) Unregister(t sync.Token) {
	c.transitions.Unregister(t)
}

func (c *Cycler) AwaitTransition(ctx context.Context, t sync.Token) (Transition, bool) {
	return c.transitions.AwaitChange(ctx, t)
}
