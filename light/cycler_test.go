package light

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/davidbalbert/stoplight/sync"
)

var fastTiming = Timing{
	CycleMin:     40 * time.Millisecond,
	CycleMax:     60 * time.Millisecond,
	PollInterval: time.Millisecond,
	SendDelay:    5 * time.Millisecond,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFastCycler(t *testing.T, opts ...Option) *Cycler {
	t.Helper()

	opts = append([]Option{WithTiming(fastTiming), WithLogger(quietLogger())}, opts...)
	c, err := New("test", opts...)
	if err != nil {
		t.Fatal(err)
	}

	return c
}

// publish does what a flip does, without the timing loop.
func publish(c *Cycler, p Phase) {
	c.phase.Store(uint32(p))
	c.queue.Send(p)
}

func TestNewStartsRed(t *testing.T) {
	c := newFastCycler(t)

	if c.CurrentPhase() != Red {
		t.Fatalf("expected red, got %v", c.CurrentPhase())
	}

	if c.pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", c.pending())
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := map[string][]Option{
		"zero timing":      {WithTiming(Timing{})},
		"max below min":    {WithTiming(Timing{CycleMin: 50 * time.Millisecond, CycleMax: 40 * time.Millisecond, PollInterval: time.Millisecond})},
		"no poll interval": {WithTiming(Timing{CycleMin: 40 * time.Millisecond, CycleMax: 60 * time.Millisecond})},
		"unknown initial":  {WithInitialPhase(Phase(7))},
	}

	for name, opts := range tests {
		if _, err := New("test", opts...); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestWaitForGreenIgnoresRed(t *testing.T) {
	c := newFastCycler(t)

	done := make(chan struct{})
	go func() {
		c.WaitForGreen()
		close(done)
	}()

	publish(c, Red)

	select {
	case <-done:
		t.Fatal("WaitForGreen returned on red")
	case <-time.After(30 * time.Millisecond):
	}

	publish(c, Green)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForGreen did not return on green")
	}
}

func TestWaitForContextCancel(t *testing.T) {
	c := newFastCycler(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := c.WaitForGreenContext(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWaitForRed(t *testing.T) {
	c := newFastCycler(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()

	// The first flip is to green, so red can only arrive on the second.
	if err := c.WaitFor(waitCtx, Red); err != nil {
		t.Fatal(err)
	}

	if c.CurrentPhase() != Red {
		t.Fatalf("expected red after WaitFor(Red), got %v", c.CurrentPhase())
	}
}

func TestTransitionsAlternate(t *testing.T) {
	c := newFastCycler(t, WithOrder(sync.FIFO))
	tok := c.Register()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() {
		stopped <- c.Run(ctx)
	}()

	awaitCtx, awaitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer awaitCancel()

	want := Green
	for i := 1; i <= 8; i++ {
		tr, ok := c.AwaitTransition(awaitCtx, tok)
		if !ok {
			t.Fatalf("transition %d never arrived", i)
		}

		if tr.Phase != want {
			t.Fatalf("transition %d: got %v, want %v", i, tr.Phase, want)
		}

		if tr.Seq != uint64(i) {
			t.Fatalf("transition %d: got seq %d", i, tr.Seq)
		}

		if tr.Light != "test" {
			t.Fatalf("transition %d: got light %q", i, tr.Light)
		}

		slack := 30 * time.Millisecond
		if tr.Dwell < fastTiming.CycleMin || tr.Dwell > fastTiming.CycleMax+slack {
			t.Fatalf("transition %d: dwell %v outside [%v, %v]", i, tr.Dwell, fastTiming.CycleMin, fastTiming.CycleMax+slack)
		}

		want = want.Next()
	}

	cancel()
	if err := <-stopped; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	// Everything sent is still pending since nobody received. In FIFO order
	// it must read back as a strict alternation starting with green.
	want = Green
	n := 0
	for {
		p, ok := c.queue.TryReceive()
		if !ok {
			break
		}
		if p != want {
			t.Fatalf("queued phase %d: got %v, want %v", n, p, want)
		}
		want = want.Next()
		n++
	}

	if n < 8 {
		t.Fatalf("expected at least 8 queued phases, got %d", n)
	}
}

func TestWaitForGreenSkipsStaleGreen(t *testing.T) {
	c := newFastCycler(t)

	// A green and then a red nobody received. The light is red.
	publish(c, Green)
	publish(c, Red)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := c.WaitForGreenContext(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded on a red light, got %v", err)
	}

	if c.pending() != 0 {
		t.Fatalf("expected stale phases to be drained, got %d", c.pending())
	}

	done := make(chan error, 1)
	go func() {
		done <- c.WaitForGreenContext(context.Background())
	}()

	publish(c, Green)

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForGreenContext did not return on green")
	}
}

func TestWaitForGreenAfterIdleCycles(t *testing.T) {
	c := newFastCycler(t)
	tok := c.Register()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	awaitCtx, awaitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer awaitCancel()

	// Let four flips go by unreceived: green, red, green, red.
	var tr Transition
	for i := 0; i < 4; i++ {
		var ok bool
		tr, ok = c.AwaitTransition(awaitCtx, tok)
		if !ok {
			t.Fatalf("transition %d never arrived", i+1)
		}
	}

	if tr.Phase != Red {
		t.Fatalf("expected the fourth flip to be red, got %v", tr.Phase)
	}

	start := time.Now()
	if err := c.WaitForGreenContext(awaitCtx); err != nil {
		t.Fatal(err)
	}
	waited := time.Since(start)

	if c.CurrentPhase() != Green {
		t.Fatalf("expected green after WaitForGreenContext, got %v", c.CurrentPhase())
	}

	next, ok := c.AwaitTransition(awaitCtx, tok)
	if !ok {
		t.Fatal("fifth transition never arrived")
	}

	if next.Seq != 5 || next.Phase != Green {
		t.Fatalf("expected to wake on transition 5 to green, got %d to %v", next.Seq, next.Phase)
	}

	// The rest of a 40-60ms red dwell still had to pass.
	if waited < 20*time.Millisecond {
		t.Fatalf("returned after %v, before the light turned green", waited)
	}
}

func TestCurrentPhaseSampling(t *testing.T) {
	c := newFastCycler(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	window := 600 * time.Millisecond
	deadline := time.Now().Add(window)

	last := c.CurrentPhase()
	flips := 0
	for time.Now().Before(deadline) {
		p := c.CurrentPhase()
		if p != Red && p != Green {
			t.Fatalf("sampled invalid phase %d", p)
		}
		if p != last {
			flips++
			last = p
		}
		time.Sleep(time.Millisecond)
	}

	// Each cycle takes 40-60ms plus pacing, so 600ms holds roughly 9-14 flips.
	if flips < 3 || flips > 16 {
		t.Fatalf("saw %d flips in %v", flips, window)
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	c := newFastCycler(t)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() {
		stopped <- c.Run(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestInitialPhaseOption(t *testing.T) {
	c := newFastCycler(t, WithInitialPhase(Green))

	if c.CurrentPhase() != Green {
		t.Fatalf("expected green, got %v", c.CurrentPhase())
	}
}

func TestStartThenWaitForGreen(t *testing.T) {
	if testing.Short() {
		t.Skip("runs at real-world timing")
	}

	c, err := New("main-st", WithLogger(quietLogger()), WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatal(err)
	}

	if c.CurrentPhase() != Red {
		t.Fatalf("expected red, got %v", c.CurrentPhase())
	}

	c.Start()

	done := make(chan struct{})
	go func() {
		c.WaitForGreen()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(6500 * time.Millisecond):
		t.Fatal("WaitForGreen did not return within 6.5s")
	}

	if c.CurrentPhase() != Green {
		t.Fatalf("expected green after WaitForGreen, got %v", c.CurrentPhase())
	}
}
