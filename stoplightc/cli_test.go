package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/davidbalbert/stoplight/light"
)

type fakeClient struct {
	phases      map[string]light.Phase
	shutdown    bool
	waitedFor   light.Phase
	transitions []light.Transition
}

func (c *fakeClient) GetVersion(ctx context.Context) (string, error) {
	return "1.0.0", nil
}

func (c *fakeClient) Shutdown(ctx context.Context) error {
	c.shutdown = true
	return nil
}

func (c *fakeClient) ListLights(ctx context.Context) ([]string, error) {
	return []string{"elm-st", "main-st"}, nil
}

func (c *fakeClient) GetPhase(ctx context.Context, name string) (light.Phase, error) {
	p, ok := c.phases[name]
	if !ok {
		return 0, fmt.Errorf("no such light: %s", name)
	}
	return p, nil
}

func (c *fakeClient) WaitForPhase(ctx context.Context, name string, p light.Phase) (time.Time, error) {
	if _, ok := ctx.Deadline(); !ok {
		return time.Time{}, errors.New("expected a deadline")
	}
	c.waitedFor = p
	return time.Now(), nil
}

func (c *fakeClient) WatchTransitions(ctx context.Context, name string, fn func(light.Transition) error) error {
	for _, t := range c.transitions {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

func newTestCLI() (*CLI, *fakeClient) {
	c := &fakeClient{
		phases: map[string]light.Phase{"main-st": light.Green, "elm-st": light.Red},
		transitions: []light.Transition{
			{Light: "main-st", Seq: 1, Phase: light.Green, Dwell: 4 * time.Second, At: time.Now()},
			{Light: "main-st", Seq: 2, Phase: light.Red, Dwell: 5 * time.Second, At: time.Now()},
		},
	}

	cli := NewCLI()
	registerCommands(cli, c, time.Second)

	return cli, c
}

func TestVersionCommand(t *testing.T) {
	cli, _ := newTestCLI()

	w := &strings.Builder{}
	if err := cli.Run(context.Background(), w, []string{"version"}); err != nil {
		t.Fatal(err)
	}

	if w.String() != "1.0.0\n" {
		t.Fatalf("Unexpected output: %q", w.String())
	}
}

func TestLightsCommand(t *testing.T) {
	cli, _ := newTestCLI()

	w := &strings.Builder{}
	if err := cli.Run(context.Background(), w, []string{"lights"}); err != nil {
		t.Fatal(err)
	}

	want := "LIGHT     PHASE\n" +
		"-------   -----\n" +
		"elm-st    red\n" +
		"main-st   green\n"

	if w.String() != want {
		t.Fatalf("Unexpected output:\n%s\nwant:\n%s", w.String(), want)
	}
}

func TestPhaseCommandColor(t *testing.T) {
	cli, _ := newTestCLI()
	cli.color = true

	w := &strings.Builder{}
	if err := cli.Run(context.Background(), w, []string{"phase", "main-st"}); err != nil {
		t.Fatal(err)
	}

	if w.String() != "\x1b[32mgreen\x1b[0m\n" {
		t.Fatalf("Unexpected output: %q", w.String())
	}
}

func TestPhaseCommandUnknownLight(t *testing.T) {
	cli, _ := newTestCLI()

	w := &strings.Builder{}
	if err := cli.Run(context.Background(), w, []string{"phase", "nowhere"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestWaitCommand(t *testing.T) {
	cli, c := newTestCLI()

	w := &strings.Builder{}
	if err := cli.Run(context.Background(), w, []string{"wait", "main-st"}); err != nil {
		t.Fatal(err)
	}
	if c.waitedFor != light.Green {
		t.Fatalf("expected to wait for green, waited for %v", c.waitedFor)
	}
	if !strings.HasPrefix(w.String(), "main-st is green") {
		t.Fatalf("Unexpected output: %q", w.String())
	}

	if err := cli.Run(context.Background(), w, []string{"wait", "main-st", "red"}); err != nil {
		t.Fatal(err)
	}
	if c.waitedFor != light.Red {
		t.Fatalf("expected to wait for red, waited for %v", c.waitedFor)
	}

	err := cli.Run(context.Background(), w, []string{"wait", "main-st", "amber"})
	if !errors.Is(err, light.ErrUnknownPhase) {
		t.Fatalf("expected ErrUnknownPhase, got %v", err)
	}
}

func TestWatchCommand(t *testing.T) {
	cli, _ := newTestCLI()

	w := &strings.Builder{}
	if err := cli.Run(context.Background(), w, []string{"watch", "main-st"}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(w.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", w.String())
	}

	if !strings.Contains(lines[0], "#1") || !strings.Contains(lines[0], "green after 4s") {
		t.Fatalf("Unexpected first line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "#2") || !strings.Contains(lines[1], "red after 5s") {
		t.Fatalf("Unexpected second line: %q", lines[1])
	}
}

func TestShutdownCommand(t *testing.T) {
	cli, c := newTestCLI()

	w := &strings.Builder{}
	if err := cli.Run(context.Background(), w, []string{"shutdown"}); err != nil {
		t.Fatal(err)
	}

	if !c.shutdown {
		t.Fatal("expected shutdown to be called")
	}
}

func TestUnknownCommandPrintsUsage(t *testing.T) {
	cli, _ := newTestCLI()

	w := &strings.Builder{}
	if err := cli.Run(context.Background(), w, []string{"frobnicate"}); err == nil {
		t.Fatal("expected an error")
	}

	if !strings.Contains(w.String(), "wait <light> [red|green]") {
		t.Fatalf("usage missing wait command:\n%s", w.String())
	}
}

func TestRegisterTwice(t *testing.T) {
	cli, _ := newTestCLI()

	err := cli.Register("version", "", "again", nil)
	if err == nil {
		t.Fatal("expected an error registering a command twice")
	}
}
