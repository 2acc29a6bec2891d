package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/davidbalbert/stoplight/light"
)

// client is the part of *api.Client the commands use.
type client interface {
	GetVersion(ctx context.Context) (string, error)
	Shutdown(ctx context.Context) error
	ListLights(ctx context.Context) ([]string, error)
	GetPhase(ctx context.Context, name string) (light.Phase, error)
	WaitForPhase(ctx context.Context, name string, p light.Phase) (time.Time, error)
	WatchTransitions(ctx context.Context, name string, fn func(light.Transition) error) error
}

func registerCommands(cli *CLI, c client, waitTimeout time.Duration) {
	cli.MustRegister("version", "", "Show stoplightd version", func(ctx context.Context, w io.Writer, args []string) error {
		version, err := c.GetVersion(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\n", version)

		return nil
	})

	cli.MustRegister("shutdown", "", "Shut down stoplightd", func(ctx context.Context, w io.Writer, args []string) error {
		return c.Shutdown(ctx)
	})

	cli.MustRegister("lights", "", "List lights and their current phase", func(ctx context.Context, w io.Writer, args []string) error {
		names, err := c.ListLights(ctx)
		if err != nil {
			return err
		}

		phases := make(map[string]light.Phase, len(names))
		for _, name := range names {
			p, err := c.GetPhase(ctx, name)
			if err != nil {
				return err
			}
			phases[name] = p
		}

		// Colour codes would throw off column widths, so pad first.
		rows, err := tabulate(names, []string{"LIGHT", "PHASE"}, func(name string) []string {
			return []string{name, phases[name].String()}
		})
		if err != nil {
			return err
		}

		for i, row := range rows {
			row = strings.TrimRight(row, " ")
			if i >= 2 {
				p := phases[names[i-2]]
				row = strings.TrimSuffix(row, p.String()) + cli.phase(p)
			}
			fmt.Fprintln(w, row)
		}

		return nil
	})

	cli.MustRegister("phase", "<light>", "Show the current phase of a light", func(ctx context.Context, w io.Writer, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: phase <light>")
		}

		p, err := c.GetPhase(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\n", cli.phase(p))

		return nil
	})

	cli.MustRegister("wait", "<light> [red|green]", "Block until a light turns green (or red)", func(ctx context.Context, w io.Writer, args []string) error {
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: wait <light> [red|green]")
		}

		p := light.Green
		if len(args) == 2 {
			var err error
			p, err = light.ParsePhase(args[1])
			if err != nil {
				return err
			}
		}

		if waitTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, waitTimeout)
			defer cancel()
		}

		start := time.Now()
		at, err := c.WaitForPhase(ctx, args[0], p)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s is %s (waited %v)\n", args[0], cli.phase(p), at.Sub(start).Round(time.Millisecond))

		return nil
	})

	cli.MustRegister("watch", "<light>", "Print every phase change of a light", func(ctx context.Context, w io.Writer, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: watch <light>")
		}

		return c.WatchTransitions(ctx, args[0], func(t light.Transition) error {
			_, err := fmt.Fprintf(w, "%s  %-8s #%-5d %s after %v\n",
				t.At.Local().Format("15:04:05.000"), t.Light, t.Seq, cli.phase(t.Phase), t.Dwell)
			return err
		})
	})
}
