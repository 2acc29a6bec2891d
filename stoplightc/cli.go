package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/davidbalbert/stoplight/light"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/term"
)

type handlerFunc func(ctx context.Context, w io.Writer, args []string) error

type command struct {
	name    string
	usage   string
	help    string
	handler handlerFunc
}

type CLI struct {
	commands map[string]command
	color    bool
}

func NewCLI() *CLI {
	return &CLI{commands: make(map[string]command)}
}

func (cli *CLI) Register(name, usage, help string, handler handlerFunc) error {
	if _, ok := cli.commands[name]; ok {
		return fmt.Errorf("command already registered: %s", name)
	}

	cli.commands[name] = command{name: name, usage: usage, help: help, handler: handler}

	return nil
}

func (cli *CLI) MustRegister(name, usage, help string, handler handlerFunc) {
	err := cli.Register(name, usage, help, handler)
	if err != nil {
		panic(err)
	}
}

// UseColorFor turns on coloured phases if fd is a terminal.
func (cli *CLI) UseColorFor(fd int) {
	cli.color = term.IsTerminal(fd)
}

func (cli *CLI) Run(ctx context.Context, w io.Writer, args []string) error {
	if len(args) == 0 {
		cli.Usage(w)
		return fmt.Errorf("no command given")
	}

	cmd, ok := cli.commands[args[0]]
	if !ok {
		cli.Usage(w)
		return fmt.Errorf("unknown command: %s", args[0])
	}

	return cmd.handler(ctx, w, args[1:])
}

func (cli *CLI) Usage(w io.Writer) {
	names := maps.Keys(cli.commands)
	slices.Sort(names)

	rows, err := tabulate(names, []string{"COMMAND", "DESCRIPTION"}, func(name string) []string {
		cmd := cli.commands[name]
		return []string{strings.TrimSpace(cmd.name + " " + cmd.usage), cmd.help}
	})
	if err != nil {
		return
	}

	for _, row := range rows {
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

func (cli *CLI) phase(p light.Phase) string {
	if !cli.color {
		return p.String()
	}

	switch p {
	case light.Red:
		return "\x1b[31m" + p.String() + "\x1b[0m"
	case light.Green:
		return "\x1b[32m" + p.String() + "\x1b[0m"
	default:
		return p.String()
	}
}

// A generic function Tabulate that takes a list of rows of type T (any),
// a list of strings (the headers), and a function that takes a row and
// returns a list of strings (the columns). It returns a string that
// contains the tabulated data.
func tabulate[T any](items []T, headers []string, f func(T) []string) ([]string, error) {
	// Get the column widths
	columnWidths := make([]int, len(headers))
	for i, h := range headers {
		columnWidths[i] = len(h)
	}

	cells := make([][]string, len(items))

	for i, item := range items {
		cells[i] = f(item)

		if len(cells[i]) != len(headers) {
			return nil, fmt.Errorf("invalid number of columns for item %d", i)
		}

		for j, cell := range cells[i] {
			if len(cell) > columnWidths[j] {
				columnWidths[j] = len(cell)
			}
		}
	}

	table := make([]string, len(items)+2)

	header := ""
	for i, h := range headers {
		header += fmt.Sprintf("%-*s", columnWidths[i]+3, h)
	}

	table[0] = header

	separator := ""
	for i := range headers {
		separator += fmt.Sprintf("%-*s", columnWidths[i]+3, strings.Repeat("-", columnWidths[i]))
	}

	table[1] = separator

	for i, row := range cells {
		table[i+2] = ""
		for j, cell := range row {
			table[i+2] += fmt.Sprintf("%-*s", columnWidths[j]+3, cell)
		}
	}

	return table, nil
}
