package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/davidbalbert/stoplight/api"
	"github.com/davidbalbert/stoplight/config"
)

var (
	target      string
	waitTimeout time.Duration
)

func main() {
	flag.StringVar(&target, "socket", config.DefaultSocketPath, "path to stoplightd socket, or host:port")
	flag.DurationVar(&waitTimeout, "timeout", 0, "give up waiting after this long (0 waits forever)")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	client, err := api.NewClient(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	cli := NewCLI()
	cli.UseColorFor(int(os.Stdout.Fd()))

	registerCommands(cli, client, waitTimeout)

	err = cli.Run(ctx, os.Stdout, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%% %v\n", err)
		client.Close()
		os.Exit(1)
	}
}
