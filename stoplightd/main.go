package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidbalbert/stoplight/api"
	"github.com/davidbalbert/stoplight/config"
	"github.com/davidbalbert/stoplight/stoplightd/services"
	"golang.org/x/sync/errgroup"
)

var (
	version    string = "dev"
	configPath string
	socketPath string
	check      bool
)

func main() {
	flag.StringVar(&configPath, "config", "/etc/stoplightd/stoplightd.yaml", "path to stoplightd.yaml")
	flag.StringVar(&socketPath, "socket", "", "path to stoplightd socket (overrides api.socket)")
	flag.BoolVar(&check, "check", false, "print the parsed config and exit")

	flag.Parse()

	configManager, err := config.NewConfigManager(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	conf := configManager.GetConfig()

	if check {
		b, err := conf.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s", b)
		return
	}

	level := new(slog.LevelVar)
	level.Set(conf.LogLevel)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("starting stoplightd", "version", version, "uid", os.Getuid())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	serviceManager := services.NewServiceManager(configManager, logger)

	services.MustRegisterServiceType(config.ServiceTypeAPIServer, func(m *services.ServiceManager, conf any) (services.Runner, error) {
		apiConf, ok := conf.(*config.APIConfig)
		if !ok {
			return nil, fmt.Errorf("expected *config.APIConfig, but got %T", conf)
		}

		if socketPath != "" {
			apiConf.Socket = socketPath
		}

		return api.NewServer(m, apiConf, cancel, version, m.Logger()), nil
	})
	services.MustRegisterServiceType(config.ServiceTypeLight, services.NewLight)

	g.Go(func() error {
		return configManager.Run(ctx)
	})

	g.Go(func() error {
		return serviceManager.Run(ctx)
	})

	g.Go(func() error {
		return reloadOnHangup(ctx, configManager, level, logger)
	})

	err = g.Wait()
	if err != nil {
		logger.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func reloadOnHangup(ctx context.Context, configManager *config.ConfigManager, level *slog.LevelVar, logger *slog.Logger) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			if err := configManager.Reload(); err != nil {
				logger.Error("config reload failed, keeping running config", "err", err)
				continue
			}

			level.Set(configManager.GetConfig().LogLevel)
			logger.Info("config reloaded", "path", configPath)
		}
	}
}
