package config

import (
	"context"

	"github.com/davidbalbert/stoplight/sync"
)

type ConfigManager struct {
	*sync.Notifier[*Config]
	path string
}

func NewConfigManager(path string) (*ConfigManager, error) {
	conf, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	return &ConfigManager{Notifier: sync.NewNotifier(conf), path: path}, nil
}

func (c *ConfigManager) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// GetConfig returns a copy of the running config.
func (c *ConfigManager) GetConfig() *Config {
	conf, _ := c.LastChange()
	return conf.copy()
}

func (c *ConfigManager) update(conf *Config) error {
	err := conf.validate()
	if err != nil {
		return err
	}

	c.NotifyChange(conf)

	return nil
}

// Reload re-reads the config file. The running config is left alone if the
// file doesn't parse.
func (c *ConfigManager) Reload() error {
	conf, err := loadConfig(c.path)
	if err != nil {
		return err
	}

	return c.update(conf)
}
