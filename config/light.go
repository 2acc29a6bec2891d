package config

import (
	"time"

	"github.com/davidbalbert/stoplight/light"
	"github.com/davidbalbert/stoplight/sync"
)

type LightConfig struct {
	Name    string
	Timing  light.Timing
	Order   sync.Order
	Initial light.Phase
}

func defaultLightConfig(name string) *LightConfig {
	return &LightConfig{
		Name:    name,
		Timing:  light.DefaultTiming,
		Order:   sync.LIFO,
		Initial: light.Red,
	}
}

func (c *LightConfig) copy() *LightConfig {
	newConfig := *c
	return &newConfig
}

func (c *LightConfig) validate() error {
	if err := c.Timing.Validate(); err != nil {
		return invalid("light %s: %v", c.Name, err)
	}

	return nil
}

type rawLightConfig struct {
	CycleMin     int64       `yaml:"cycle-min"`
	CycleMax     int64       `yaml:"cycle-max"`
	PollInterval int64       `yaml:"poll-interval"`
	SendDelay    int64       `yaml:"send-delay"`
	Order        sync.Order  `yaml:"order"`
	Initial      light.Phase `yaml:"initial"`
}

func (c *LightConfig) raw() rawLightConfig {
	return rawLightConfig{
		CycleMin:     c.Timing.CycleMin.Milliseconds(),
		CycleMax:     c.Timing.CycleMax.Milliseconds(),
		PollInterval: c.Timing.PollInterval.Milliseconds(),
		SendDelay:    c.Timing.SendDelay.Milliseconds(),
		Order:        c.Order,
		Initial:      c.Initial,
	}
}

func parseMillis(name, key string, v interface{}) (time.Duration, error) {
	n, ok := v.(int)
	if !ok {
		return 0, invalid("light %s: %s must be an integer number of milliseconds", name, key)
	}

	if n < 0 {
		return 0, invalid("light %s: %s must not be negative: %d", name, key, n)
	}

	return time.Duration(n) * time.Millisecond, nil
}

func parseLightConfig(name string, data map[string]interface{}) (*LightConfig, error) {
	c := defaultLightConfig(name)

	for k, v := range data {
		var err error

		switch k {
		case "cycle-min":
			c.Timing.CycleMin, err = parseMillis(name, k, v)
		case "cycle-max":
			c.Timing.CycleMax, err = parseMillis(name, k, v)
		case "poll-interval":
			c.Timing.PollInterval, err = parseMillis(name, k, v)
		case "send-delay":
			c.Timing.SendDelay, err = parseMillis(name, k, v)
		case "order":
			s, ok := v.(string)
			if !ok {
				return nil, invalid("light %s: order must be a string", name)
			}

			if err := c.Order.UnmarshalText([]byte(s)); err != nil {
				return nil, invalid("light %s: %v", name, err)
			}
		case "initial":
			s, ok := v.(string)
			if !ok {
				return nil, invalid("light %s: initial must be a string", name)
			}

			if err := c.Initial.UnmarshalText([]byte(s)); err != nil {
				return nil, invalid("light %s: %v", name, err)
			}
		default:
			return nil, invalid("light %s: unknown key: %s", name, k)
		}

		if err != nil {
			return nil, err
		}
	}

	return c, nil
}
