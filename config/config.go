package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

type ServiceType int

const (
	ServiceTypeAPIServer ServiceType = iota
	ServiceTypeLight
)

func (t ServiceType) String() string {
	switch t {
	case ServiceTypeAPIServer:
		return "APIServer"
	case ServiceTypeLight:
		return "Light"
	default:
		return fmt.Sprintf("unknown service type: %d", t)
	}
}

type ServiceID struct {
	Type ServiceType
	Name string
}

func (id ServiceID) String() string {
	return fmt.Sprintf("%v(%s)", id.Type, id.Name)
}

var ServiceAPIServer = ServiceID{Type: ServiceTypeAPIServer, Name: "APIServer"}

func LightServiceID(name string) ServiceID {
	return ServiceID{Type: ServiceTypeLight, Name: name}
}

// Bootstrap is everything the service manager needs to start one service.
type Bootstrap struct {
	ID     ServiceID
	Config any
}

type Config struct {
	LogLevel slog.Level
	API      APIConfig
	Lights   map[string]*LightConfig
}

func loadConfig(path string) (*Config, error) {
	s, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := ParseConfig(string(s))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// ParseConfig parses and validates a yaml config. Keys that are left out
// take their defaults.
func ParseConfig(s string) (*Config, error) {
	var data map[string]interface{}

	if err := yaml.Unmarshal([]byte(s), &data); err != nil {
		return nil, invalid("%v", err)
	}

	c := Config{
		LogLevel: slog.LevelInfo,
		API:      defaultAPIConfig(),
		Lights:   make(map[string]*LightConfig),
	}

	for k, v := range data {
		switch k {
		case "log-level":
			s, ok := v.(string)
			if !ok {
				return nil, invalid("log-level must be a string")
			}

			if err := c.LogLevel.UnmarshalText([]byte(s)); err != nil {
				return nil, invalid("log-level: %v", err)
			}
		case "api":
			v, ok := v.(map[string]interface{})
			if !ok {
				return nil, invalid("api must be a map")
			}

			apiConfig, err := parseAPIConfig(v)
			if err != nil {
				return nil, err
			}

			c.API = *apiConfig
		case "lights":
			v, ok := v.(map[string]interface{})
			if !ok {
				return nil, invalid("lights must be a map")
			}

			for name, lv := range v {
				if lv == nil {
					lv = map[string]interface{}{}
				}

				lv, ok := lv.(map[string]interface{})
				if !ok {
					return nil, invalid("light %s must be a map", name)
				}

				lightConfig, err := parseLightConfig(name, lv)
				if err != nil {
					return nil, err
				}

				c.Lights[name] = lightConfig
			}
		default:
			return nil, invalid("unknown top level key: %s", k)
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Marshal renders c in the same format ParseConfig reads.
func (c *Config) Marshal() ([]byte, error) {
	lights := make(map[string]rawLightConfig, len(c.Lights))
	for name, l := range c.Lights {
		lights[name] = l.raw()
	}

	return yaml.Marshal(rawConfig{
		LogLevel: c.LogLevel.String(),
		API:      c.API.raw(),
		Lights:   lights,
	})
}

type rawConfig struct {
	LogLevel string                    `yaml:"log-level"`
	API      rawAPIConfig              `yaml:"api"`
	Lights   map[string]rawLightConfig `yaml:"lights"`
}

// LightNames returns the configured lights, sorted.
func (c *Config) LightNames() []string {
	names := maps.Keys(c.Lights)
	slices.Sort(names)

	return names
}

// Bootstraps returns the services c describes in boot order. Lights come up
// before the API server that serves them.
func (c *Config) Bootstraps() []Bootstrap {
	g := newGraph()

	var lights []ServiceID
	for _, name := range c.LightNames() {
		id := LightServiceID(name)
		g.addNode(id)
		lights = append(lights, id)
	}

	g.addNode(ServiceAPIServer, lights...)

	var bootstraps []Bootstrap
	for _, id := range g.topologicalSort() {
		switch id.Type {
		case ServiceTypeAPIServer:
			api := c.API
			bootstraps = append(bootstraps, Bootstrap{ID: id, Config: &api})
		case ServiceTypeLight:
			bootstraps = append(bootstraps, Bootstrap{ID: id, Config: c.Lights[id.Name].copy()})
		}
	}

	return bootstraps
}

func (c *Config) copy() *Config {
	newConfig := Config{
		LogLevel: c.LogLevel,
		API:      c.API,
		Lights:   make(map[string]*LightConfig),
	}

	for k, v := range c.Lights {
		newConfig.Lights[k] = v.copy()
	}

	return &newConfig
}

func (c *Config) validate() error {
	if len(c.Lights) == 0 {
		return invalid("at least one light must be configured")
	}

	for name, l := range c.Lights {
		if name == "" {
			return invalid("lights must have a name")
		}

		if err := l.validate(); err != nil {
			return err
		}
	}

	return c.API.validate()
}
