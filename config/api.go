package config

import (
	"net/netip"
	"strings"

	"go4.org/netipx"
)

const DefaultSocketPath = "/var/run/stoplightd.sock"

type APIConfig struct {
	// Socket is the path of the unix socket the API listens on.
	Socket string

	// Listen is an optional TCP address. Only clients in Allow may connect
	// through it.
	Listen string
	Allow  []string

	allowed *netipx.IPSet
}

func defaultAPIConfig() APIConfig {
	return APIConfig{
		Socket: DefaultSocketPath,
		Allow:  []string{"127.0.0.0/8", "::1/128"},
	}
}

// Allowed is the set of client addresses the TCP listener accepts. It's
// only valid on a config returned by ParseConfig.
func (c *APIConfig) Allowed() *netipx.IPSet {
	return c.allowed
}

func (c *APIConfig) raw() rawAPIConfig {
	return rawAPIConfig{
		Socket: c.Socket,
		Listen: c.Listen,
		Allow:  c.Allow,
	}
}

type rawAPIConfig struct {
	Socket string   `yaml:"socket,omitempty"`
	Listen string   `yaml:"listen,omitempty"`
	Allow  []string `yaml:"allow,omitempty"`
}

func parseAPIConfig(data map[string]interface{}) (*APIConfig, error) {
	c := defaultAPIConfig()

	for k, v := range data {
		switch k {
		case "socket":
			s, ok := v.(string)
			if !ok {
				return nil, invalid("api: socket must be a string")
			}
			c.Socket = s
		case "listen":
			s, ok := v.(string)
			if !ok {
				return nil, invalid("api: listen must be a string")
			}
			c.Listen = s
		case "allow":
			list, ok := v.([]interface{})
			if !ok {
				return nil, invalid("api: allow must be a list")
			}

			c.Allow = nil
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, invalid("api: allow entries must be strings")
				}
				c.Allow = append(c.Allow, s)
			}
		default:
			return nil, invalid("api: unknown key: %s", k)
		}
	}

	return &c, nil
}

func parseAllowList(entries []string) (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder

	for _, e := range entries {
		if strings.Contains(e, "/") {
			prefix, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, invalid("api: allow: %v", err)
			}
			b.AddPrefix(prefix.Masked())
		} else {
			addr, err := netip.ParseAddr(e)
			if err != nil {
				return nil, invalid("api: allow: %v", err)
			}
			b.Add(addr)
		}
	}

	set, err := b.IPSet()
	if err != nil {
		return nil, invalid("api: allow: %v", err)
	}

	return set, nil
}

func (c *APIConfig) validate() error {
	if c.Socket == "" && c.Listen == "" {
		return invalid("api: one of socket or listen is required")
	}

	set, err := parseAllowList(c.Allow)
	if err != nil {
		return err
	}
	c.allowed = set

	return nil
}
