package services

import (
	"fmt"

	"github.com/davidbalbert/stoplight/config"
	"github.com/davidbalbert/stoplight/light"
)

// NewLight builds a light from a *config.LightConfig. The returned
// *light.Cycler cycles for as long as the service runs.
func NewLight(m *ServiceManager, conf any) (Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("no light config provided")
	}

	lightConf, ok := conf.(*config.LightConfig)
	if !ok {
		return nil, fmt.Errorf("expected *config.LightConfig, but got %T", conf)
	}

	c, err := light.New(lightConf.Name,
		light.WithTiming(lightConf.Timing),
		light.WithOrder(lightConf.Order),
		light.WithInitialPhase(lightConf.Initial),
		light.WithLogger(m.Logger()),
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Light returns the running light with the given name.
func (s *ServiceManager) Light(name string) (*light.Cycler, error) {
	svc, err := s.Get(config.LightServiceID(name))
	if err != nil {
		return nil, err
	}

	c, ok := svc.(*light.Cycler)
	if !ok {
		return nil, fmt.Errorf("expected *light.Cycler but got %T", svc)
	}

	return c, nil
}

// Lights returns the names of the running lights, sorted.
func (s *ServiceManager) Lights() []string {
	var names []string

	for _, id := range s.RunningServices() {
		if id.Type == config.ServiceTypeLight {
			names = append(names, id.Name)
		}
	}

	return names
}
