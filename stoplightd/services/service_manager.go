package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davidbalbert/stoplight/config"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

type Runner interface {
	Run(ctx context.Context) error
}

type BuilderFunc func(m *ServiceManager, conf any) (Runner, error)

var builders = make(map[config.ServiceType]BuilderFunc)

func registerServiceType(t config.ServiceType, fn BuilderFunc) error {
	_, ok := builders[t]
	if ok {
		return fmt.Errorf("service type already registered: %v", t)
	}

	builders[t] = fn

	return nil
}

func MustRegisterServiceType(t config.ServiceType, fn BuilderFunc) {
	err := registerServiceType(t, fn)
	if err != nil {
		panic(err)
	}
}

type ServiceController struct {
	service any
	id      config.ServiceID
	cancel  context.CancelFunc
	done    chan struct{}
}

func (c *ServiceController) Stop() {
	c.cancel()
}

func (c *ServiceController) Wait() error {
	<-c.done
	return nil
}

type state struct {
	controllers map[config.ServiceID]ServiceController
}

type ServiceManager struct {
	st            chan state
	configManager *config.ConfigManager
	log           *slog.Logger
}

func NewServiceManager(configManager *config.ConfigManager, logger *slog.Logger) *ServiceManager {
	st := state{
		controllers: make(map[config.ServiceID]ServiceController),
	}

	c := make(chan state, 1)
	c <- st

	return &ServiceManager{
		st:            c,
		configManager: configManager,
		log:           logger,
	}
}

func (s *ServiceManager) Logger() *slog.Logger {
	return s.log
}

// Run starts the services the running config describes, and restarts all of
// them whenever the config changes.
func (s *ServiceManager) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	confCh := make(chan *config.Config, 1)

	g.Go(func() error {
		conf, seq := s.configManager.LastChange()
		for {
			select {
			case <-ctx.Done():
				return nil
			case confCh <- conf:
			}

			conf, seq = s.configManager.AwaitChange(ctx, seq)
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case conf := <-confCh:
				st := <-s.st

				for _, controller := range st.controllers {
					s.log.Info("stopping service", "service", controller.id)
					controller.Stop()
				}

				for id, controller := range st.controllers {
					controller.Wait()
					delete(st.controllers, id)
				}

				for _, b := range conf.Bootstraps() {
					err := s.start(ctx, g, st, b)
					if err != nil {
						s.st <- st
						return err
					}
				}

				s.st <- st
			}
		}
	})

	return g.Wait()
}

func (s *ServiceManager) start(ctx context.Context, g *errgroup.Group, st state, b config.Bootstrap) error {
	_, ok := st.controllers[b.ID]
	if ok {
		return fmt.Errorf("service already running: %v", b.ID)
	}

	builder, ok := builders[b.ID.Type]
	if !ok {
		return fmt.Errorf("unknown service type: %v", b.ID.Type)
	}

	service, err := builder(s, b.Config)
	if err != nil {
		return fmt.Errorf("failed to build %v: %w", b.ID, err)
	}

	ctx, cancel := context.WithCancel(ctx)

	done := make(chan struct{})

	st.controllers[b.ID] = ServiceController{
		service: service,
		id:      b.ID,
		cancel:  cancel,
		done:    done,
	}

	s.log.Info("starting service", "service", b.ID)

	g.Go(func() error {
		defer close(done)

		err := service.Run(ctx)
		if err != nil {
			return fmt.Errorf("%v: %w", b.ID, err)
		}

		return nil
	})

	return nil
}

func (s *ServiceManager) Get(id config.ServiceID) (any, error) {
	st := <-s.st
	defer func() {
		s.st <- st
	}()

	controller, ok := st.controllers[id]
	if !ok {
		return nil, fmt.Errorf("service not running: %v", id)
	}

	return controller.service, nil
}

func (s *ServiceManager) ConfigManager() *config.ConfigManager {
	return s.configManager
}

// RunningServices returns the IDs of running services ordered by type, then
// name.
func (s *ServiceManager) RunningServices() []config.ServiceID {
	st := <-s.st
	defer func() {
		s.st <- st
	}()

	ids := maps.Keys(st.controllers)
	slices.SortFunc(ids, func(a, b config.ServiceID) bool {
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Name < b.Name
	})

	return ids
}
