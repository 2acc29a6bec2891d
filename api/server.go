package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/davidbalbert/stoplight/config"
	"github.com/davidbalbert/stoplight/light"
	"github.com/davidbalbert/stoplight/rpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// How long in-flight calls get to finish before the server is stopped hard.
// Waits and watches can block indefinitely, so this bounds shutdown.
const shutdownGrace = 2 * time.Second

// Lights is the set of running lights the API serves.
type Lights interface {
	Light(name string) (*light.Cycler, error)
	Lights() []string
}

type Server struct {
	lights   Lights
	conf     *config.APIConfig
	shutdown context.CancelFunc
	version  string
	log      *slog.Logger
}

func NewServer(lights Lights, conf *config.APIConfig, shutdown context.CancelFunc, version string, logger *slog.Logger) *Server {
	return &Server{
		lights:   lights,
		conf:     conf,
		shutdown: shutdown,
		version:  version,
		log:      logger,
	}
}

func removeStaleSocket(path string) error {
	fi, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	if fi.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket", path)
	}

	return os.Remove(path)
}

func (s *Server) Run(ctx context.Context) error {
	var listeners []net.Listener

	closeAll := func() {
		for _, l := range listeners {
			l.Close()
		}
	}

	if s.conf.Socket != "" {
		if err := removeStaleSocket(s.conf.Socket); err != nil {
			return err
		}

		l, err := net.Listen("unix", s.conf.Socket)
		if err != nil {
			return err
		}
		listeners = append(listeners, l)
	}

	if s.conf.Listen != "" {
		l, err := net.Listen("tcp", s.conf.Listen)
		if err != nil {
			closeAll()
			return err
		}
		listeners = append(listeners, newAllowListener(l, s.conf.Allowed(), s.log))
	}

	return s.Serve(ctx, listeners...)
}

// Serve serves the API on each listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listeners ...net.Listener) error {
	grpcServer := grpc.NewServer()
	rpcServer := rpc.NewAPIServer(s)

	rpc.RegisterAPIServer(grpcServer, rpcServer)

	g, ctx := errgroup.WithContext(ctx)

	for _, l := range listeners {
		l := l
		s.log.Info("api listening", "addr", l.Addr())

		g.Go(func() error {
			return grpcServer.Serve(l)
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		select {
		case <-stopped:
		case <-time.After(shutdownGrace):
			s.log.Warn("api calls still running, stopping anyway")
			grpcServer.Stop()
			<-stopped
		}

		return nil
	})

	return g.Wait()
}

func (s *Server) light(name string) (*light.Cycler, error) {
	c, err := s.lights.Light(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", rpc.ErrNoSuchLight, name)
	}

	return c, nil
}

func (s *Server) GetVersion(ctx context.Context) (string, error) {
	return s.version, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutdown requested over api")
	s.shutdown()
	return nil
}

func (s *Server) ListLights(ctx context.Context) ([]string, error) {
	return s.lights.Lights(), nil
}

func (s *Server) GetPhase(ctx context.Context, name string) (light.Phase, error) {
	c, err := s.light(name)
	if err != nil {
		return 0, err
	}

	return c.CurrentPhase(), nil
}

func (s *Server) WaitForPhase(ctx context.Context, name string, p light.Phase) (time.Time, error) {
	c, err := s.light(name)
	if err != nil {
		return time.Time{}, err
	}

	if err := c.WaitFor(ctx, p); err != nil {
		return time.Time{}, err
	}

	return time.Now(), nil
}

func (s *Server) WatchTransitions(ctx context.Context, name string, fn func(light.Transition) error) error {
	c, err := s.light(name)
	if err != nil {
		return err
	}

	tok := c.Register()
	defer c.Unregister(tok)

	for {
		t, ok := c.AwaitTransition(ctx, tok)
		if !ok {
			return ctx.Err()
		}

		if err := fn(t); err != nil {
			return err
		}
	}
}
