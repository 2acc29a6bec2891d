package rpc

import (
	context "context"
	"errors"
	"fmt"
	"time"

	"github.com/davidbalbert/stoplight/light"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var ErrNoSuchLight = errors.New("no such light")

type APIService interface {
	GetVersion(ctx context.Context) (string, error)
	Shutdown(ctx context.Context) error

	ListLights(ctx context.Context) ([]string, error)
	GetPhase(ctx context.Context, name string) (light.Phase, error)
	WaitForPhase(ctx context.Context, name string, p light.Phase) (time.Time, error)

	// WatchTransitions calls fn with each transition of the named light
	// until ctx is done or fn returns an error.
	WatchTransitions(ctx context.Context, name string, fn func(light.Transition) error) error
}

type Server struct {
	UnimplementedAPIServer
	apiService APIService
}

func NewAPIServer(apiService APIService) *Server {
	return &Server{
		apiService: apiService,
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, ErrNoSuchLight):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, light.ErrUnknownPhase):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return err
	}
}

func (s *Server) GetVersion(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error) {
	version, err := s.apiService.GetVersion(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.String(version), nil
}

func (s *Server) Shutdown(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error) {
	err := s.apiService.Shutdown(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return &emptypb.Empty{}, nil
}

func (s *Server) ListLights(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error) {
	names, err := s.apiService.ListLights(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	values := make([]*structpb.Value, len(names))
	for i, name := range names {
		values[i] = structpb.NewStringValue(name)
	}

	return &structpb.ListValue{Values: values}, nil
}

func (s *Server) GetPhase(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	p, err := s.apiService.GetPhase(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.String(p.String()), nil
}

func (s *Server) WaitForPhase(ctx context.Context, req *structpb.Struct) (*timestamppb.Timestamp, error) {
	fields := req.GetFields()

	name := fields["light"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "light is required")
	}

	p, err := light.ParsePhase(fields["phase"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}

	at, err := s.apiService.WaitForPhase(ctx, name, p)
	if err != nil {
		return nil, toStatus(err)
	}

	return timestamppb.New(at), nil
}

func (s *Server) WatchTransitions(req *wrapperspb.StringValue, stream API_WatchTransitionsServer) error {
	err := s.apiService.WatchTransitions(stream.Context(), req.GetValue(), func(t light.Transition) error {
		return stream.Send(TransitionToStruct(t))
	})

	return toStatus(err)
}

func WaitForPhaseRequest(name string, p light.Phase) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"light": structpb.NewStringValue(name),
			"phase": structpb.NewStringValue(p.String()),
		},
	}
}

func TransitionToStruct(t light.Transition) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"light":    structpb.NewStringValue(t.Light),
			"seq":      structpb.NewNumberValue(float64(t.Seq)),
			"phase":    structpb.NewStringValue(t.Phase.String()),
			"dwell_ms": structpb.NewNumberValue(float64(t.Dwell.Milliseconds())),
			"at":       structpb.NewStringValue(t.At.UTC().Format(time.RFC3339Nano)),
		},
	}
}

func TransitionFromStruct(s *structpb.Struct) (light.Transition, error) {
	fields := s.GetFields()

	p, err := light.ParsePhase(fields["phase"].GetStringValue())
	if err != nil {
		return light.Transition{}, err
	}

	at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
	if err != nil {
		return light.Transition{}, fmt.Errorf("bad transition time: %w", err)
	}

	return light.Transition{
		Light: fields["light"].GetStringValue(),
		Seq:   uint64(fields["seq"].GetNumberValue()),
		Phase: p,
		Dwell: time.Duration(fields["dwell_ms"].GetNumberValue()) * time.Millisecond,
		At:    at,
	}, nil
}
