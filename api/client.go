package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/davidbalbert/stoplight/light"
	"github.com/davidbalbert/stoplight/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type Client struct {
	*grpc.ClientConn
	rpcClient rpc.APIClient
}

// NewClient connects to a stoplightd. A target starting with "/" is taken to
// be a unix socket path, anything else is passed to grpc as is.
func NewClient(target string, opts ...grpc.DialOption) (*Client, error) {
	if strings.HasPrefix(target, "/") {
		target = "unix://" + target
	}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.Dial(target, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		ClientConn: conn,
		rpcClient:  rpc.NewAPIClient(conn),
	}, nil
}

func (c *Client) GetVersion(ctx context.Context) (string, error) {
	resp, err := c.rpcClient.GetVersion(ctx, &emptypb.Empty{})
	if err != nil {
		return "", err
	}

	return resp.GetValue(), nil
}

func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.rpcClient.Shutdown(ctx, &emptypb.Empty{})
	return err
}

func (c *Client) ListLights(ctx context.Context) ([]string, error) {
	resp, err := c.rpcClient.ListLights(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(resp.GetValues()))
	for i, v := range resp.GetValues() {
		names[i] = v.GetStringValue()
	}

	return names, nil
}

func (c *Client) GetPhase(ctx context.Context, name string) (light.Phase, error) {
	resp, err := c.rpcClient.GetPhase(ctx, wrapperspb.String(name))
	if err != nil {
		return 0, err
	}

	return light.ParsePhase(resp.GetValue())
}

// WaitForPhase blocks until the named light hands out p, and returns when
// the daemon saw it.
func (c *Client) WaitForPhase(ctx context.Context, name string, p light.Phase) (time.Time, error) {
	resp, err := c.rpcClient.WaitForPhase(ctx, rpc.WaitForPhaseRequest(name, p))
	if err != nil {
		return time.Time{}, err
	}

	return resp.AsTime(), nil
}

// WatchTransitions calls fn for each transition of the named light until ctx
// is done, the stream ends, or fn returns an error.
func (c *Client) WatchTransitions(ctx context.Context, name string, fn func(light.Transition) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.rpcClient.WatchTransitions(ctx, wrapperspb.String(name))
	if err != nil {
		return err
	}

	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		t, err := rpc.TransitionFromStruct(msg)
		if err != nil {
			return err
		}

		if err := fn(t); err != nil {
			return err
		}
	}
}
