// Package transport is the binding to the remote simulation API. Every
// sensor read and motor command is one blocking request/response round-trip
// over a ZMQ REQ socket carrying a small CBOR envelope.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pebbe/zmq4"
)

// ErrNotAvailable is returned when the simulator has no value for the
// requested signal. Callers typically substitute a sentinel reading and
// carry on.
var ErrNotAvailable = errors.New("signal not available")

// Signals is the capability the rest of the program consumes. It is
// satisfied by *Client and by in-process fakes, so decoding and decision
// logic never needs a live simulator.
type Signals interface {
	ReadSignal(ctx context.Context, name string) ([]byte, error)
	WriteSignal(ctx context.Context, name string, value []byte) error
	WriteIntSignal(ctx context.Context, name string, value int64) error
}

// Recorder receives a copy of every raw signal payload read from the
// simulator, for offline inspection.
type Recorder interface {
	Record(payload []byte) error
}

// Options bound each round-trip. A request that times out is retried up to
// Retries additional times before the error surfaces.
type Options struct {
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	Retries        int
	Recorder       Recorder
}

func (o *Options) applyDefaults() {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 5 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 2 * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
}

type request struct {
	Op     string `cbor:"op"`
	Signal string `cbor:"signal,omitempty"`
	Value  []byte `cbor:"value,omitempty"`
	Int    int64  `cbor:"int,omitempty"`
}

type response struct {
	Ret   int64  `cbor:"ret"`
	Value []byte `cbor:"value,omitempty"`
}

// Client is a connection to the simulation server. Its methods are safe for
// concurrent use, but the underlying protocol is strictly one command at a
// time: requests are serialized on a single socket.
type Client struct {
	mu     sync.Mutex
	socket *zmq4.Socket
	opts   Options
}

// Connect dials the simulator and validates the connection with a ping
// round-trip, the moral equivalent of the remote API's client ID check.
func Connect(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	opts.applyDefaults()

	socket, err := zmq4.NewSocket(zmq4.REQ)
	if err != nil {
		return nil, err
	}
	// Relaxed REQ keeps the socket usable after a timed-out request, which
	// the retry loop depends on.
	if err := socket.SetReqRelaxed(1); err != nil {
		_ = socket.Close()
		return nil, err
	}
	if err := socket.SetReqCorrelate(1); err != nil {
		_ = socket.Close()
		return nil, err
	}
	if err := socket.SetSndtimeo(opts.RequestTimeout); err != nil {
		_ = socket.Close()
		return nil, err
	}
	if err := socket.SetRcvtimeo(opts.RequestTimeout); err != nil {
		_ = socket.Close()
		return nil, err
	}
	if err := socket.SetLinger(0); err != nil {
		_ = socket.Close()
		return nil, err
	}
	if err := socket.Connect(endpoint); err != nil {
		_ = socket.Close()
		return nil, err
	}

	client := &Client{socket: socket, opts: opts}

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if _, err := client.roundTrip(pingCtx, request{Op: "ping"}); err != nil {
		_ = socket.Close()
		return nil, fmt.Errorf("handshake with %s failed: %w", endpoint, err)
	}
	return client, nil
}

// ReadSignal fetches the raw bytes of a named signal. ErrNotAvailable means
// the simulator answered but had no value.
func (c *Client) ReadSignal(ctx context.Context, name string) ([]byte, error) {
	resp, err := c.roundTrip(ctx, request{Op: "read", Signal: name})
	if err != nil {
		return nil, err
	}
	if resp.Ret != 0 {
		return nil, ErrNotAvailable
	}
	if rec := c.opts.Recorder; rec != nil {
		if err := rec.Record(resp.Value); err != nil {
			return nil, fmt.Errorf("record signal %q: %w", name, err)
		}
	}
	return resp.Value, nil
}

// WriteSignal sends an opaque payload as a named signal.
func (c *Client) WriteSignal(ctx context.Context, name string, value []byte) error {
	resp, err := c.roundTrip(ctx, request{Op: "write", Signal: name, Value: value})
	if err != nil {
		return err
	}
	if resp.Ret != 0 {
		return fmt.Errorf("write signal %q rejected (ret=%d)", name, resp.Ret)
	}
	return nil
}

// WriteIntSignal sends an integer signal, used for actuator triggers.
func (c *Client) WriteIntSignal(ctx context.Context, name string, value int64) error {
	resp, err := c.roundTrip(ctx, request{Op: "write_int", Signal: name, Int: value})
	if err != nil {
		return err
	}
	if resp.Ret != 0 {
		return fmt.Errorf("write int signal %q rejected (ret=%d)", name, resp.Ret)
	}
	return nil
}

// Close releases the socket. The client must not be used afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.socket == nil {
		return nil
	}
	err := c.socket.Close()
	c.socket = nil
	return err
}

func (c *Client) roundTrip(ctx context.Context, req request) (response, error) {
	payload, err := cbor.Marshal(req)
	if err != nil {
		return response{}, fmt.Errorf("encode request: %w", err)
	}

	attempts := c.opts.Retries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return response{}, err
		}

		msg, err := c.exchange(payload)
		if err != nil {
			lastErr = err
			continue
		}

		var resp response
		if err := cbor.Unmarshal(msg, &resp); err != nil {
			return response{}, fmt.Errorf("decode response: %w", err)
		}
		return resp, nil
	}
	return response{}, fmt.Errorf("round trip failed after %d attempt(s): %w", attempts, lastErr)
}

func (c *Client) exchange(payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.socket == nil {
		return nil, errors.New("client is closed")
	}
	if _, err := c.socket.SendBytes(payload, 0); err != nil {
		return nil, err
	}
	return c.socket.RecvBytes(0)
}
