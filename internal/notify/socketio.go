package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/satcolor/internal/ctxlog"
)

const defaultTimeout = 10 * time.Second

// Settings configures a SocketIO publisher.
type Settings struct {
	URL       string
	Namespace string
	Event     string
	// AckEvent, when set, is the event the receiver answers with. Publish
	// waits for it before disconnecting.
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketIO publishes each event over a short-lived socket.io connection.
type SocketIO struct {
	settings Settings
	baseURL  string
	path     string
}

// NewSocketIO checks s and fills in defaults.
func NewSocketIO(s Settings) (*SocketIO, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("notify URL %q needs a scheme and a host", s.URL)
	}
	if s.Event == "" {
		s.Event = DefaultEvent
	}
	if s.Namespace == "" {
		s.Namespace = "/"
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	return &SocketIO{
		settings: s,
		baseURL:  fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		path:     u.Path,
	}, nil
}

type result struct {
	err error
}

// Publish connects, emits ev and disconnects.
func (p *SocketIO) Publish(ctx context.Context, ev Event) error {
	s := p.settings
	logger := ctxlog.FromContext(ctx).With("notify_url", s.URL, "event", s.Event)

	opCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if p.path != "" {
		opts.SetPath(p.path)
	}
	if s.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(s.Namespace, opts)
	defer io.Disconnect()

	var connected atomic.Bool
	done := make(chan result, 1)
	finish := func(err error) {
		select {
		case done <- result{err: err}:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Debug("Connected to notify endpoint.", "sid", io.Id())
		io.Emit(s.Event, ev)
		if s.AckEvent == "" {
			finish(nil)
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				finish(err)
				return
			}
		}
		finish(errors.New("connect error"))
	})
	if s.AckEvent != "" {
		io.On(types.EventName(s.AckEvent), func(...any) { finish(nil) })
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		if connected.Load() {
			return fmt.Errorf("notify: timed out waiting for %q", s.AckEvent)
		}
		return errors.New("notify: timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("notify: %w", res.err)
		}
		logger.Debug("Outcome published.", "attempt", ev.AttemptID)
		return nil
	}
}
