package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/exp/slog"
)

// SubjectPrefix is prepended to every published subject.
const SubjectPrefix = "payments."

// Publisher emits payment result events.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any) error
	Close() error
}

// Subject returns the subject an event is published on.
func Subject(event string) string {
	return SubjectPrefix + strings.ToLower(event)
}

type conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATS publishes JSON encoded payloads on core NATS subjects.
type NATS struct {
	logger *slog.Logger
	nc     conn
}

// Connect dials url and keeps reconnecting in the background.
func Connect(logger *slog.Logger, url string) (*NATS, error) {
	nc, err := nats.Connect(url,
		nats.Name("bacgateway"),
		nats.ReconnectWait(3*time.Second),
		nats.MaxReconnects(-1),
		nats.PingInterval(10*time.Second),
		nats.MaxPingsOutstanding(5),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return newNATS(logger, nc), nil
}

func newNATS(logger *slog.Logger, nc conn) *NATS {
	return &NATS{
		logger: logger.With(slog.String("app", "events")),
		nc:     nc,
	}
}

func (n *NATS) Publish(ctx context.Context, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event, err)
	}
	subject := Subject(event)
	if err := n.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing %s: %w", subject, err)
	}
	n.logger.Debug("event published", slog.String("subject", subject))
	return nil
}

// Close flushes pending messages and closes the connection.
func (n *NATS) Close() error {
	return n.nc.Drain()
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                               { return nil }

var (
	_ Publisher = (*NATS)(nil)
	_ Publisher = Noop{}
)
