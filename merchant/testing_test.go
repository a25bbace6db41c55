package merchant_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/alovak/bacgateway/gateway"
	"github.com/alovak/bacgateway/merchant"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// processor answers every post with the body registered for its type.
type processor struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	posted  []url.Values
}

func (p *processor) Post(_ context.Context, _ string, body string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	values, _ := url.ParseQuery(body)
	p.posted = append(p.posted, values)
	if p.err != nil {
		return nil, p.err
	}
	return []byte(p.replies[values.Get("type")]), nil
}

type recordedEvent struct {
	name    string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, recordedEvent{name: event, payload: payload})
	return nil
}

func (r *recorder) Close() error { return nil }

var errPublish = errors.New("nats: connection closed")

func gatewayConfig() *gateway.Config {
	cfg := gateway.DefaultConfig()
	cfg.KeyID = "key-123"
	cfg.HashKey = "s3cr3t"
	cfg.Test = true
	return cfg
}

func newGateway(t *testing.T, p *processor) *gateway.Gateway {
	t.Helper()
	gw, err := gateway.NewGateway(slog.Default(), gatewayConfig(),
		gateway.WithPoster(p),
		gateway.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	require.NoError(t, err)
	return gw
}

type fixture struct {
	proc   *processor
	repo   *merchant.Repository
	events *recorder
	svc    *merchant.Service
	router chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		proc: &processor{replies: map[string]string{
			"sale":    "response=1&responsetext=SUCCESS&authcode=AUTH1&avsresponse=Y&cvvresponse=M",
			"auth":    "response=1&responsetext=SUCCESS&authcode=AUTH2",
			"capture": "response=1&responsetext=SUCCESS",
			"refund":  "response=1&responsetext=SUCCESS",
			"void":    "response=1&responsetext=Transaction Void Successful",
		}},
		repo:   merchant.NewRepository(),
		events: &recorder{},
	}
	f.svc = merchant.NewService(slog.Default(), newGateway(t, f.proc), f.repo, f.events, "HNL")
	f.router = chi.NewRouter()
	merchant.NewAPI(f.svc).AppendRoutes(f.router)
	return f
}
