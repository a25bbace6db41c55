package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alovak/bacgateway/gateway/models"
	"github.com/alovak/bacgateway/internal/security"
	"github.com/alovak/bacgateway/internal/transport"
	"golang.org/x/exp/slog"
)

// Gateway is a client for the processor's transact API. Each call builds,
// signs and posts exactly one request (Verify posts two).
type Gateway struct {
	logger  *slog.Logger
	cfg     Config
	poster  transport.Poster
	builder *RequestBuilder
}

type Option func(*Gateway)

// WithPoster replaces the HTTP transport.
func WithPoster(p transport.Poster) Option {
	return func(g *Gateway) { g.poster = p }
}

// WithDigester replaces the in-process MD5 digester.
func WithDigester(d security.Digester) Option {
	return func(g *Gateway) { g.builder.Digester = d }
}

// WithClock sets the clock used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.builder.Now = now }
}

func NewGateway(logger *slog.Logger, cfg *Config, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrConfig)
	}
	c := cfg.withDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Gateway{
		logger: logger.With(slog.String("app", "gateway")),
		cfg:    c,
		builder: &RequestBuilder{
			KeyID:           c.KeyID,
			HashKey:         c.HashKey,
			DefaultCurrency: c.DefaultCurrency,
			Digester:        security.NewMD5(),
			Now:             time.Now,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.poster == nil {
		g.poster = transport.New(&http.Client{Timeout: c.Timeout})
	}
	return g, nil
}

// Test reports whether the gateway talks to the test endpoint.
func (g *Gateway) Test() bool { return g.cfg.Test }

func (g *Gateway) SupportsScrubbing() bool { return true }

// DefaultCurrency is the currency sent when a call does not name one.
func (g *Gateway) DefaultCurrency() string { return g.cfg.DefaultCurrency }

// Purchase authorizes and captures amount in one call. Card numbers that
// fail the Luhn check or an expiry month outside 01..12 return
// ErrInvalidCard before anything is sent.
func (g *Gateway) Purchase(ctx context.Context, amount int64, card models.CreditCard, opts models.Options) (models.Result, error) {
	req, err := g.builder.Purchase(amount, card, opts)
	if err != nil {
		return models.Result{}, err
	}
	return g.commit(ctx, req)
}

// Authorize places a hold for amount. It rejects cards like Purchase does,
// with ErrInvalidCard and no network call.
func (g *Gateway) Authorize(ctx context.Context, amount int64, card models.CreditCard, opts models.Options) (models.Result, error) {
	req, err := g.builder.Authorize(amount, card, opts)
	if err != nil {
		return models.Result{}, err
	}
	return g.commit(ctx, req)
}

func (g *Gateway) Capture(ctx context.Context, amount int64, authorization string, opts models.Options) (models.Result, error) {
	req, err := g.builder.Capture(amount, authorization, opts)
	if err != nil {
		return models.Result{}, err
	}
	return g.commit(ctx, req)
}

func (g *Gateway) Refund(ctx context.Context, amount int64, authorization string, opts models.Options) (models.Result, error) {
	req, err := g.builder.Refund(amount, authorization, opts)
	if err != nil {
		return models.Result{}, err
	}
	return g.commit(ctx, req)
}

func (g *Gateway) Credit(ctx context.Context, amount int64, authorization string, opts models.Options) (models.Result, error) {
	req, err := g.builder.Credit(amount, authorization, opts)
	if err != nil {
		return models.Result{}, err
	}
	return g.commit(ctx, req)
}

func (g *Gateway) Void(ctx context.Context, authorization string, opts models.Options) (models.Result, error) {
	req, err := g.builder.Void(authorization, opts)
	if err != nil {
		return models.Result{}, err
	}
	return g.commit(ctx, req)
}

// commit posts req and classifies the reply. Transport errors are returned
// as they come from the poster.
func (g *Gateway) commit(ctx context.Context, req Request) (models.Result, error) {
	url := g.cfg.url()
	body := req.Encode()
	orderID, _ := req.Get(FieldOrderID)
	logger := g.logger.With(
		slog.String("action", string(req.Action())),
		slog.String("order_id", orderID),
	)
	logger.Debug("posting request", slog.String("body", Scrub(body)))

	start := time.Now()
	raw, err := g.poster.Post(ctx, url, body)
	if err != nil {
		logger.Error("posting request", "err", err, slog.Duration("elapsed", time.Since(start)))
		return models.Result{}, err
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		return models.Result{}, fmt.Errorf("parsing %s response: %w", req.Action(), err)
	}
	res := Classify(resp, g.cfg.Test)

	logger.Info("transaction processed",
		slog.Bool("succeeded", res.Succeeded),
		slog.String("message", res.Message),
		slog.String("error_code", res.ErrorCode),
		slog.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
