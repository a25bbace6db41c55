package gateway_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/alovak/bacgateway/gateway"
	"github.com/alovak/bacgateway/gateway/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var fixedNow = time.Unix(1700000000, 0)

type call struct {
	url  string
	body url.Values
	raw  string
}

// stubPoster replays canned bodies/errors in order and records what was posted.
type stubPoster struct {
	replies []reply
	calls   []call
}

type reply struct {
	body string
	err  error
}

func (s *stubPoster) Post(_ context.Context, u string, body string) ([]byte, error) {
	values, _ := url.ParseQuery(body)
	s.calls = append(s.calls, call{url: u, body: values, raw: body})
	if len(s.replies) == 0 {
		return nil, nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

func testConfig() *gateway.Config {
	cfg := gateway.DefaultConfig()
	cfg.KeyID = "key-123"
	cfg.HashKey = "s3cr3t"
	cfg.Test = true
	cfg.TestURL = "https://test.example/api/transact.php"
	cfg.LiveURL = "https://live.example/api/transact.php"
	return cfg
}

func newTestGateway(t *testing.T, poster *stubPoster) *gateway.Gateway {
	t.Helper()
	g, err := gateway.NewGateway(slog.Default(), testConfig(),
		gateway.WithPoster(poster),
		gateway.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return g
}

func testCard() models.CreditCard {
	return models.CreditCard{
		Number:            "4111111111111111",
		Month:             9,
		Year:              2030,
		VerificationValue: "123",
	}
}
