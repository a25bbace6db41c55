package gateway_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/alovak/bacgateway/gateway"
	"github.com/alovak/bacgateway/gateway/models"
	"github.com/alovak/bacgateway/internal/transport"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestNewGateway_RequiresCredentials(t *testing.T) {
	_, err := gateway.NewGateway(slog.Default(), nil)
	require.ErrorIs(t, err, gateway.ErrConfig)

	cfg := gateway.DefaultConfig()
	cfg.HashKey = "secret"
	_, err = gateway.NewGateway(slog.Default(), cfg)
	require.ErrorIs(t, err, gateway.ErrConfig)

	cfg = gateway.DefaultConfig()
	cfg.KeyID = "key"
	_, err = gateway.NewGateway(slog.Default(), cfg)
	require.ErrorIs(t, err, gateway.ErrConfig)

	cfg.HashKey = "secret"
	g, err := gateway.NewGateway(nil, cfg)
	require.NoError(t, err)
	require.False(t, g.Test())
	require.True(t, g.SupportsScrubbing())
}

func TestNewGateway_BlankCredentials(t *testing.T) {
	cases := []struct {
		name           string
		keyID, hashKey string
	}{
		{"blank key id", "  ", "secret"},
		{"blank hash key", "key", "\t "},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := gateway.DefaultConfig()
			cfg.KeyID = c.keyID
			cfg.HashKey = c.hashKey
			_, err := gateway.NewGateway(slog.Default(), cfg)
			require.ErrorIs(t, err, gateway.ErrConfig)
		})
	}
}

func TestGateway_DefaultCurrency(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultCurrency = ""
	poster := &stubPoster{replies: []reply{{body: "response=1"}}}
	g, err := gateway.NewGateway(slog.Default(), cfg, gateway.WithPoster(poster))
	require.NoError(t, err)
	require.Equal(t, "HNL", g.DefaultCurrency())

	_, err = g.Capture(context.Background(), 100, "AUTH1", models.Options{})
	require.NoError(t, err)
	require.Equal(t, g.DefaultCurrency(), poster.calls[0].body.Get("currency"))
}

func TestPurchase_RoundTripOverHTTP(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(b))
		w.Write([]byte("response=1&responsetext=SUCCESS&authcode=123456&transactionid=999&avsresponse=N&cvvresponse=M&response_code=100"))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.TestURL = srv.URL
	g, err := gateway.NewGateway(slog.Default(), cfg)
	require.NoError(t, err)

	res, err := g.Purchase(context.Background(), 1234, testCard(), models.Options{OrderID: "ORD-7", Email: "buyer@example.com"})
	require.NoError(t, err)

	require.Equal(t, "sale", form.Get("type"))
	require.Equal(t, "12.34", form.Get("amount"))
	require.Equal(t, "09/2030", form.Get("ccexp"))
	require.Equal(t, "buyer@example.com", form.Get("email"))
	require.Len(t, form.Get("hash"), 32)
	require.NotEmpty(t, form.Get("time"))

	require.True(t, res.Succeeded)
	require.Equal(t, "SUCCESS", res.Message)
	require.Equal(t, "123456", res.Authorization)
	require.Equal(t, "No address or ZIP match", res.AVS.Message)
	require.Equal(t, "CVV2/CVC2 Match", res.CVV.Message)
	require.True(t, res.Test)
	require.Equal(t, "999", res.Params["transactionid"])
}

func TestGateway_UsesLiveURLOutsideTestMode(t *testing.T) {
	poster := &stubPoster{replies: []reply{{body: "response=1"}}}
	cfg := testConfig()
	cfg.Test = false
	g, err := gateway.NewGateway(slog.Default(), cfg, gateway.WithPoster(poster))
	require.NoError(t, err)

	res, err := g.Capture(context.Background(), 100, "AUTH123", models.Options{})
	require.NoError(t, err)
	require.False(t, res.Test)
	require.Equal(t, cfg.LiveURL, poster.calls[0].url)
}

func TestGateway_Declined(t *testing.T) {
	poster := &stubPoster{replies: []reply{{body: "response=2&responsetext=DECLINE&response_code=200&cvvresponse=N"}}}
	g := newTestGateway(t, poster)

	res, err := g.Authorize(context.Background(), 100, testCard(), models.Options{OrderID: "ORD1"})
	require.NoError(t, err)
	require.False(t, res.Succeeded)
	require.Equal(t, "DECLINE", res.Message)
	require.Equal(t, "200", res.ErrorCode)
	require.Equal(t, "N", res.CVV.Code)
}

func TestGateway_ReferenceOperations(t *testing.T) {
	cases := []struct {
		name   string
		run    func(g *gateway.Gateway) (models.Result, error)
		action string
		amount string
	}{
		{"capture", func(g *gateway.Gateway) (models.Result, error) {
			return g.Capture(context.Background(), 500, "AUTH123", models.Options{OrderID: "ORD1"})
		}, "capture", "5.00"},
		{"refund", func(g *gateway.Gateway) (models.Result, error) {
			return g.Refund(context.Background(), 500, "AUTH123", models.Options{OrderID: "ORD1"})
		}, "refund", "5.00"},
		{"credit", func(g *gateway.Gateway) (models.Result, error) {
			return g.Credit(context.Background(), 500, "AUTH123", models.Options{OrderID: "ORD1"})
		}, "refund", "5.00"},
		{"void", func(g *gateway.Gateway) (models.Result, error) {
			return g.Void(context.Background(), "AUTH123", models.Options{OrderID: "ORD1"})
		}, "void", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			poster := &stubPoster{replies: []reply{{body: "response=1&responsetext=OK"}}}
			res, err := c.run(newTestGateway(t, poster))
			require.NoError(t, err)
			require.True(t, res.Succeeded)
			require.Len(t, poster.calls, 1)
			body := poster.calls[0].body
			require.Equal(t, c.action, body.Get("type"))
			require.Equal(t, "AUTH123", body.Get("transactionid"))
			require.Equal(t, "key-123", body.Get("key_id"))
			require.Equal(t, "1700000000", body.Get("time"))
			require.Equal(t, c.amount, body.Get("amount"))
		})
	}
}

func TestGateway_ContractErrorSendsNothing(t *testing.T) {
	poster := &stubPoster{}
	g := newTestGateway(t, poster)

	_, err := g.Refund(context.Background(), 100, "", models.Options{OrderID: "ORD1"})
	require.ErrorIs(t, err, gateway.ErrMissingField)
	require.True(t, gateway.IsContractError(err))

	_, err = g.Purchase(context.Background(), 100, models.CreditCard{}, models.Options{})
	require.ErrorIs(t, err, gateway.ErrMissingField)

	require.Empty(t, poster.calls)
}

func TestGateway_TransportErrorPassesThrough(t *testing.T) {
	terr := &transport.TransportError{URL: "https://test.example", Err: errors.New("connection reset")}
	poster := &stubPoster{replies: []reply{{err: terr}}}
	g := newTestGateway(t, poster)

	_, err := g.Purchase(context.Background(), 100, testCard(), models.Options{})
	require.Same(t, terr, err)
}

func TestGateway_MalformedResponse(t *testing.T) {
	poster := &stubPoster{replies: []reply{{body: "response=%zz"}}}
	g := newTestGateway(t, poster)

	_, err := g.Void(context.Background(), "AUTH1", models.Options{})
	require.ErrorIs(t, err, gateway.ErrMalformedResponse)
}
