package merchant_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alovak/bacgateway/internal/transport"
	"github.com/alovak/bacgateway/merchant/models"
	"github.com/stretchr/testify/require"
)

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func cardPayment() models.CardPayment {
	return models.CardPayment{
		Amount:  10_00,
		OrderID: "ORD-1",
		Card: models.Card{
			Number: "4111 1111 1111 1111",
			Expiry: "09/30",
			CVV:    "123",
		},
	}
}

func TestAPI(t *testing.T) {
	f := newFixture(t)

	t.Run("purchase", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/payments/purchase", cardPayment())
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.PaymentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.True(t, resp.Result.Succeeded)
		require.Equal(t, "AUTH1", resp.Result.Authorization)
		require.Equal(t, "Y", resp.Result.AVS.Code)
		require.NotEmpty(t, resp.EntryID)

		sent := f.proc.posted[len(f.proc.posted)-1]
		require.Equal(t, "4111111111111111", sent.Get("ccnumber"))
		require.Equal(t, "09/2030", sent.Get("ccexp"))
		require.Equal(t, "10.00", sent.Get("amount"))

		w = f.do(t, http.MethodGet, "/payments/journal/"+resp.EntryID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var entry models.Entry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
		require.Equal(t, models.OperationPurchase, entry.Operation)
		require.Equal(t, "HNL", entry.Currency)
		require.Equal(t, int64(10_00), entry.Amount)
	})

	t.Run("capture and void by authorization", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/payments/AUTH2/capture", models.ReferencePayment{Amount: 500, OrderID: "ORD-1"})
		require.Equal(t, http.StatusOK, w.Code)
		sent := f.proc.posted[len(f.proc.posted)-1]
		require.Equal(t, "capture", sent.Get("type"))
		require.Equal(t, "AUTH2", sent.Get("transactionid"))

		w = f.do(t, http.MethodPost, "/payments/AUTH2/void", nil)
		require.Equal(t, http.StatusOK, w.Code)
		sent = f.proc.posted[len(f.proc.posted)-1]
		require.Equal(t, "void", sent.Get("type"))
		require.Empty(t, sent.Get("amount"))
	})

	t.Run("credit goes out as refund", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/payments/AUTH1/credit", models.ReferencePayment{Amount: 100})
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "refund", f.proc.posted[len(f.proc.posted)-1].Get("type"))
	})

	t.Run("verify returns the authorization result", func(t *testing.T) {
		before := len(f.proc.posted)
		w := f.do(t, http.MethodPost, "/payments/verify", cardPayment())
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.PaymentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "AUTH2", resp.Result.Authorization)
		require.Len(t, f.proc.posted, before+2)
		require.Equal(t, "1.00", f.proc.posted[before].Get("amount"))
		require.Equal(t, "void", f.proc.posted[before+1].Get("type"))
	})

	t.Run("journal by order", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/payments/journal?order_id=ORD-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var entries []models.Entry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		require.Len(t, entries, 3)

		w = f.do(t, http.MethodGet, "/payments/journal?order_id=nope", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, "[]", w.Body.String())

		w = f.do(t, http.MethodGet, "/payments/journal", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAPI_Errors(t *testing.T) {
	f := newFixture(t)

	t.Run("unknown entry", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/payments/journal/missing", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/payments/purchase", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("contract errors are 400 and send nothing", func(t *testing.T) {
		bad := cardPayment()
		bad.Card.Number = "4111111111111112"
		w := f.do(t, http.MethodPost, "/payments/authorize", bad)
		require.Equal(t, http.StatusBadRequest, w.Code)

		bad = cardPayment()
		bad.Card.Expiry = "13/30"
		w = f.do(t, http.MethodPost, "/payments/authorize", bad)
		require.Equal(t, http.StatusBadRequest, w.Code)

		bad = cardPayment()
		bad.Amount = -1
		w = f.do(t, http.MethodPost, "/payments/purchase", bad)
		require.Equal(t, http.StatusBadRequest, w.Code)

		require.Empty(t, f.proc.posted)
	})

	t.Run("transport errors are 502", func(t *testing.T) {
		f.proc.err = &transport.TransportError{URL: "x", Err: errors.New("connection refused")}
		defer func() { f.proc.err = nil }()

		w := f.do(t, http.MethodPost, "/payments/AUTH1/refund", models.ReferencePayment{Amount: 100})
		require.Equal(t, http.StatusBadGateway, w.Code)
	})
}
