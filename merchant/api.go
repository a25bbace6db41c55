package merchant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alovak/bacgateway/gateway"
	"github.com/alovak/bacgateway/internal/transport"
	"github.com/alovak/bacgateway/merchant/models"
	"github.com/go-chi/chi/v5"
)

// API is a HTTP API for the merchant service
type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{
		svc: svc,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/purchase", a.cardPayment(a.svc.Purchase))
		r.Post("/authorize", a.cardPayment(a.svc.Authorize))
		r.Post("/verify", a.cardPayment(a.svc.Verify))

		r.Route("/journal", func(r chi.Router) {
			r.Get("/", a.listEntries)
			r.Get("/{entryID}", a.getEntry)
		})

		r.Route("/{authorization}", func(r chi.Router) {
			r.Post("/capture", a.referencePayment(a.svc.Capture))
			r.Post("/refund", a.referencePayment(a.svc.Refund))
			r.Post("/credit", a.referencePayment(a.svc.Credit))
			r.Post("/void", a.referencePayment(a.svc.Void))
		})
	})
}

type cardHandler func(ctx context.Context, req models.CardPayment) (models.PaymentResponse, error)

type referenceHandler func(ctx context.Context, authorization string, req models.ReferencePayment) (models.PaymentResponse, error)

func (a *API) cardPayment(handle cardHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := models.CardPayment{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp, err := handle(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// referencePayment accepts an empty body, voids need nothing but the
// authorization in the path.
func (a *API) referencePayment(handle referenceHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := chi.URLParam(r, "authorization")

		req := models.ReferencePayment{}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		resp, err := handle(r.Context(), authorization, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (a *API) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := a.svc.GetEntry(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (a *API) listEntries(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}
	entries, err := a.svc.ListEntries(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeError(w http.ResponseWriter, err error) {
	var terr *transport.TransportError
	switch {
	case gateway.IsContractError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &terr), errors.Is(err, gateway.ErrMalformedResponse):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
