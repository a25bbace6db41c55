package gateway

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alovak/bacgateway/gateway/models"
	"github.com/alovak/bacgateway/internal/expiry"
	"github.com/alovak/bacgateway/internal/pan"
	"github.com/alovak/bacgateway/internal/security"
	"github.com/shopspring/decimal"
)

// Action is the operation name sent in the type field.
type Action string

const (
	ActionSale    Action = "sale"
	ActionAuth    Action = "auth"
	ActionCapture Action = "capture"
	ActionRefund  Action = "refund"
	ActionVoid    Action = "void"
)

// Wire field names.
const (
	FieldKeyID         = "key_id"
	FieldAmount        = "amount"
	FieldOrderID       = "orderid"
	FieldCurrency      = "currency"
	FieldCCNumber      = "ccnumber"
	FieldCCExp         = "ccexp"
	FieldCVV           = "cvv"
	FieldTime          = "time"
	FieldHash          = "hash"
	FieldIPAddress     = "ipaddress"
	FieldEmail         = "email"
	FieldTransactionID = "transactionid"
	FieldType          = "type"
)

type Field struct {
	Key   string
	Value string
}

// Request is an ordered, signed field set for one operation. It is built
// once per call and not modified afterwards.
type Request struct {
	fields []Field
}

// set overwrites an existing key in place or appends a new one.
func (r *Request) set(key, value string) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

func (r Request) Get(key string) (string, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Action returns the value of the type field.
func (r Request) Action() Action {
	v, _ := r.Get(FieldType)
	return Action(v)
}

// Fields returns a copy of the fields in build order.
func (r Request) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Encode serializes the request as key=value pairs joined with &. Blank
// values are left out entirely; "false" is a value, not a blank.
func (r Request) Encode() string {
	parts := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		parts = append(parts, f.Key+"="+url.QueryEscape(f.Value))
	}
	return strings.Join(parts, "&")
}

// Sign computes the request hash over order id, amount, timestamp and
// secret, joined with "|" in that order.
func Sign(d security.Digester, orderID, amount string, ts int64, secret string) (string, error) {
	return d.Digest128(strings.Join([]string{orderID, amount, strconv.FormatInt(ts, 10), secret}, "|"))
}

// FormatAmount converts minor units to the processor's two-decimal form.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// RequestBuilder assembles signed requests. The zero value is not usable;
// Gateway wires one from its Config.
type RequestBuilder struct {
	KeyID           string
	HashKey         string
	DefaultCurrency string
	Digester        security.Digester
	Now             func() time.Time
}

func (b *RequestBuilder) Purchase(amount int64, card models.CreditCard, opts models.Options) (Request, error) {
	return b.cardRequest(ActionSale, amount, card, opts)
}

func (b *RequestBuilder) Authorize(amount int64, card models.CreditCard, opts models.Options) (Request, error) {
	return b.cardRequest(ActionAuth, amount, card, opts)
}

func (b *RequestBuilder) Capture(amount int64, authorization string, opts models.Options) (Request, error) {
	return b.referenceRequest(ActionCapture, amount, authorization, opts)
}

func (b *RequestBuilder) Refund(amount int64, authorization string, opts models.Options) (Request, error) {
	return b.referenceRequest(ActionRefund, amount, authorization, opts)
}

// Credit is sent to the processor as a refund against authorization.
func (b *RequestBuilder) Credit(amount int64, authorization string, opts models.Options) (Request, error) {
	return b.referenceRequest(ActionRefund, amount, authorization, opts)
}

// Void carries no amount; the hash is computed over an empty amount.
func (b *RequestBuilder) Void(authorization string, opts models.Options) (Request, error) {
	if strings.TrimSpace(authorization) == "" {
		return Request{}, missing(ActionVoid, FieldTransactionID)
	}
	var req Request
	b.addKeyID(&req)
	if err := b.addHashTime(&req, "", opts); err != nil {
		return Request{}, err
	}
	req.set(FieldTransactionID, authorization)
	req.set(FieldOrderID, opts.OrderID)
	req.set(FieldType, string(ActionVoid))
	return req, nil
}

func (b *RequestBuilder) cardRequest(action Action, amount int64, card models.CreditCard, opts models.Options) (Request, error) {
	if amount < 0 {
		return Request{}, ErrInvalidAmount
	}
	if strings.TrimSpace(card.Number) == "" {
		return Request{}, missing(action, FieldCCNumber)
	}
	number := pan.Normalize(card.Number)
	if err := pan.Validate(number); err != nil {
		return Request{}, errorf(ErrInvalidCard, err)
	}
	exp, err := expiry.Wire(card.Month, card.Year)
	if err != nil {
		return Request{}, errorf(ErrInvalidCard, err)
	}

	var req Request
	b.addKeyID(&req)
	b.addInvoice(&req, amount, opts)
	req.set(FieldCCNumber, number)
	req.set(FieldCCExp, exp)
	req.set(FieldCVV, card.VerificationValue)
	if err := b.addHashTime(&req, FormatAmount(amount), opts); err != nil {
		return Request{}, err
	}
	req.set(FieldIPAddress, opts.IP)
	req.set(FieldEmail, opts.Email)
	req.set(FieldType, string(action))
	return req, nil
}

func (b *RequestBuilder) referenceRequest(action Action, amount int64, authorization string, opts models.Options) (Request, error) {
	if strings.TrimSpace(authorization) == "" {
		return Request{}, missing(action, FieldTransactionID)
	}
	if amount < 0 {
		return Request{}, ErrInvalidAmount
	}

	var req Request
	b.addKeyID(&req)
	if err := b.addHashTime(&req, FormatAmount(amount), opts); err != nil {
		return Request{}, err
	}
	req.set(FieldTransactionID, authorization)
	b.addInvoice(&req, amount, opts)
	req.set(FieldType, string(action))
	return req, nil
}

func (b *RequestBuilder) addKeyID(req *Request) {
	req.set(FieldKeyID, b.KeyID)
}

func (b *RequestBuilder) addInvoice(req *Request, amount int64, opts models.Options) {
	req.set(FieldAmount, FormatAmount(amount))
	req.set(FieldOrderID, opts.OrderID)
	currency := opts.Currency
	if currency == "" {
		currency = b.DefaultCurrency
	}
	req.set(FieldCurrency, currency)
}

// addHashTime reads the clock once; time and hash always travel together.
func (b *RequestBuilder) addHashTime(req *Request, amount string, opts models.Options) error {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	ts := now().Unix()
	hash, err := Sign(b.Digester, opts.OrderID, amount, ts, b.HashKey)
	if err != nil {
		return errorf(ErrSigning, err)
	}
	req.set(FieldTime, strconv.FormatInt(ts, 10))
	req.set(FieldHash, hash)
	return nil
}
