package gateway

import (
	"net/url"
	"strings"

	"github.com/alovak/bacgateway/gateway/models"
)

// Processor response keys.
const (
	RespStatus       = "response"
	RespText         = "responsetext"
	RespAuthCode     = "authcode"
	RespAVS          = "avsresponse"
	RespCVV          = "cvvresponse"
	RespResponseCode = "response_code"
)

// StatusApproved is the only status value that means success.
const StatusApproved = "1"

// Response is the form-decoded processor reply.
type Response map[string]string

// ParseResponse decodes a form-encoded body. Pairs are split on '&' only,
// so ';' may appear inside values. An empty body is an empty Response, not
// an error. Repeated keys keep the last value.
func ParseResponse(body []byte) (Response, error) {
	resp := Response{}
	s := strings.TrimSpace(string(body))
	if s == "" {
		return resp, nil
	}
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, errorf(ErrMalformedResponse, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, errorf(ErrMalformedResponse, err)
		}
		resp[key] = value
	}
	return resp, nil
}

// Classify turns a parsed response into a Result. It is pure: equal inputs
// give equal results.
func Classify(resp Response, test bool) models.Result {
	succeeded := resp[RespStatus] == StatusApproved

	params := make(map[string]string, len(resp))
	for k, v := range resp {
		params[k] = v
	}

	res := models.Result{
		Succeeded:     succeeded,
		Message:       resp[RespText],
		Authorization: resp[RespAuthCode],
		AVS:           AVSResult(strings.TrimSpace(resp[RespAVS])),
		CVV:           CVVResult(strings.TrimSpace(resp[RespCVV])),
		Test:          test,
		Params:        params,
	}
	if !succeeded {
		res.ErrorCode = resp[RespResponseCode]
	}
	return res
}

var responseCodes = map[string]string{
	"100": "Transaction was approved",
}

// ResponseCodeMessage describes a processor response_code, when known.
func ResponseCodeMessage(code string) (string, bool) {
	msg, ok := responseCodes[code]
	return msg, ok
}
