package gateway

import (
	"net/url"
	"strings"

	"github.com/alovak/bacgateway/internal/pan"
)

const filtered = "[FILTERED]"

// Scrub masks card data and the request hash in a form-encoded transcript.
func Scrub(transcript string) string {
	pairs := strings.Split(transcript, "&")
	for i, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		switch key {
		case FieldCCNumber:
			if v, err := url.QueryUnescape(value); err == nil {
				value = v
			}
			pairs[i] = key + "=" + pan.Mask(value)
		case FieldCVV, FieldHash:
			pairs[i] = key + "=" + filtered
		}
	}
	return strings.Join(pairs, "&")
}
