package gateway

import "github.com/alovak/bacgateway/gateway/models"

// CVVResult maps the processor's CVV code; blank and unknown codes yield
// models.CVVNoResult.
func CVVResult(code string) models.CVVResult {
	var msg string
	switch code {
	case "M":
		msg = "CVV2/CVC2 Match"
	case "N":
		msg = "CVV2/CVC2 No Match"
	case "P":
		msg = "Not Processed"
	case "S":
		msg = "Merchant has indicated that CVV2/CVC2 is not present on card"
	case "U":
		msg = "Issuer is not certified and/or has not provided Visa encryption keys"
	default:
		return models.CVVNoResult
	}
	return models.CVVResult{Code: code, Message: msg}
}
