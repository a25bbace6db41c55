package gateway

import "github.com/alovak/bacgateway/gateway/models"

// AVSResult maps the processor's single-character AVS code. Blank and
// unknown codes yield models.AVSNoResult.
func AVSResult(code string) models.AVSResult {
	msg, ok := avsMessage(code)
	if !ok {
		return models.AVSNoResult
	}
	return models.AVSResult{
		Code:        code,
		Message:     msg,
		StreetMatch: streetMatch(code),
		PostalMatch: postalMatch(code),
	}
}

// avsMessage is the processor's table. Several codes are recognized but
// carry no description.
func avsMessage(code string) (string, bool) {
	switch code {
	case "X":
		return "Exact match, 9-character numeric ZIP", true
	case "Y":
		return "Exact match, 5-character numeric ZIP", true
	case "A":
		return "Address match only", true
	case "W":
		return "9-character numeric ZIP match only", true
	case "Z":
		return "5-character Zip match only", true
	case "N":
		return "No address or ZIP match", true
	case "U":
		return "Address unavailable", true
	case "G":
		return "Non-U.S. Issuer does not participate", true
	case "R":
		return "Issuer system unavailable", true
	case "E":
		return "Not a mail/phone order", true
	case "S":
		return "Service not supported", true
	case "0":
		return "AVS Not Available", true
	case "D", "M", "B", "P", "L", "C", "I", "O":
		return "", true
	}
	return "", false
}

func streetMatch(code string) models.Match {
	switch code {
	case "A", "B", "D", "H", "J", "M", "O", "Q", "T", "V", "X", "Y":
		return models.MatchYes
	case "C", "K", "L", "N", "W", "Z":
		return models.MatchNo
	case "G", "S":
		return models.MatchUnsupported
	}
	return models.MatchUnknown
}

func postalMatch(code string) models.Match {
	switch code {
	case "D", "H", "F", "J", "L", "M", "P", "Q", "V", "W", "X", "Y", "Z":
		return models.MatchYes
	case "A", "C", "K", "N", "O":
		return models.MatchNo
	case "G", "S":
		return models.MatchUnsupported
	}
	return models.MatchUnknown
}
