package models

// Result is the normalized outcome of one processor round trip.
// Empty strings stand for fields the processor did not return.
type Result struct {
	Succeeded     bool              `json:"succeeded"`
	Message       string            `json:"message,omitempty"`
	Authorization string            `json:"authorization,omitempty"`
	AVS           AVSResult         `json:"avs"`
	CVV           CVVResult         `json:"cvv"`
	ErrorCode     string            `json:"error_code,omitempty"`
	Test          bool              `json:"test"`
	Params        map[string]string `json:"params"`
}

// Match is a tri-state AVS component match.
type Match string

const (
	MatchUnknown     Match = ""
	MatchYes         Match = "Y"
	MatchNo          Match = "N"
	MatchUnsupported Match = "X"
)

// AVSResult is the address verification outcome. The zero value is the
// "no result" sentinel for blank or unrecognized codes.
type AVSResult struct {
	Code        string `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
	StreetMatch Match  `json:"street_match,omitempty"`
	PostalMatch Match  `json:"postal_match,omitempty"`
}

// CVVResult is the card verification value outcome. The zero value is the
// "no result" sentinel.
type CVVResult struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

var (
	AVSNoResult = AVSResult{}
	CVVNoResult = CVVResult{}
)

// Recognized reports whether the code was found in the processor's table.
func (r AVSResult) Recognized() bool { return r.Code != "" }

func (r CVVResult) Recognized() bool { return r.Code != "" }
