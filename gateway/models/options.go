package models

// Options are the per-call extras recognized by every operation.
type Options struct {
	OrderID  string
	Currency string
	IP       string
	Email    string
}
