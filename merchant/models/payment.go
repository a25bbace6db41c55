package models

import gwmodels "github.com/alovak/bacgateway/gateway/models"

type Card struct {
	Number string `json:"number"`
	// Expiry is the card face date, MM/YY or MM/YYYY.
	Expiry    string `json:"expiry"`
	CVV       string `json:"cvv,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type CardPayment struct {
	Amount   int64  `json:"amount"`
	Card     Card   `json:"card"`
	OrderID  string `json:"order_id,omitempty"`
	Currency string `json:"currency,omitempty"`
	IP       string `json:"ip,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ReferencePayment follows up on an earlier authorization. Amount is
// ignored for voids.
type ReferencePayment struct {
	Amount   int64  `json:"amount"`
	OrderID  string `json:"order_id,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type PaymentResponse struct {
	// EntryID is empty when the outcome could not be journaled.
	EntryID string          `json:"entry_id,omitempty"`
	Result  gwmodels.Result `json:"result"`
}
