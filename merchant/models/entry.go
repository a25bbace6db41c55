package models

import "time"

type Operation string

const (
	OperationPurchase  Operation = "purchase"
	OperationAuthorize Operation = "authorize"
	OperationCapture   Operation = "capture"
	OperationRefund    Operation = "refund"
	OperationCredit    Operation = "credit"
	OperationVoid      Operation = "void"
	OperationVerify    Operation = "verify"
)

// Entry is one journaled processor outcome.
type Entry struct {
	ID            string    `json:"id"`
	Operation     Operation `json:"operation"`
	OrderID       string    `json:"order_id,omitempty"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency,omitempty"`
	Authorization string    `json:"authorization,omitempty"`
	Succeeded     bool      `json:"succeeded"`
	Message       string    `json:"message,omitempty"`
	ErrorCode     string    `json:"error_code,omitempty"`
	AVSCode       string    `json:"avs_code,omitempty"`
	CVVCode       string    `json:"cvv_code,omitempty"`
	Test          bool      `json:"test"`
	CreatedAt     time.Time `json:"created_at"`
}
