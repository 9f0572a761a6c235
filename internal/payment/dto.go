package payment

import "github.com/shopspring/decimal"

// RecordPaymentRequest settles one fee assignment. PaymentDate defaults to
// today when omitted.
type RecordPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Method          string          `json:"method" validate:"required,oneof=CASH BANK_TRANSFER"`
	PaymentDate     string          `json:"paymentDate"` // YYYY-MM-DD
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           string          `json:"notes"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
	Receipt *Receipt `json:"receipt"`
}

// ReceiptLookup is the receipt-download view for a payment: the document
// rendering status plus the receipt when one exists.
type ReceiptLookup struct {
	Status  string   `json:"status"`
	Receipt *Receipt `json:"receipt,omitempty"`
}

type UpdateDocumentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed"`
}
