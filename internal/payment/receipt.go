package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/condovia/api-estates/internal/utils"
)

const (
	receiptPrefix    = "RCP"
	receiptSuffixLen = 6

	// maxIssueAttempts bounds the regenerate-and-retry loop on a
	// receipt-number collision. The unique index is the source of truth;
	// after this many losses we fail loudly instead of looping.
	maxIssueAttempts = 5
)

// methodLabels maps stored payment methods to the display text snapshotted
// onto receipts.
var methodLabels = map[string]string{
	MethodCash:         "Cash",
	MethodBankTransfer: "Bank Transfer",
}

// MethodLabel returns the human-readable form of a payment method.
func MethodLabel(method string) string {
	if label, ok := methodLabels[method]; ok {
		return label
	}
	return method
}

// NewReceiptNumber builds a candidate number shaped RCP-YYYYMMDD-XXXXXX.
// Uniqueness is not guaranteed here; the caller retries against the unique
// index on collision.
func NewReceiptNumber(issuedAt time.Time) (string, error) {
	suffix, err := utils.RandomSuffix(receiptSuffixLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", receiptPrefix, issuedAt.Format("20060102"), suffix), nil
}

// snapshot holds the denormalized facts copied onto a receipt at issuance.
type snapshot struct {
	EstateName     string
	UnitIdentifier string
	FeeName        string
}

// buildReceipt assembles a receipt for a payment with a fresh candidate
// number and a new external document job id.
func buildReceipt(p *Payment, snap snapshot, issuedAt time.Time) (*Receipt, error) {
	number, err := NewReceiptNumber(issuedAt)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		ReceiptNumber:  number,
		EstateName:     snap.EstateName,
		UnitIdentifier: snap.UnitIdentifier,
		FeeName:        snap.FeeName,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		MethodLabel:    MethodLabel(p.Method),
		DocumentID:     uuid.NewString(),
		DocumentStatus: DocumentPending,
		IssuedAt:       issuedAt,
	}, nil
}
