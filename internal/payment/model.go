package payment

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods accepted by the recorder.
const (
	MethodCash         = "CASH"
	MethodBankTransfer = "BANK_TRANSFER"
)

// Receipt document rendering states, owned by the external renderer.
const (
	DocumentPending   = "pending"
	DocumentCompleted = "completed"
	DocumentFailed    = "failed"
	DocumentNotFound  = "not_found"
)

// Payment is the immutable record that a fee assignment was settled. The
// unique index on AssignmentID is the storage-level guarantee that at most
// one payment exists per assignment, whatever racing callers do.
type Payment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	AssignmentID    uint            `gorm:"not null;uniqueIndex:uniq_payment_assignment" json:"assignmentId"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method          string          `gorm:"size:20;not null" json:"method"`
	PaymentDate     time.Time       `gorm:"type:date;not null" json:"paymentDate"`
	ReferenceNumber string          `gorm:"size:100" json:"referenceNumber"`
	Notes           string          `gorm:"size:1000" json:"notes"`
	RecordedByID    uint            `gorm:"not null" json:"recordedById"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Receipt is the uniquely-numbered, snapshotted proof of a payment. The
// snapshot columns are point-in-time copies and are never re-derived from
// the live estate, unit or fee rows.
type Receipt struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PaymentID      uint            `gorm:"not null;uniqueIndex:uniq_receipt_payment" json:"paymentId"`
	ReceiptNumber  string          `gorm:"size:32;not null;uniqueIndex:uniq_receipt_number" json:"receiptNumber"`
	EstateName     string          `gorm:"size:255;not null" json:"estateName"`
	UnitIdentifier string          `gorm:"size:50;not null" json:"unitIdentifier"`
	FeeName        string          `gorm:"size:255;not null" json:"feeName"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentDate    time.Time       `gorm:"type:date;not null" json:"paymentDate"`
	MethodLabel    string          `gorm:"size:50;not null" json:"methodLabel"`
	DocumentID     string          `gorm:"size:36" json:"documentId"`
	DocumentStatus string          `gorm:"size:20;not null;default:'pending'" json:"documentStatus"`
	IssuedAt       time.Time       `json:"issuedAt"`
}

// Migrate creates the payment tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Payment{}, &Receipt{})
}
