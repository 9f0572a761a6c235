package fee

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Assignment status values. The only legal transition is UNPAID -> PAID and
// it happens exclusively as a side effect of a recorded payment.
const (
	StatusUnpaid = "UNPAID"
	StatusPaid   = "PAID"
)

// Fee is a monetary obligation levied against the units of one estate.
type Fee struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	EstateID    uint            `gorm:"not null;index" json:"estateId"`
	CreatedByID uint            `gorm:"not null" json:"createdById"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"size:1000" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDate     time.Time       `gorm:"type:date;not null" json:"dueDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Assignment links one fee to one unit and tracks whether that unit paid.
// The (fee, unit) pair is unique at the storage level.
type Assignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FeeID     uint      `gorm:"not null;uniqueIndex:uniq_fee_unit" json:"feeId"`
	UnitID    uint      `gorm:"not null;uniqueIndex:uniq_fee_unit;index" json:"unitId"`
	Status    string    `gorm:"size:10;not null;default:'UNPAID';index" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate creates the fee tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Fee{}, &Assignment{})
}
