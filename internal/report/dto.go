package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnpaidUnit is one liable unit that has not paid a fee yet.
type UnpaidUnit struct {
	UnitID         uint            `json:"unitId"`
	UnitIdentifier string          `json:"unitIdentifier"`
	EstateID       uint            `json:"estateId"`
	EstateName     string          `json:"estateName"`
	AmountDue      decimal.Decimal `json:"amountDue"`
	DueDate        time.Time       `json:"dueDate"`
	DaysOverdue    int             `json:"daysOverdue"`
}

// FeePaymentStatus is the per-fee collection picture. The liability
// population is the occupied units of the fee's estate.
type FeePaymentStatus struct {
	FeeID            uint            `json:"feeId"`
	FeeName          string          `json:"feeName"`
	EstateID         uint            `json:"estateId"`
	Amount           decimal.Decimal `json:"amount"`
	DueDate          time.Time       `json:"dueDate"`
	TotalUnits       int64           `json:"totalUnits"`
	PaidUnits        int64           `json:"paidUnits"`
	UnpaidUnitsCount int64           `json:"unpaidUnitsCount"`
	TotalExpected    decimal.Decimal `json:"totalExpected"`
	TotalCollected   decimal.Decimal `json:"totalCollected"`
	TotalPending     decimal.Decimal `json:"totalPending"`
	PaymentRate      decimal.Decimal `json:"paymentRate"`
	UnpaidUnits      []UnpaidUnit    `json:"unpaidUnits"`
}

// FeeSummary is FeePaymentStatus without the unpaid-unit listing, used in
// estate and overall summaries.
type FeeSummary struct {
	FeeID          uint            `json:"feeId"`
	FeeName        string          `json:"feeName"`
	DueDate        time.Time       `json:"dueDate"`
	TotalUnits     int64           `json:"totalUnits"`
	PaidUnits      int64           `json:"paidUnits"`
	TotalExpected  decimal.Decimal `json:"totalExpected"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
	TotalPending   decimal.Decimal `json:"totalPending"`
	PaymentRate    decimal.Decimal `json:"paymentRate"`
}

type EstateSummary struct {
	EstateID       uint            `json:"estateId"`
	EstateName     string          `json:"estateName"`
	FeeCount       int             `json:"feeCount"`
	TotalExpected  decimal.Decimal `json:"totalExpected"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
	TotalPending   decimal.Decimal `json:"totalPending"`
	PaymentRate    decimal.Decimal `json:"paymentRate"`
	Fees           []FeeSummary    `json:"fees"`
}

type OverallSummary struct {
	Estates        []EstateSummary `json:"estates"`
	FeeCount       int             `json:"feeCount"`
	TotalExpected  decimal.Decimal `json:"totalExpected"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
	TotalPending   decimal.Decimal `json:"totalPending"`
	PaymentRate    decimal.Decimal `json:"paymentRate"`
}
