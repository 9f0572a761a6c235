package fee

import "github.com/shopspring/decimal"

// CreateFeeRequest creates a fee and fans it out. Exactly one of
// AssignToAllUnits or UnitIDs must be given.
type CreateFeeRequest struct {
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	DueDate          string          `json:"dueDate" validate:"required"` // YYYY-MM-DD
	AssignToAllUnits bool            `json:"assignToAllUnits"`
	UnitIDs          []uint          `json:"unitIds"`
}

type AssignUnitsRequest struct {
	UnitIDs []uint `json:"unitIds" validate:"required,min=1"`
}

// CreateFeeResponse reports the fee plus how many assignments were fanned
// out with it.
type CreateFeeResponse struct {
	Fee           *Fee `json:"fee"`
	AssignedUnits int  `json:"assignedUnits"`
}
