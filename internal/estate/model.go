package estate

import (
	"time"

	"gorm.io/gorm"
)

// Estate is a managed property development. Fees are scoped to one estate.
type Estate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Unit is a single lettable unit inside an estate. Occupancy decides whether
// the unit counts towards fee liability.
type Unit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EstateID   uint      `gorm:"not null;index;uniqueIndex:uniq_unit_identifier" json:"estateId"`
	Identifier string    `gorm:"size:50;not null;uniqueIndex:uniq_unit_identifier" json:"identifier"`
	IsOccupied bool      `gorm:"not null;default:false" json:"isOccupied"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Actor roles. Managers administer fees, staff record payments.
const (
	RoleManager  = "manager"
	RoleStaff    = "staff"
	RoleResident = "resident"
)

// Actor is anyone who calls into the core operations. Every mutating
// operation takes the acting Actor explicitly.
type Actor struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DisplayName  string    `gorm:"size:255;not null" json:"displayName"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'resident'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Migrate creates the collaborator tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Estate{}, &Unit{}, &Actor{})
}
