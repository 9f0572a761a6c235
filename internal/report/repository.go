package report

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/estate"
	"github.com/condovia/api-estates/internal/fee"
	"github.com/condovia/api-estates/internal/payment"
)

// Repository is the read-only query seam the aggregator computes from.
// Nothing here mutates state.
type Repository interface {
	FeeByID(id uint) (*fee.Fee, error)
	FeesByEstate(estateID uint) ([]fee.Fee, error)
	EstateByID(id uint) (*estate.Estate, error)
	AllEstates() ([]estate.Estate, error)
	CountOccupiedUnits(estateID uint) (int64, error)
	CountPaidAssignments(feeID uint) (int64, error)
	SumCollected(feeID uint) (decimal.Decimal, error)
	UnpaidOccupiedUnits(feeID, estateID uint) ([]estate.Unit, error)
}

type gormRepository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{DB: db}
}

func (r *gormRepository) FeeByID(id uint) (*fee.Fee, error) {
	var f fee.Fee
	if err := r.DB.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("fee", id)
		}
		return nil, err
	}
	return &f, nil
}

func (r *gormRepository) FeesByEstate(estateID uint) ([]fee.Fee, error) {
	var list []fee.Fee
	err := r.DB.Where("estate_id = ?", estateID).Order("due_date ASC").Find(&list).Error
	return list, err
}

func (r *gormRepository) EstateByID(id uint) (*estate.Estate, error) {
	var e estate.Estate
	if err := r.DB.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("estate", id)
		}
		return nil, err
	}
	return &e, nil
}

func (r *gormRepository) AllEstates() ([]estate.Estate, error) {
	var list []estate.Estate
	err := r.DB.Order("id ASC").Find(&list).Error
	return list, err
}

func (r *gormRepository) CountOccupiedUnits(estateID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&estate.Unit{}).
		Where("estate_id = ? AND is_occupied = ?", estateID, true).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) CountPaidAssignments(feeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&fee.Assignment{}).
		Where("fee_id = ? AND status = ?", feeID, fee.StatusPaid).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) SumCollected(feeID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.Model(&payment.Payment{}).
		Joins("JOIN assignments ON assignments.id = payments.assignment_id").
		Where("assignments.fee_id = ?", feeID).
		Select("COALESCE(SUM(payments.amount), 0)").
		Scan(&total).Error
	return total, err
}

// UnpaidOccupiedUnits lists the occupied units of the estate that have no
// PAID assignment for the fee.
func (r *gormRepository) UnpaidOccupiedUnits(feeID, estateID uint) ([]estate.Unit, error) {
	paid := r.DB.Model(&fee.Assignment{}).
		Select("unit_id").
		Where("fee_id = ? AND status = ?", feeID, fee.StatusPaid)

	var units []estate.Unit
	err := r.DB.
		Where("estate_id = ? AND is_occupied = ?", estateID, true).
		Where("id NOT IN (?)", paid).
		Order("identifier ASC").
		Find(&units).Error
	return units, err
}
