package fee

import (
	"errors"

	"gorm.io/gorm"

	"github.com/condovia/api-estates/internal/apperr"
)

// Repository is the storage seam for fees and assignments. The service layer
// talks to this interface; gormRepository is the Postgres implementation.
type Repository interface {
	CreateWithAssignments(f *Fee, unitIDs []uint) error
	FindByID(id uint) (*Fee, error)
	ListByEstate(estateID uint) ([]Fee, error)
	DeleteFee(feeID uint) error

	AddAssignments(feeID uint, unitIDs []uint) ([]Assignment, error)
	AssignedUnitIDs(feeID uint, unitIDs []uint) ([]uint, error)
	FindAssignment(id uint) (*Assignment, error)
	ListAssignments(feeID uint) ([]Assignment, error)
	DeleteAssignment(id uint) error
}

type gormRepository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{DB: db}
}

// CreateWithAssignments creates the fee row and one UNPAID assignment per
// unit inside a single transaction: either every assignment exists afterward
// or none do.
func (r *gormRepository) CreateWithAssignments(f *Fee, unitIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(f).Error; err != nil {
			return err
		}
		if len(unitIDs) == 0 {
			return nil
		}
		assignments := make([]*Assignment, 0, len(unitIDs))
		for _, unitID := range unitIDs {
			assignments = append(assignments, &Assignment{
				FeeID:  f.ID,
				UnitID: unitID,
				Status: StatusUnpaid,
			})
		}
		return tx.Create(assignments).Error
	})
}

func (r *gormRepository) FindByID(id uint) (*Fee, error) {
	var f Fee
	if err := r.DB.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("fee", id)
		}
		return nil, err
	}
	return &f, nil
}

func (r *gormRepository) ListByEstate(estateID uint) ([]Fee, error) {
	var list []Fee
	err := r.DB.Where("estate_id = ?", estateID).Order("due_date ASC").Find(&list).Error
	return list, err
}

// DeleteFee removes a fee and its UNPAID assignments in one transaction. The
// paid-history check runs inside the same transaction, before any row is
// removed, so a PAID assignment can never be cascaded away.
func (r *gormRepository) DeleteFee(feeID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var paid int64
		err := tx.Model(&Assignment{}).
			Where("fee_id = ? AND status = ?", feeID, StatusPaid).
			Count(&paid).Error
		if err != nil {
			return err
		}
		if paid > 0 {
			return apperr.Integrity("fee %d has %d paid assignment(s) and cannot be deleted", feeID, paid)
		}
		if err := tx.Where("fee_id = ?", feeID).Delete(&Assignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Fee{}, feeID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("fee", feeID)
		}
		return nil
	})
}

// AddAssignments appends UNPAID assignments for the given units to an
// existing fee, all in one transaction.
func (r *gormRepository) AddAssignments(feeID uint, unitIDs []uint) ([]Assignment, error) {
	assignments := make([]Assignment, 0, len(unitIDs))
	for _, unitID := range unitIDs {
		assignments = append(assignments, Assignment{
			FeeID:  feeID,
			UnitID: unitID,
			Status: StatusUnpaid,
		})
	}
	if err := r.DB.Create(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// AssignedUnitIDs returns the subset of unitIDs that already carry an
// assignment for this fee.
func (r *gormRepository) AssignedUnitIDs(feeID uint, unitIDs []uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&Assignment{}).
		Where("fee_id = ? AND unit_id IN ?", feeID, unitIDs).
		Pluck("unit_id", &ids).Error
	return ids, err
}

func (r *gormRepository) FindAssignment(id uint) (*Assignment, error) {
	var a Assignment
	if err := r.DB.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("assignment", id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *gormRepository) ListAssignments(feeID uint) ([]Assignment, error) {
	var list []Assignment
	err := r.DB.Where("fee_id = ?", feeID).Order("id ASC").Find(&list).Error
	return list, err
}

// DeleteAssignment removes one assignment. The status guard runs in the
// delete predicate itself so a PAID row can never be removed, not even by a
// racing caller.
func (r *gormRepository) DeleteAssignment(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var a Assignment
		if err := tx.First(&a, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("assignment", id)
			}
			return err
		}
		if a.Status == StatusPaid {
			return apperr.Integrity("assignment %d is paid and cannot be deleted", id)
		}
		res := tx.Where("id = ? AND status = ?", id, StatusUnpaid).Delete(&Assignment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Integrity("assignment %d is paid and cannot be deleted", id)
		}
		return nil
	})
}
