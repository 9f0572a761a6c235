package payment

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/fee"
)

// errNumberTaken signals a receipt-number collision to the retry loop in the
// service. Never escapes the package.
var errNumberTaken = errors.New("receipt number already taken")

// Repository is the storage seam for payments and receipts.
type Repository interface {
	Record(p *Payment, rcpt *Receipt) error
	FindByID(id uint) (*Payment, error)
	FindByAssignment(assignmentID uint) (*Payment, error)
	DeletePayment(id uint) error
	FindReceiptByPayment(paymentID uint) (*Receipt, error)
	FindReceipt(id uint) (*Receipt, error)
	UpdateDocumentStatus(receiptID uint, status string) error
}

type gormRepository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{DB: db}
}

// uniqueViolation reports whether err is a Postgres unique violation on the
// named constraint.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

// Record persists the payment, flips its assignment to PAID and creates the
// receipt, all in one transaction. Unique-index violations from racing
// callers come back as the same ConflictError the service pre-checks would
// have produced; a receipt-number collision comes back as errNumberTaken so
// the caller can retry with a fresh candidate.
func (r *gormRepository) Record(p *Payment, rcpt *Receipt) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			if uniqueViolation(err, "uniq_payment_assignment") {
				return apperr.Conflict("a payment already exists for assignment %d", p.AssignmentID)
			}
			return err
		}
		res := tx.Model(&fee.Assignment{}).
			Where("id = ? AND status = ?", p.AssignmentID, fee.StatusUnpaid).
			Update("status", fee.StatusPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("assignment %d is already paid", p.AssignmentID)
		}
		rcpt.PaymentID = p.ID
		if err := tx.Create(rcpt).Error; err != nil {
			switch {
			case uniqueViolation(err, "uniq_receipt_number"):
				return errNumberTaken
			case uniqueViolation(err, "uniq_receipt_payment"):
				return apperr.Conflict("a receipt already exists for payment %d", p.ID)
			}
			return err
		}
		return nil
	})
}

func (r *gormRepository) FindByID(id uint) (*Payment, error) {
	var p Payment
	if err := r.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment", id)
		}
		return nil, err
	}
	return &p, nil
}

// FindByAssignment returns the payment for an assignment, or (nil, nil) when
// none exists. Absence is an ordinary result here, not an error.
func (r *gormRepository) FindByAssignment(assignmentID uint) (*Payment, error) {
	var p Payment
	err := r.DB.Where("assignment_id = ?", assignmentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePayment removes a payment only when no receipt references it. The
// receipt check runs in the same transaction as the delete.
func (r *gormRepository) DeletePayment(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Receipt{}).Where("payment_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Integrity("payment %d has a receipt and cannot be deleted", id)
		}
		res := tx.Delete(&Payment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("payment", id)
		}
		return nil
	})
}

// FindReceiptByPayment returns the receipt for a payment, or (nil, nil) when
// none exists yet.
func (r *gormRepository) FindReceiptByPayment(paymentID uint) (*Receipt, error) {
	var rc Receipt
	err := r.DB.Where("payment_id = ?", paymentID).First(&rc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *gormRepository) FindReceipt(id uint) (*Receipt, error) {
	var rc Receipt
	if err := r.DB.First(&rc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("receipt", id)
		}
		return nil, err
	}
	return &rc, nil
}

// UpdateDocumentStatus records the external renderer's verdict. Only the
// document columns move; the snapshot stays frozen.
func (r *gormRepository) UpdateDocumentStatus(receiptID uint, status string) error {
	res := r.DB.Model(&Receipt{}).
		Where("id = ?", receiptID).
		Update("document_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("receipt", receiptID)
	}
	return nil
}
