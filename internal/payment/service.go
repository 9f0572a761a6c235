package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/authz"
	"github.com/condovia/api-estates/internal/estate"
	"github.com/condovia/api-estates/internal/fee"
)

const paymentDateLayout = "2006-01-02"

// FeeDirectory is the slice of the fee repository the recorder needs.
type FeeDirectory interface {
	FindAssignment(id uint) (*fee.Assignment, error)
	FindByID(id uint) (*fee.Fee, error)
}

// UnitDirectory resolves the collaborator rows snapshotted onto receipts.
type UnitDirectory interface {
	FindEstate(id uint) (*estate.Estate, error)
	FindUnit(id uint) (*estate.Unit, error)
}

// Service validates and records payments and issues their receipts.
type Service struct {
	repo  Repository
	fees  FeeDirectory
	units UnitDirectory
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(repo Repository, fees FeeDirectory, units UnitDirectory, log zerolog.Logger) *Service {
	return &Service{repo: repo, fees: fees, units: units, log: log, now: time.Now}
}

// RecordPayment checks the preconditions in order (assignment not already
// paid, no existing payment, exact amount), then persists the payment, the
// status flip and the receipt as one atomic unit. Receipt-number collisions
// are retried with a fresh candidate up to maxIssueAttempts times.
func (s *Service) RecordPayment(actor *estate.Actor, assignmentID uint, req RecordPaymentRequest) (*RecordPaymentResponse, error) {
	assignment, err := s.fees.FindAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	f, err := s.fees.FindByID(assignment.FeeID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.RecordPayments, actor.Role, f.EstateID); err != nil {
		return nil, err
	}

	if assignment.Status == fee.StatusPaid {
		return nil, apperr.Conflict("assignment %d is already paid", assignmentID)
	}
	existing, err := s.repo.FindByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("a payment already exists for assignment %d", assignmentID)
	}
	if !req.Amount.Round(2).Equal(f.Amount) {
		return nil, apperr.Validation("amount",
			fmt.Sprintf("payment amount must equal the fee amount of %s exactly", f.Amount.StringFixed(2)))
	}

	paymentDate := s.today()
	if req.PaymentDate != "" {
		paymentDate, err = time.Parse(paymentDateLayout, req.PaymentDate)
		if err != nil {
			return nil, apperr.Validation("paymentDate", "expected YYYY-MM-DD")
		}
	}

	unit, err := s.units.FindUnit(assignment.UnitID)
	if err != nil {
		return nil, err
	}
	est, err := s.units.FindEstate(f.EstateID)
	if err != nil {
		return nil, err
	}
	snap := snapshot{
		EstateName:     est.Name,
		UnitIdentifier: unit.Identifier,
		FeeName:        f.Name,
	}

	p := &Payment{
		AssignmentID:    assignmentID,
		Amount:          req.Amount.Round(2),
		Method:          req.Method,
		PaymentDate:     paymentDate,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		RecordedByID:    actor.ID,
	}

	issuedAt := s.now()
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		rcpt, err := buildReceipt(p, snap, issuedAt)
		if err != nil {
			return nil, err
		}
		p.ID = 0
		err = s.repo.Record(p, rcpt)
		if errors.Is(err, errNumberTaken) {
			s.log.Warn().
				Uint("assignmentId", assignmentID).
				Str("receiptNumber", rcpt.ReceiptNumber).
				Int("attempt", attempt+1).
				Msg("receipt number collision, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		s.log.Info().
			Uint("paymentId", p.ID).
			Uint("assignmentId", assignmentID).
			Str("receiptNumber", rcpt.ReceiptNumber).
			Str("amount", p.Amount.StringFixed(2)).
			Msg("payment recorded")
		return &RecordPaymentResponse{Payment: p, Receipt: rcpt}, nil
	}
	return nil, fmt.Errorf("could not allocate a unique receipt number after %d attempts", maxIssueAttempts)
}

func (s *Service) GetPayment(id uint) (*Payment, error) {
	return s.repo.FindByID(id)
}

// DeletePayment is rejected whenever a receipt exists for the payment, which
// in practice is every successfully recorded payment.
func (s *Service) DeletePayment(actor *estate.Actor, paymentID uint) error {
	p, err := s.repo.FindByID(paymentID)
	if err != nil {
		return err
	}
	assignment, err := s.fees.FindAssignment(p.AssignmentID)
	if err != nil {
		return err
	}
	f, err := s.fees.FindByID(assignment.FeeID)
	if err != nil {
		return err
	}
	if err := authz.Can(authz.ManageFees, actor.Role, f.EstateID); err != nil {
		return err
	}
	return s.repo.DeletePayment(paymentID)
}

// LookupReceipt reports the receipt-download status for a payment id. A
// missing payment or receipt is the not_found status, not an error.
func (s *Service) LookupReceipt(paymentID uint) (*ReceiptLookup, error) {
	if _, err := s.repo.FindByID(paymentID); err != nil {
		var nf *apperr.NotFoundError
		if errors.As(err, &nf) {
			return &ReceiptLookup{Status: DocumentNotFound}, nil
		}
		return nil, err
	}
	rcpt, err := s.repo.FindReceiptByPayment(paymentID)
	if err != nil {
		return nil, err
	}
	if rcpt == nil {
		return &ReceiptLookup{Status: DocumentNotFound}, nil
	}
	return &ReceiptLookup{Status: rcpt.DocumentStatus, Receipt: rcpt}, nil
}

// SetDocumentStatus records the external renderer's result for a receipt
// document.
func (s *Service) SetDocumentStatus(receiptID uint, status string) (*Receipt, error) {
	if err := s.repo.UpdateDocumentStatus(receiptID, status); err != nil {
		return nil, err
	}
	return s.repo.FindReceipt(receiptID)
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
