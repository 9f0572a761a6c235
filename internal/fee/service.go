package fee

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/authz"
	"github.com/condovia/api-estates/internal/estate"
)

const dueDateLayout = "2006-01-02"

// UnitDirectory is the slice of the estate repository the fee service needs.
type UnitDirectory interface {
	FindEstate(id uint) (*estate.Estate, error)
	ListOccupiedUnits(estateID uint) ([]estate.Unit, error)
	FindUnitsInEstate(estateID uint, ids []uint) ([]estate.Unit, error)
}

// Service owns fee creation, fan-out and the assignment deletion guards.
type Service struct {
	repo  Repository
	units UnitDirectory
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(repo Repository, units UnitDirectory, log zerolog.Logger) *Service {
	return &Service{repo: repo, units: units, log: log, now: time.Now}
}

// CreateFee validates the request, resolves the target units and creates the
// fee plus its assignments atomically.
func (s *Service) CreateFee(actor *estate.Actor, estateID uint, req CreateFeeRequest) (*CreateFeeResponse, error) {
	if err := authz.Can(authz.ManageFees, actor.Role, estateID); err != nil {
		return nil, err
	}
	if req.AssignToAllUnits == (len(req.UnitIDs) > 0) {
		return nil, apperr.Validation("unitIds", "provide exactly one of assignToAllUnits or a non-empty unitIds list")
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("amount", "amount must be greater than zero")
	}
	due, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		return nil, apperr.Validation("dueDate", "expected YYYY-MM-DD")
	}
	today := s.today()
	if due.Before(today) {
		return nil, apperr.Validation("dueDate", "due date cannot be in the past")
	}
	if _, err := s.units.FindEstate(estateID); err != nil {
		return nil, err
	}

	var unitIDs []uint
	if req.AssignToAllUnits {
		occupied, err := s.units.ListOccupiedUnits(estateID)
		if err != nil {
			return nil, err
		}
		for _, u := range occupied {
			unitIDs = append(unitIDs, u.ID)
		}
	} else {
		resolved, err := s.units.FindUnitsInEstate(estateID, req.UnitIDs)
		if err != nil {
			return nil, err
		}
		if len(resolved) != len(req.UnitIDs) {
			return nil, apperr.Validation("unitIds", "one or more units do not exist or belong to a different estate")
		}
		for _, u := range resolved {
			unitIDs = append(unitIDs, u.ID)
		}
	}

	f := &Fee{
		EstateID:    estateID,
		CreatedByID: actor.ID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount.Round(2),
		DueDate:     due,
	}
	if err := s.repo.CreateWithAssignments(f, unitIDs); err != nil {
		return nil, err
	}
	s.log.Info().
		Uint("feeId", f.ID).
		Uint("estateId", estateID).
		Int("assignments", len(unitIDs)).
		Str("amount", f.Amount.StringFixed(2)).
		Msg("fee created")
	return &CreateFeeResponse{Fee: f, AssignedUnits: len(unitIDs)}, nil
}

// AssignToUnits adds assignments for the given units to an existing fee.
// Rejected wholesale when any unit is foreign to the fee's estate or already
// assigned; the conflict error reports how many units collided.
func (s *Service) AssignToUnits(actor *estate.Actor, feeID uint, unitIDs []uint) ([]Assignment, error) {
	f, err := s.repo.FindByID(feeID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.ManageFees, actor.Role, f.EstateID); err != nil {
		return nil, err
	}
	if len(unitIDs) == 0 {
		return nil, apperr.Validation("unitIds", "unitIds must not be empty")
	}
	resolved, err := s.units.FindUnitsInEstate(f.EstateID, unitIDs)
	if err != nil {
		return nil, err
	}
	if len(resolved) != len(unitIDs) {
		return nil, apperr.Validation("unitIds", "one or more units do not exist or belong to a different estate")
	}
	existing, err := s.repo.AssignedUnitIDs(feeID, unitIDs)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperr.Conflict("%d unit(s) already have an assignment for this fee", len(existing))
	}
	return s.repo.AddAssignments(feeID, unitIDs)
}

func (s *Service) GetFee(feeID uint) (*Fee, error) {
	return s.repo.FindByID(feeID)
}

func (s *Service) ListFees(estateID uint) ([]Fee, error) {
	return s.repo.ListByEstate(estateID)
}

func (s *Service) ListAssignments(feeID uint) ([]Assignment, error) {
	if _, err := s.repo.FindByID(feeID); err != nil {
		return nil, err
	}
	return s.repo.ListAssignments(feeID)
}

// DeleteFee removes a fee and cascades its UNPAID assignments. A fee with
// paid history is rejected with IntegrityViolation.
func (s *Service) DeleteFee(actor *estate.Actor, feeID uint) error {
	f, err := s.repo.FindByID(feeID)
	if err != nil {
		return err
	}
	if err := authz.Can(authz.ManageFees, actor.Role, f.EstateID); err != nil {
		return err
	}
	if err := s.repo.DeleteFee(feeID); err != nil {
		return err
	}
	s.log.Info().Uint("feeId", feeID).Msg("fee deleted")
	return nil
}

// DeleteAssignment removes one UNPAID assignment; PAID assignments are
// never deletable.
func (s *Service) DeleteAssignment(actor *estate.Actor, assignmentID uint) error {
	a, err := s.repo.FindAssignment(assignmentID)
	if err != nil {
		return err
	}
	f, err := s.repo.FindByID(a.FeeID)
	if err != nil {
		return err
	}
	if err := authz.Can(authz.ManageFees, actor.Role, f.EstateID); err != nil {
		return err
	}
	return s.repo.DeleteAssignment(assignmentID)
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
