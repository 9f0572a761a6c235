package fee

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/estate"
)

type fakeRepo struct {
	fees        map[uint]*Fee
	assignments map[uint]*Assignment
	nextFeeID   uint
	nextAsgID   uint
	failFanOut  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		fees:        map[uint]*Fee{},
		assignments: map[uint]*Assignment{},
	}
}

func (r *fakeRepo) CreateWithAssignments(f *Fee, unitIDs []uint) error {
	if r.failFanOut {
		return errors.New("insert failed")
	}
	r.nextFeeID++
	f.ID = r.nextFeeID
	r.fees[f.ID] = f
	for _, unitID := range unitIDs {
		r.nextAsgID++
		r.assignments[r.nextAsgID] = &Assignment{
			ID: r.nextAsgID, FeeID: f.ID, UnitID: unitID, Status: StatusUnpaid,
		}
	}
	return nil
}

func (r *fakeRepo) FindByID(id uint) (*Fee, error) {
	f, ok := r.fees[id]
	if !ok {
		return nil, apperr.NotFound("fee", id)
	}
	return f, nil
}

func (r *fakeRepo) ListByEstate(estateID uint) ([]Fee, error) {
	var list []Fee
	for _, f := range r.fees {
		if f.EstateID == estateID {
			list = append(list, *f)
		}
	}
	return list, nil
}

func (r *fakeRepo) DeleteFee(feeID uint) error {
	if _, ok := r.fees[feeID]; !ok {
		return apperr.NotFound("fee", feeID)
	}
	for _, a := range r.assignments {
		if a.FeeID == feeID && a.Status == StatusPaid {
			return apperr.Integrity("fee %d has paid assignment(s) and cannot be deleted", feeID)
		}
	}
	for id, a := range r.assignments {
		if a.FeeID == feeID {
			delete(r.assignments, id)
		}
	}
	delete(r.fees, feeID)
	return nil
}

func (r *fakeRepo) AddAssignments(feeID uint, unitIDs []uint) ([]Assignment, error) {
	var created []Assignment
	for _, unitID := range unitIDs {
		r.nextAsgID++
		a := &Assignment{ID: r.nextAsgID, FeeID: feeID, UnitID: unitID, Status: StatusUnpaid}
		r.assignments[a.ID] = a
		created = append(created, *a)
	}
	return created, nil
}

func (r *fakeRepo) AssignedUnitIDs(feeID uint, unitIDs []uint) ([]uint, error) {
	var ids []uint
	for _, a := range r.assignments {
		if a.FeeID != feeID {
			continue
		}
		for _, unitID := range unitIDs {
			if a.UnitID == unitID {
				ids = append(ids, unitID)
			}
		}
	}
	return ids, nil
}

func (r *fakeRepo) FindAssignment(id uint) (*Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, apperr.NotFound("assignment", id)
	}
	return a, nil
}

func (r *fakeRepo) ListAssignments(feeID uint) ([]Assignment, error) {
	var list []Assignment
	for _, a := range r.assignments {
		if a.FeeID == feeID {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (r *fakeRepo) DeleteAssignment(id uint) error {
	a, ok := r.assignments[id]
	if !ok {
		return apperr.NotFound("assignment", id)
	}
	if a.Status == StatusPaid {
		return apperr.Integrity("assignment %d is paid and cannot be deleted", id)
	}
	delete(r.assignments, id)
	return nil
}

type fakeUnits struct {
	estates map[uint]*estate.Estate
	units   []estate.Unit
}

func (d *fakeUnits) FindEstate(id uint) (*estate.Estate, error) {
	e, ok := d.estates[id]
	if !ok {
		return nil, apperr.NotFound("estate", id)
	}
	return e, nil
}

func (d *fakeUnits) ListOccupiedUnits(estateID uint) ([]estate.Unit, error) {
	var list []estate.Unit
	for _, u := range d.units {
		if u.EstateID == estateID && u.IsOccupied {
			list = append(list, u)
		}
	}
	return list, nil
}

func (d *fakeUnits) FindUnitsInEstate(estateID uint, ids []uint) ([]estate.Unit, error) {
	var list []estate.Unit
	for _, u := range d.units {
		if u.EstateID != estateID {
			continue
		}
		for _, id := range ids {
			if u.ID == id {
				list = append(list, u)
			}
		}
	}
	return list, nil
}

var (
	manager  = &estate.Actor{ID: 1, DisplayName: "Ada", Role: estate.RoleManager}
	resident = &estate.Actor{ID: 2, DisplayName: "Bob", Role: estate.RoleResident}
)

func newTestService() (*Service, *fakeRepo, *fakeUnits) {
	repo := newFakeRepo()
	units := &fakeUnits{
		estates: map[uint]*estate.Estate{1: {ID: 1, Name: "Willow Park"}},
		units: []estate.Unit{
			{ID: 10, EstateID: 1, Identifier: "A1", IsOccupied: true},
			{ID: 11, EstateID: 1, Identifier: "A2", IsOccupied: true},
			{ID: 12, EstateID: 1, Identifier: "A3", IsOccupied: true},
			{ID: 13, EstateID: 1, Identifier: "A4", IsOccupied: true},
			{ID: 14, EstateID: 1, Identifier: "A5", IsOccupied: true},
			{ID: 15, EstateID: 1, Identifier: "A6", IsOccupied: false},
			{ID: 20, EstateID: 2, Identifier: "B1", IsOccupied: true},
		},
	}
	svc := NewService(repo, units, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, units
}

func validRequest() CreateFeeRequest {
	return CreateFeeRequest{
		Name:             "Service Charge Q2",
		Amount:           decimal.NewFromInt(1000),
		DueDate:          "2026-03-31",
		AssignToAllUnits: true,
	}
}

func TestCreateFee_AllUnitsFansOutToOccupiedUnits(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.CreateFee(manager, 1, validRequest())
	require.NoError(t, err)
	assert.Equal(t, 5, resp.AssignedUnits)

	assignments, _ := repo.ListAssignments(resp.Fee.ID)
	require.Len(t, assignments, 5)
	for _, a := range assignments {
		assert.Equal(t, StatusUnpaid, a.Status)
	}
	// The vacant unit carries no liability.
	for _, a := range assignments {
		assert.NotEqual(t, uint(15), a.UnitID)
	}
}

func TestCreateFee_ExplicitUnitList(t *testing.T) {
	svc, repo, _ := newTestService()

	req := validRequest()
	req.AssignToAllUnits = false
	req.UnitIDs = []uint{10, 11}
	resp, err := svc.CreateFee(manager, 1, req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.AssignedUnits)

	assignments, _ := repo.ListAssignments(resp.Fee.ID)
	assert.Len(t, assignments, 2)
}

func TestCreateFee_RequiresExactlyOneTargetMode(t *testing.T) {
	svc, _, _ := newTestService()

	var ve *apperr.ValidationError

	req := validRequest()
	req.AssignToAllUnits = true
	req.UnitIDs = []uint{10}
	_, err := svc.CreateFee(manager, 1, req)
	require.ErrorAs(t, err, &ve)

	req = validRequest()
	req.AssignToAllUnits = false
	req.UnitIDs = nil
	_, err = svc.CreateFee(manager, 1, req)
	require.ErrorAs(t, err, &ve)
}

func TestCreateFee_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _ := newTestService()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		req := validRequest()
		req.Amount = amount
		_, err := svc.CreateFee(manager, 1, req)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "amount", ve.Field)
	}
}

func TestCreateFee_RejectsPastDueDate(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRequest()
	req.DueDate = "2026-02-28"
	_, err := svc.CreateFee(manager, 1, req)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "dueDate", ve.Field)

	// Due today is fine.
	req.DueDate = "2026-03-01"
	_, err = svc.CreateFee(manager, 1, req)
	assert.NoError(t, err)
}

func TestCreateFee_RejectsUnresolvedUnitIDs(t *testing.T) {
	svc, repo, _ := newTestService()

	req := validRequest()
	req.AssignToAllUnits = false
	// 20 belongs to estate 2, 999 does not exist.
	for _, ids := range [][]uint{{10, 20}, {10, 999}} {
		req.UnitIDs = ids
		_, err := svc.CreateFee(manager, 1, req)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
	}
	// No partial creation happened.
	assert.Empty(t, repo.fees)
	assert.Empty(t, repo.assignments)
}

func TestCreateFee_NoPartialStateOnFanOutFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.failFanOut = true

	_, err := svc.CreateFee(manager, 1, validRequest())
	require.Error(t, err)
	assert.Empty(t, repo.fees)
	assert.Empty(t, repo.assignments)
}

func TestCreateFee_DeniedForResident(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateFee(resident, 1, validRequest())
	var pe *apperr.PermissionDenied
	require.ErrorAs(t, err, &pe)
}

func TestAssignToUnits_AddsAssignments(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRequest()
	req.AssignToAllUnits = false
	req.UnitIDs = []uint{10}
	resp, err := svc.CreateFee(manager, 1, req)
	require.NoError(t, err)

	added, err := svc.AssignToUnits(manager, resp.Fee.ID, []uint{11, 12})
	require.NoError(t, err)
	assert.Len(t, added, 2)
}

func TestAssignToUnits_ReportsConflictCount(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.CreateFee(manager, 1, validRequest())
	require.NoError(t, err)

	_, err = svc.AssignToUnits(manager, resp.Fee.ID, []uint{10, 11})
	var ce *apperr.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "2 unit(s)")
}

func TestAssignToUnits_RejectsForeignUnits(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRequest()
	req.AssignToAllUnits = false
	req.UnitIDs = []uint{10}
	resp, err := svc.CreateFee(manager, 1, req)
	require.NoError(t, err)

	_, err = svc.AssignToUnits(manager, resp.Fee.ID, []uint{20})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestDeleteFee_CascadesUnpaidAssignments(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.CreateFee(manager, 1, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFee(manager, resp.Fee.ID))
	assert.Empty(t, repo.fees)
	assert.Empty(t, repo.assignments)
}

func TestDeleteFee_RejectedWithPaidHistory(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.CreateFee(manager, 1, validRequest())
	require.NoError(t, err)

	// Settle one assignment out of band.
	for _, a := range repo.assignments {
		a.Status = StatusPaid
		break
	}

	err = svc.DeleteFee(manager, resp.Fee.ID)
	var ie *apperr.IntegrityViolation
	require.ErrorAs(t, err, &ie)
	assert.Len(t, repo.fees, 1)
	assert.Len(t, repo.assignments, 5)
}

func TestDeleteAssignment_PaidIsRejected(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.CreateFee(manager, 1, validRequest())
	require.NoError(t, err)
	assignments, _ := repo.ListAssignments(resp.Fee.ID)
	target := assignments[0].ID
	repo.assignments[target].Status = StatusPaid

	err = svc.DeleteAssignment(manager, target)
	var ie *apperr.IntegrityViolation
	require.ErrorAs(t, err, &ie)

	// Row still present afterward.
	_, err = repo.FindAssignment(target)
	assert.NoError(t, err)
}

func TestDeleteAssignment_UnpaidSucceeds(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.CreateFee(manager, 1, validRequest())
	require.NoError(t, err)
	assignments, _ := repo.ListAssignments(resp.Fee.ID)

	require.NoError(t, svc.DeleteAssignment(manager, assignments[0].ID))
	remaining, _ := repo.ListAssignments(resp.Fee.ID)
	assert.Len(t, remaining, 4)
}
