package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/estate"
	"github.com/condovia/api-estates/internal/fee"
)

type fakeRepo struct {
	fees      map[uint]*fee.Fee
	estates   map[uint]*estate.Estate
	units     []estate.Unit
	paidUnits map[uint][]uint // fee id -> unit ids with a PAID assignment
	collected map[uint]decimal.Decimal
}

func (r *fakeRepo) FeeByID(id uint) (*fee.Fee, error) {
	f, ok := r.fees[id]
	if !ok {
		return nil, apperr.NotFound("fee", id)
	}
	return f, nil
}

func (r *fakeRepo) FeesByEstate(estateID uint) ([]fee.Fee, error) {
	var list []fee.Fee
	for _, f := range r.fees {
		if f.EstateID == estateID {
			list = append(list, *f)
		}
	}
	return list, nil
}

func (r *fakeRepo) EstateByID(id uint) (*estate.Estate, error) {
	e, ok := r.estates[id]
	if !ok {
		return nil, apperr.NotFound("estate", id)
	}
	return e, nil
}

func (r *fakeRepo) AllEstates() ([]estate.Estate, error) {
	list := make([]estate.Estate, 0, len(r.estates))
	for id := uint(1); id <= uint(len(r.estates)); id++ {
		if e, ok := r.estates[id]; ok {
			list = append(list, *e)
		}
	}
	return list, nil
}

func (r *fakeRepo) CountOccupiedUnits(estateID uint) (int64, error) {
	var count int64
	for _, u := range r.units {
		if u.EstateID == estateID && u.IsOccupied {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) CountPaidAssignments(feeID uint) (int64, error) {
	return int64(len(r.paidUnits[feeID])), nil
}

func (r *fakeRepo) SumCollected(feeID uint) (decimal.Decimal, error) {
	if total, ok := r.collected[feeID]; ok {
		return total, nil
	}
	return decimal.Zero, nil
}

func (r *fakeRepo) UnpaidOccupiedUnits(feeID, estateID uint) ([]estate.Unit, error) {
	paid := map[uint]bool{}
	for _, unitID := range r.paidUnits[feeID] {
		paid[unitID] = true
	}
	var list []estate.Unit
	for _, u := range r.units {
		if u.EstateID == estateID && u.IsOccupied && !paid[u.ID] {
			list = append(list, u)
		}
	}
	return list, nil
}

var viewer = &estate.Actor{ID: 9, DisplayName: "Eve", Role: estate.RoleResident}

// newTestService sets up estate 1 with five occupied units plus one vacant,
// and a 1000.00 fee due 2026-03-31.
func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{
		fees: map[uint]*fee.Fee{
			1: {ID: 1, EstateID: 1, Name: "Service Charge Q2",
				Amount:  decimal.NewFromInt(1000),
				DueDate: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)},
		},
		estates: map[uint]*estate.Estate{1: {ID: 1, Name: "Willow Park"}},
		units: []estate.Unit{
			{ID: 10, EstateID: 1, Identifier: "A1", IsOccupied: true},
			{ID: 11, EstateID: 1, Identifier: "A2", IsOccupied: true},
			{ID: 12, EstateID: 1, Identifier: "A3", IsOccupied: true},
			{ID: 13, EstateID: 1, Identifier: "A4", IsOccupied: true},
			{ID: 14, EstateID: 1, Identifier: "A5", IsOccupied: true},
			{ID: 15, EstateID: 1, Identifier: "A6", IsOccupied: false},
		},
		paidUnits: map[uint][]uint{},
		collected: map[uint]decimal.Decimal{},
	}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestFeePaymentStatus_FreshFee(t *testing.T) {
	svc, _ := newTestService()

	status, err := svc.FeePaymentStatus(viewer, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(5), status.TotalUnits)
	assert.Equal(t, int64(0), status.PaidUnits)
	assert.Equal(t, int64(5), status.UnpaidUnitsCount)
	assert.True(t, status.TotalExpected.Equal(dec("5000")), "expected 5000, got %s", status.TotalExpected)
	assert.True(t, status.TotalCollected.Equal(decimal.Zero))
	assert.True(t, status.TotalPending.Equal(dec("5000")))
	assert.True(t, status.PaymentRate.Equal(dec("0")))

	require.Len(t, status.UnpaidUnits, 5)
	for _, u := range status.UnpaidUnits {
		assert.Equal(t, "Willow Park", u.EstateName)
		assert.True(t, u.AmountDue.Equal(dec("1000")))
		assert.Equal(t, 0, u.DaysOverdue) // due date not reached yet
	}
}

func TestFeePaymentStatus_AfterOnePayment(t *testing.T) {
	svc, repo := newTestService()
	repo.paidUnits[1] = []uint{10}
	repo.collected[1] = dec("1000")

	status, err := svc.FeePaymentStatus(viewer, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), status.PaidUnits)
	assert.Equal(t, int64(4), status.UnpaidUnitsCount)
	assert.True(t, status.TotalCollected.Equal(dec("1000")))
	assert.True(t, status.TotalPending.Equal(dec("4000")))
	assert.True(t, status.PaymentRate.Equal(dec("20")), "expected 20.00, got %s", status.PaymentRate)
	require.Len(t, status.UnpaidUnits, 4)
	for _, u := range status.UnpaidUnits {
		assert.NotEqual(t, uint(10), u.UnitID)
	}
}

func TestFeePaymentStatus_ZeroOccupiedUnits(t *testing.T) {
	svc, repo := newTestService()
	repo.estates[2] = &estate.Estate{ID: 2, Name: "Empty Court"}
	repo.fees[2] = &fee.Fee{ID: 2, EstateID: 2, Name: "Levy",
		Amount:  dec("250"),
		DueDate: time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)}

	status, err := svc.FeePaymentStatus(viewer, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.TotalUnits)
	assert.True(t, status.PaymentRate.Equal(decimal.Zero))
	assert.True(t, status.TotalExpected.Equal(decimal.Zero))
	assert.Empty(t, status.UnpaidUnits)
}

func TestFeePaymentStatus_DaysOverdue(t *testing.T) {
	svc, _ := newTestService()
	svc.now = func() time.Time { return time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC) }

	status, err := svc.FeePaymentStatus(viewer, 1)
	require.NoError(t, err)
	require.NotEmpty(t, status.UnpaidUnits)
	for _, u := range status.UnpaidUnits {
		assert.Equal(t, 10, u.DaysOverdue)
	}
}

func TestFeePaymentStatus_FractionalRate(t *testing.T) {
	svc, repo := newTestService()
	// 6 occupied units now, 1 paid -> 16.67%
	repo.units = append(repo.units, estate.Unit{ID: 16, EstateID: 1, Identifier: "A7", IsOccupied: true})
	repo.paidUnits[1] = []uint{10}
	repo.collected[1] = dec("1000")

	status, err := svc.FeePaymentStatus(viewer, 1)
	require.NoError(t, err)
	assert.True(t, status.PaymentRate.Equal(dec("16.67")), "got %s", status.PaymentRate)
}

func TestFeePaymentStatus_MissingFee(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.FeePaymentStatus(viewer, 99)
	var ne *apperr.NotFoundError
	require.ErrorAs(t, err, &ne)
}

func TestEstateSummary_AggregatesFees(t *testing.T) {
	svc, repo := newTestService()
	repo.fees[2] = &fee.Fee{ID: 2, EstateID: 1, Name: "Security Levy",
		Amount:  dec("500"),
		DueDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)}
	repo.paidUnits[1] = []uint{10}
	repo.collected[1] = dec("1000")
	repo.paidUnits[2] = []uint{10, 11, 12, 13, 14}
	repo.collected[2] = dec("2500")

	summary, err := svc.EstateSummary(viewer, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FeeCount)
	assert.True(t, summary.TotalExpected.Equal(dec("7500")))
	assert.True(t, summary.TotalCollected.Equal(dec("3500")))
	assert.True(t, summary.TotalPending.Equal(dec("4000")))
	// 6 paid out of 10 liable unit-fees
	assert.True(t, summary.PaymentRate.Equal(dec("60")), "got %s", summary.PaymentRate)
	assert.Len(t, summary.Fees, 2)
}

func TestOverallSummary_AcrossEstates(t *testing.T) {
	svc, repo := newTestService()
	repo.estates[2] = &estate.Estate{ID: 2, Name: "Cedar Close"}
	repo.units = append(repo.units,
		estate.Unit{ID: 20, EstateID: 2, Identifier: "B1", IsOccupied: true},
		estate.Unit{ID: 21, EstateID: 2, Identifier: "B2", IsOccupied: true},
	)
	repo.fees[3] = &fee.Fee{ID: 3, EstateID: 2, Name: "Gate Repair",
		Amount:  dec("300"),
		DueDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	repo.paidUnits[3] = []uint{20}
	repo.collected[3] = dec("300")

	summary, err := svc.OverallSummary(viewer)
	require.NoError(t, err)

	assert.Len(t, summary.Estates, 2)
	assert.Equal(t, 2, summary.FeeCount)
	// 5000 expected on estate 1, 600 on estate 2
	assert.True(t, summary.TotalExpected.Equal(dec("5600")))
	assert.True(t, summary.TotalCollected.Equal(dec("300")))
	assert.True(t, summary.TotalPending.Equal(dec("5300")))
	// 1 paid of 7 liable unit-fees -> 14.29%
	assert.True(t, summary.PaymentRate.Equal(dec("14.29")), "got %s", summary.PaymentRate)
}
