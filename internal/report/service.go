package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/condovia/api-estates/internal/authz"
	"github.com/condovia/api-estates/internal/estate"
	"github.com/condovia/api-estates/internal/fee"
)

var hundred = decimal.NewFromInt(100)

// Service computes payment-status statistics. Every call is a fresh read;
// nothing is cached and nothing is mutated.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// feeMetrics is the shared per-fee computation behind all three reports.
func (s *Service) feeMetrics(f *fee.Fee) (*FeeSummary, error) {
	totalUnits, err := s.repo.CountOccupiedUnits(f.EstateID)
	if err != nil {
		return nil, err
	}
	paidUnits, err := s.repo.CountPaidAssignments(f.ID)
	if err != nil {
		return nil, err
	}
	collected, err := s.repo.SumCollected(f.ID)
	if err != nil {
		return nil, err
	}
	expected := f.Amount.Mul(decimal.NewFromInt(totalUnits))
	return &FeeSummary{
		FeeID:          f.ID,
		FeeName:        f.Name,
		DueDate:        f.DueDate,
		TotalUnits:     totalUnits,
		PaidUnits:      paidUnits,
		TotalExpected:  expected,
		TotalCollected: collected,
		TotalPending:   expected.Sub(collected),
		PaymentRate:    rate(paidUnits, totalUnits),
	}, nil
}

// rate is paid/total as a percentage rounded to 2 decimals, 0.00 for an
// empty population.
func rate(paid, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(paid).Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
}

// FeePaymentStatus reports collection progress for one fee, including the
// occupied units still owing.
func (s *Service) FeePaymentStatus(actor *estate.Actor, feeID uint) (*FeePaymentStatus, error) {
	f, err := s.repo.FeeByID(feeID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.ViewReports, actor.Role, f.EstateID); err != nil {
		return nil, err
	}
	est, err := s.repo.EstateByID(f.EstateID)
	if err != nil {
		return nil, err
	}
	metrics, err := s.feeMetrics(f)
	if err != nil {
		return nil, err
	}
	owing, err := s.repo.UnpaidOccupiedUnits(f.ID, f.EstateID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	unpaid := make([]UnpaidUnit, 0, len(owing))
	for _, u := range owing {
		unpaid = append(unpaid, UnpaidUnit{
			UnitID:         u.ID,
			UnitIdentifier: u.Identifier,
			EstateID:       est.ID,
			EstateName:     est.Name,
			AmountDue:      f.Amount,
			DueDate:        f.DueDate,
			DaysOverdue:    daysOverdue(today, f.DueDate),
		})
	}

	return &FeePaymentStatus{
		FeeID:            f.ID,
		FeeName:          f.Name,
		EstateID:         f.EstateID,
		Amount:           f.Amount,
		DueDate:          f.DueDate,
		TotalUnits:       metrics.TotalUnits,
		PaidUnits:        metrics.PaidUnits,
		UnpaidUnitsCount: metrics.TotalUnits - metrics.PaidUnits,
		TotalExpected:    metrics.TotalExpected,
		TotalCollected:   metrics.TotalCollected,
		TotalPending:     metrics.TotalPending,
		PaymentRate:      metrics.PaymentRate,
		UnpaidUnits:      unpaid,
	}, nil
}

// EstateSummary aggregates every fee of one estate.
func (s *Service) EstateSummary(actor *estate.Actor, estateID uint) (*EstateSummary, error) {
	if err := authz.Can(authz.ViewReports, actor.Role, estateID); err != nil {
		return nil, err
	}
	est, err := s.repo.EstateByID(estateID)
	if err != nil {
		return nil, err
	}
	fees, err := s.repo.FeesByEstate(estateID)
	if err != nil {
		return nil, err
	}

	summary := &EstateSummary{
		EstateID:       est.ID,
		EstateName:     est.Name,
		FeeCount:       len(fees),
		TotalExpected:  decimal.Zero,
		TotalCollected: decimal.Zero,
		TotalPending:   decimal.Zero,
		Fees:           make([]FeeSummary, 0, len(fees)),
	}
	var paidSum, unitSum int64
	for i := range fees {
		m, err := s.feeMetrics(&fees[i])
		if err != nil {
			return nil, err
		}
		summary.Fees = append(summary.Fees, *m)
		summary.TotalExpected = summary.TotalExpected.Add(m.TotalExpected)
		summary.TotalCollected = summary.TotalCollected.Add(m.TotalCollected)
		summary.TotalPending = summary.TotalPending.Add(m.TotalPending)
		paidSum += m.PaidUnits
		unitSum += m.TotalUnits
	}
	summary.PaymentRate = rate(paidSum, unitSum)
	return summary, nil
}

// OverallSummary aggregates every fee of every estate.
func (s *Service) OverallSummary(actor *estate.Actor) (*OverallSummary, error) {
	if err := authz.Can(authz.ViewReports, actor.Role, 0); err != nil {
		return nil, err
	}
	estates, err := s.repo.AllEstates()
	if err != nil {
		return nil, err
	}

	overall := &OverallSummary{
		Estates:        make([]EstateSummary, 0, len(estates)),
		TotalExpected:  decimal.Zero,
		TotalCollected: decimal.Zero,
		TotalPending:   decimal.Zero,
	}
	var paidSum, unitSum int64
	for _, est := range estates {
		es, err := s.EstateSummary(actor, est.ID)
		if err != nil {
			return nil, err
		}
		overall.Estates = append(overall.Estates, *es)
		overall.FeeCount += es.FeeCount
		overall.TotalExpected = overall.TotalExpected.Add(es.TotalExpected)
		overall.TotalCollected = overall.TotalCollected.Add(es.TotalCollected)
		overall.TotalPending = overall.TotalPending.Add(es.TotalPending)
		for _, m := range es.Fees {
			paidSum += m.PaidUnits
			unitSum += m.TotalUnits
		}
	}
	overall.PaymentRate = rate(paidSum, unitSum)
	return overall, nil
}

func daysOverdue(today, due time.Time) int {
	if !today.After(due) {
		return 0
	}
	return int(today.Sub(due).Hours() / 24)
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
