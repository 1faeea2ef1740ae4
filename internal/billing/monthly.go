// Package billing rolls priced hourly samples up into monthly bills and picks the
// cheapest plan for each month.
package billing

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jgoulah/ratecompare/internal/rates"
	"github.com/jgoulah/ratecompare/pkg/models"
)

// Aggregate groups samples by calendar month and returns one summary per month
// present, in ascending month order. Samples from the same month of different
// years land in the same group. Months are reduced concurrently.
func Aggregate(tariff rates.Tariff, priced []models.PricedSample) []models.MonthlySummary {
	groups := lo.GroupBy(priced, func(p models.PricedSample) time.Month { return p.Month })
	months := lo.Keys(groups)
	slices.Sort(months)

	out := make([]models.MonthlySummary, len(months))
	var g errgroup.Group
	for i, m := range months {
		i, m := i, m
		g.Go(func() error {
			out[i] = summarizeMonth(tariff, m, groups[m])
			return nil
		})
	}
	// Workers never fail
	_ = g.Wait()
	return out
}

// summarizeMonth sums one month of samples and bills the total under the tiered plan
func summarizeMonth(tariff rates.Tariff, month time.Month, samples []models.PricedSample) models.MonthlySummary {
	s := models.MonthlySummary{
		Month:    month,
		IsWinter: models.IsWinterMonth(month),
	}
	for _, p := range samples {
		s.KWh += p.KWh
		s.TOU += p.TOUCost
		s.ULO += p.ULOCost
	}

	s.TOUKWhOffPeak = touKWh(samples, models.TOUOffPeak)
	s.TOUKWhMidPeak = touKWh(samples, models.TOUMidPeak)
	s.TOUKWhPeak = touKWh(samples, models.TOUPeak)

	s.ULOKWh = uloKWh(samples, models.ULOOvernight)
	s.ULOKWhOffPeak = uloKWh(samples, models.ULOOffPeak)
	s.ULOKWhMidPeak = uloKWh(samples, models.ULOMidPeak)
	s.ULOKWhPeak = uloKWh(samples, models.ULOPeak)

	s.Tiered, s.Tier1KWh, s.Tier2KWh = tariff.PriceTiered(s.KWh, s.IsWinter)

	roundSummary(&s)
	s.Best = rates.BestPlan(s.Tiered, s.TOU, s.ULO)
	return s
}

func touKWh(samples []models.PricedSample, c models.TOUCategory) float64 {
	return sumKWh(lo.Filter(samples, func(p models.PricedSample, _ int) bool { return p.TOUCategory == c }))
}

func uloKWh(samples []models.PricedSample, c models.ULOCategory) float64 {
	return sumKWh(lo.Filter(samples, func(p models.PricedSample, _ int) bool { return p.ULOCategory == c }))
}

func sumKWh(samples []models.PricedSample) float64 {
	return lo.SumBy(samples, func(p models.PricedSample) float64 { return p.KWh })
}

// roundSummary rounds every numeric field to cents / hundredths of a kWh,
// half away from zero
func roundSummary(s *models.MonthlySummary) {
	for _, f := range []*float64{
		&s.KWh,
		&s.Tiered, &s.Tier1KWh, &s.Tier2KWh,
		&s.TOU, &s.TOUKWhOffPeak, &s.TOUKWhMidPeak, &s.TOUKWhPeak,
		&s.ULO, &s.ULOKWh, &s.ULOKWhOffPeak, &s.ULOKWhMidPeak, &s.ULOKWhPeak,
	} {
		*f = round2(*f)
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
