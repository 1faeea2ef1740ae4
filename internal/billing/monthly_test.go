package billing

import (
	"context"
	"testing"
	"time"

	"github.com/jgoulah/ratecompare/internal/holiday"
	"github.com/jgoulah/ratecompare/internal/rates"
	"github.com/jgoulah/ratecompare/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *rates.Engine {
	return rates.NewEngine(rates.DefaultTariff(), holiday.Default())
}

// hourlyRange builds one sample per hour between start and end, with a usage
// pattern that varies by hour so every category sees some load
func hourlyRange(t *testing.T, start, end time.Time) []models.UsageSample {
	t.Helper()
	var out []models.UsageSample
	for ts := start; ts.Before(end); ts = ts.Add(time.Hour) {
		s, err := models.NewUsageSample(ts, 0.3+float64(ts.Hour()%5)*0.45)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestEmptyInput(t *testing.T) {
	out := Summarize(context.Background(), newEngine(), nil)
	assert.Empty(t, out)
}

func TestWinterMonthTiered(t *testing.T) {
	// 1200 kWh spread evenly over 120 hours in January
	start := time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)
	var samples []models.UsageSample
	for i := 0; i < 120; i++ {
		s, err := models.NewUsageSample(start.Add(time.Duration(i)*time.Hour), 10)
		require.NoError(t, err)
		samples = append(samples, s)
	}

	out := Summarize(context.Background(), newEngine(), samples)
	require.Len(t, out, 1)
	m := out[0]
	assert.Equal(t, time.January, m.Month)
	assert.True(t, m.IsWinter)
	assert.Equal(t, 1200.0, m.KWh)
	assert.Equal(t, 1000.0, m.Tier1KWh)
	assert.Equal(t, 200.0, m.Tier2KWh)
	assert.Equal(t, 107.6, m.Tiered)
}

func TestMonthlyInvariants(t *testing.T) {
	samples := hourlyRange(t,
		time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	out := Summarize(context.Background(), newEngine(), samples)
	require.Len(t, out, 12)

	for i, m := range out {
		assert.Equal(t, time.Month(i+1), m.Month, "ascending month order")
		assert.Equal(t, models.IsWinterMonth(m.Month), m.IsWinter)

		assert.InDelta(t, m.KWh, m.Tier1KWh+m.Tier2KWh, 0.011, "tiers sum to total in %s", m.Month)
		if m.KWh <= rates.DefaultTariff().Threshold(m.IsWinter) {
			assert.Zero(t, m.Tier2KWh, m.Month.String())
		}

		assert.InDelta(t, m.KWh, m.TOUKWhOffPeak+m.TOUKWhMidPeak+m.TOUKWhPeak, 0.02, "TOU buckets in %s", m.Month)
		assert.InDelta(t, m.KWh, m.ULOKWh+m.ULOKWhOffPeak+m.ULOKWhMidPeak+m.ULOKWhPeak, 0.03, "ULO buckets in %s", m.Month)

		assert.Equal(t, rates.BestPlan(m.Tiered, m.TOU, m.ULO), m.Best)
	}
}

func TestMonthsFromDifferentYearsMerge(t *testing.T) {
	mk := func(ts time.Time) models.UsageSample {
		s, err := models.NewUsageSample(ts, 2)
		require.NoError(t, err)
		return s
	}
	samples := []models.UsageSample{
		mk(time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)),
		mk(time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)),
		mk(time.Date(2022, 1, 5, 12, 0, 0, 0, time.UTC)),
	}
	out := Summarize(context.Background(), newEngine(), samples)
	require.Len(t, out, 2)
	assert.Equal(t, time.January, out[0].Month)
	assert.Equal(t, time.March, out[1].Month)
	assert.Equal(t, 4.0, out[1].KWh)
}

func TestAggregateIsIdempotent(t *testing.T) {
	samples := hourlyRange(t,
		time.Date(2022, 5, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 8, 10, 0, 0, 0, 0, time.UTC),
	)
	e := newEngine()
	priced := e.PriceAll(samples)
	first := Aggregate(e.Tariff, priced)
	second := Aggregate(e.Tariff, priced)
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestRounding(t *testing.T) {
	s, err := models.NewUsageSample(time.Date(2022, 7, 15, 14, 0, 0, 0, time.UTC), 1.23456)
	require.NoError(t, err)
	out := Summarize(context.Background(), newEngine(), []models.UsageSample{s})
	require.Len(t, out, 1)
	assert.Equal(t, 1.23, out[0].KWh)
	assert.Equal(t, 1.23, out[0].TOUKWhPeak)
	// 1.23456 * 0.151 = 0.18642
	assert.Equal(t, 0.19, out[0].TOU)
	// 1.23456 * 0.102 = 0.12593
	assert.Equal(t, 0.13, out[0].ULO)
	// 1.23456 * 0.087 = 0.10741
	assert.Equal(t, 0.11, out[0].Tiered)
	assert.Equal(t, models.PlanTiered, out[0].Best)
}
