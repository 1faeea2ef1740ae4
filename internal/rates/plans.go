package rates

import "github.com/jgoulah/ratecompare/pkg/models"

// TOUCategory returns the time-of-use band of a sample. Weekends and holidays
// are off-peak all day. On weekdays the midday band (11-17) is mid-peak in
// winter and peak in summer, and the shoulder bands (7-11, 17-19) are the reverse.
func TOUCategory(s models.ClassifiedSample) models.TOUCategory {
	switch {
	case s.IsWeekend || s.IsHoliday:
		return models.TOUOffPeak
	case s.Hour >= 19 || s.Hour < 7:
		return models.TOUOffPeak
	case s.Hour >= 11 && s.Hour < 17:
		if s.IsWinter {
			return models.TOUMidPeak
		}
		return models.TOUPeak
	default:
		if s.IsWinter {
			return models.TOUPeak
		}
		return models.TOUMidPeak
	}
}

// TOURate returns the per-kWh rate of a TOU band
func (t Tariff) TOURate(c models.TOUCategory) float64 {
	switch c {
	case models.TOUPeak:
		return t.OnPeak
	case models.TOUMidPeak:
		return t.MidPeak
	default:
		return t.OffPeak
	}
}

// PriceTOU returns the TOU cost, rate and band of a sample
func (t Tariff) PriceTOU(s models.ClassifiedSample) (float64, float64, models.TOUCategory) {
	c := TOUCategory(s)
	rate := t.TOURate(c)
	return s.KWh * rate, rate, c
}

// ULOCategory returns the ultra-low-overnight band of a sample.
// The overnight window (23-7) applies every day, so it is checked before the
// weekend and holiday rule. TOU checks them in the opposite order.
func ULOCategory(s models.ClassifiedSample) models.ULOCategory {
	switch {
	case s.Hour >= 23 || s.Hour < 7:
		return models.ULOOvernight
	case s.IsWeekend || s.IsHoliday:
		return models.ULOOffPeak
	case s.Hour >= 16 && s.Hour < 21:
		return models.ULOPeak
	default:
		return models.ULOMidPeak
	}
}

// ULORate returns the per-kWh rate of a ULO band
func (t Tariff) ULORate(c models.ULOCategory) float64 {
	switch c {
	case models.ULOOvernight:
		return t.ULO
	case models.ULOPeak:
		return t.ULOOnPeak
	case models.ULOMidPeak:
		return t.MidPeak
	default:
		return t.OffPeak
	}
}

// PriceULO returns the ULO cost, rate and band of a sample
func (t Tariff) PriceULO(s models.ClassifiedSample) (float64, float64, models.ULOCategory) {
	c := ULOCategory(s)
	rate := t.ULORate(c)
	return s.KWh * rate, rate, c
}

// PriceTiered bills a month's total usage. Usage up to the seasonal threshold is
// billed at tier 1 and the remainder at tier 2. It only makes sense for a whole
// month since the threshold is cumulative.
func (t Tariff) PriceTiered(monthlyKWh float64, isWinter bool) (cost, tier1KWh, tier2KWh float64) {
	threshold := t.Threshold(isWinter)
	if monthlyKWh <= threshold {
		tier1KWh = monthlyKWh
	} else {
		tier1KWh = threshold
		tier2KWh = monthlyKWh - threshold
	}
	cost = tier1KWh*t.Tier1 + tier2KWh*t.Tier2
	return cost, tier1KWh, tier2KWh
}

// BestPlan picks the cheapest plan. Tiered and TOU only win when strictly
// cheaper than both others; every tie resolves to ULO, including a tie between
// Tiered and TOU that both beat ULO.
func BestPlan(tiered, tou, ulo float64) models.Plan {
	switch {
	case tiered < tou && tiered < ulo:
		return models.PlanTiered
	case tou < tiered && tou < ulo:
		return models.PlanTOU
	default:
		return models.PlanULO
	}
}
