package rates

import (
	"errors"
	"fmt"
	"math"
)

// Tariff holds the electricity charge per kWh for every plan band and the
// monthly tier thresholds. Delivery and regulatory charges are not modeled.
type Tariff struct {
	OffPeak   float64
	MidPeak   float64
	OnPeak    float64
	ULO       float64
	ULOOnPeak float64
	Tier1     float64
	Tier2     float64

	WinterThresholdKWh float64
	SummerThresholdKWh float64
}

// DefaultTariff returns the published rates
func DefaultTariff() Tariff {
	return Tariff{
		OffPeak:   0.074,
		MidPeak:   0.102,
		OnPeak:    0.151,
		ULO:       0.024,
		ULOOnPeak: 0.24,
		Tier1:     0.087,
		Tier2:     0.103,

		WinterThresholdKWh: 1000,
		SummerThresholdKWh: 600,
	}
}

// Merge overlays the non-zero fields of override onto t
func (t Tariff) Merge(override Tariff) Tariff {
	out := t
	if override.OffPeak != 0 {
		out.OffPeak = override.OffPeak
	}
	if override.MidPeak != 0 {
		out.MidPeak = override.MidPeak
	}
	if override.OnPeak != 0 {
		out.OnPeak = override.OnPeak
	}
	if override.ULO != 0 {
		out.ULO = override.ULO
	}
	if override.ULOOnPeak != 0 {
		out.ULOOnPeak = override.ULOOnPeak
	}
	if override.Tier1 != 0 {
		out.Tier1 = override.Tier1
	}
	if override.Tier2 != 0 {
		out.Tier2 = override.Tier2
	}
	if override.WinterThresholdKWh != 0 {
		out.WinterThresholdKWh = override.WinterThresholdKWh
	}
	if override.SummerThresholdKWh != 0 {
		out.SummerThresholdKWh = override.SummerThresholdKWh
	}
	return out
}

// Validate checks that every rate and threshold is a non-negative finite number
func (t Tariff) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"off_peak", t.OffPeak},
		{"mid_peak", t.MidPeak},
		{"on_peak", t.OnPeak},
		{"ulo", t.ULO},
		{"ulo_on_peak", t.ULOOnPeak},
		{"tier1", t.Tier1},
		{"tier2", t.Tier2},
		{"winter_threshold_kwh", t.WinterThresholdKWh},
		{"summer_threshold_kwh", t.SummerThresholdKWh},
	}
	var errs []error
	for _, f := range fields {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			errs = append(errs, fmt.Errorf("%s must be a non-negative number, got %v", f.name, f.v))
		}
	}
	return errors.Join(errs...)
}

// Threshold returns the monthly tier-1 allowance for the season
func (t Tariff) Threshold(isWinter bool) float64 {
	if isWinter {
		return t.WinterThresholdKWh
	}
	return t.SummerThresholdKWh
}
