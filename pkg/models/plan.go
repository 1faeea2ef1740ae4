package models

import "time"

// TOUCategory is the time-of-use pricing band of a sample.
// Keep these values stable; they appear in CSV and JSON output.
type TOUCategory string

const (
	TOUOffPeak TOUCategory = "OffPeak"
	TOUMidPeak TOUCategory = "MidPeak"
	TOUPeak    TOUCategory = "Peak"
)

// ULOCategory is the ultra-low-overnight pricing band of a sample
type ULOCategory string

const (
	ULOOvernight ULOCategory = "Ulo"
	ULOOffPeak   ULOCategory = "OffPeak"
	ULOMidPeak   ULOCategory = "MidPeak"
	ULOPeak      ULOCategory = "UloPeak"
)

// Plan names one of the compared rate plans
type Plan string

const (
	PlanTiered Plan = "Tiered"
	PlanTOU    Plan = "TOU"
	PlanULO    Plan = "ULO"
)

// MonthlySummary is the cost of one calendar month under every plan.
// Months from different years are grouped together.
type MonthlySummary struct {
	Month    time.Month `json:"month"`
	IsWinter bool       `json:"is_winter"`
	KWh      float64    `json:"kwh"`

	Tiered   float64 `json:"tiered"`
	Tier1KWh float64 `json:"tier1_kwh"`
	Tier2KWh float64 `json:"tier2_kwh"`

	TOU           float64 `json:"tou"`
	TOUKWhOffPeak float64 `json:"tou_kwh_off_peak"`
	TOUKWhMidPeak float64 `json:"tou_kwh_mid_peak"`
	TOUKWhPeak    float64 `json:"tou_kwh_peak"`

	ULO           float64 `json:"ulo"`
	ULOKWh        float64 `json:"ulo_kwh"`
	ULOKWhOffPeak float64 `json:"ulo_kwh_off_peak"`
	ULOKWhMidPeak float64 `json:"ulo_kwh_mid_peak"`
	ULOKWhPeak    float64 `json:"ulo_kwh_peak"`

	Best Plan `json:"best"`
}

// Source identifies the vendor layout a sample was imported from
type Source string

const (
	SourceHourly Source = "hourly"
	SourceDaily  Source = "daily"
)
