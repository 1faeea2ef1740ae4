package rates

import "github.com/jgoulah/ratecompare/pkg/models"

// Engine classifies and prices samples under a single tariff
type Engine struct {
	Tariff     Tariff
	Classifier Classifier
}

// NewEngine creates an engine for the tariff using the holiday checker
func NewEngine(tariff Tariff, holidays HolidayChecker) *Engine {
	return &Engine{
		Tariff:     tariff,
		Classifier: Classifier{Holidays: holidays},
	}
}

// Price classifies one sample and prices it under the TOU and ULO plans
func (e *Engine) Price(s models.UsageSample) models.PricedSample {
	cs := e.Classifier.Classify(s)
	p := models.PricedSample{ClassifiedSample: cs}
	p.TOUCost, p.TOURate, p.TOUCategory = e.Tariff.PriceTOU(cs)
	p.ULOCost, p.ULORate, p.ULOCategory = e.Tariff.PriceULO(cs)
	return p
}

// PriceAll prices every sample, keeping input order
func (e *Engine) PriceAll(samples []models.UsageSample) []models.PricedSample {
	out := make([]models.PricedSample, len(samples))
	for i, s := range samples {
		out[i] = e.Price(s)
	}
	return out
}
