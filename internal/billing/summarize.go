package billing

import (
	"context"

	"github.com/jgoulah/ratecompare/internal/log"
	"github.com/jgoulah/ratecompare/internal/rates"
	"github.com/jgoulah/ratecompare/pkg/models"
)

// Summarize prices the samples and aggregates them into monthly summaries
func Summarize(ctx context.Context, engine *rates.Engine, samples []models.UsageSample) []models.MonthlySummary {
	priced := engine.PriceAll(samples)
	summaries := Aggregate(engine.Tariff, priced)
	log.Ctx(ctx).DebugContext(ctx, "summarized usage", "samples", len(samples), "months", len(summaries))
	return summaries
}
