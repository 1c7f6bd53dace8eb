package analytics

import (
	"strings"

	"ccboard/internal/sessionparse"
)

// modelRate is a model family's price per token, derived from its
// published per-million-token rate.
type modelRate struct {
	inputPerToken  float64
	outputPerToken float64
}

// pricingTable maps a model-name substring to its rate. Matching is by
// substring against the lowercased model identifier so date-suffixed
// model names (e.g. "claude-opus-4-20250514") still resolve.
var pricingTable = []struct {
	match string
	rate  modelRate
}{
	{"opus", modelRate{inputPerToken: 15.0 / 1_000_000, outputPerToken: 75.0 / 1_000_000}},
	{"sonnet", modelRate{inputPerToken: 3.0 / 1_000_000, outputPerToken: 15.0 / 1_000_000}},
	{"haiku", modelRate{inputPerToken: 0.8 / 1_000_000, outputPerToken: 4.0 / 1_000_000}},
}

// defaultRate applies when no pricingTable entry matches, pinned to the
// sonnet tier as the most commonly observed model in the corpus.
var defaultRate = modelRate{inputPerToken: 3.0 / 1_000_000, outputPerToken: 15.0 / 1_000_000}

// cacheReadDiscount and cacheWriteSurcharge are the cost multipliers spec
// §4.10 names, applied against the model's input rate.
const (
	cacheReadDiscount   = 0.10
	cacheWriteSurcharge = 1.25
)

func rateFor(model string) modelRate {
	lower := strings.ToLower(model)
	for _, entry := range pricingTable {
		if strings.Contains(lower, entry.match) {
			return entry.rate
		}
	}
	return defaultRate
}

// tokenCost prices one TokenBreakdown under model's rate.
func tokenCost(model string, input, output, cacheRead, cacheWrite int64) float64 {
	rate := rateFor(model)
	return float64(input)*rate.inputPerToken +
		float64(output)*rate.outputPerToken +
		float64(cacheRead)*rate.inputPerToken*cacheReadDiscount +
		float64(cacheWrite)*rate.inputPerToken*cacheWriteSurcharge
}

// sessionCost prices a session's full token breakdown. A session may
// have observed more than one model; since SessionMetadata does not
// track per-model token splits, the breakdown is priced once under the
// first (alphabetically, for determinism) observed model — adequate for
// trend/forecast purposes, which operate on aggregate cost, not exact
// per-model billing reconciliation (that belongs to the stats-cache
// parser's own per-model totals, surfaced separately via StatsSnapshot).
func sessionCost(models []string, input, output, cacheRead, cacheWrite int64) float64 {
	model := ""
	if len(models) > 0 {
		model = models[0]
	}
	return tokenCost(model, input, output, cacheRead, cacheWrite)
}

// SessionCost prices meta's full token breakdown under its observed
// model mix, per the same alphabetically-first-model approximation
// sessionCost uses internally. Exported for the query package's cost-based sort,
// which has no other way to derive a session's price.
func SessionCost(meta *sessionparse.SessionMetadata) float64 {
	if meta == nil {
		return 0
	}
	return sessionCost(meta.ModelList(), meta.Tokens.Input, meta.Tokens.Output, meta.Tokens.CacheRead, meta.Tokens.CacheWrite)
}
