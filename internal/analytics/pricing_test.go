package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenCost_CacheReadDiscountedAndCacheWriteSurcharged(t *testing.T) {
	// Sonnet: input 3.0/M, output 15.0/M.
	inputRate := 3.0 / 1_000_000

	plain := tokenCost("claude-sonnet-4", 1_000_000, 0, 0, 0)
	assert.InDelta(t, 3.0, plain, 1e-9)

	withCacheRead := tokenCost("claude-sonnet-4", 0, 0, 1_000_000, 0)
	assert.InDelta(t, inputRate*1_000_000*cacheReadDiscount, withCacheRead, 1e-9)

	withCacheWrite := tokenCost("claude-sonnet-4", 0, 0, 0, 1_000_000)
	assert.InDelta(t, inputRate*1_000_000*cacheWriteSurcharge, withCacheWrite, 1e-9)
}

func TestRateFor_MatchesBySubstringCaseInsensitive(t *testing.T) {
	opus := rateFor("claude-opus-4-20250514")
	assert.InDelta(t, 15.0/1_000_000, opus.inputPerToken, 1e-12)

	haiku := rateFor("CLAUDE-HAIKU-3")
	assert.InDelta(t, 0.8/1_000_000, haiku.inputPerToken, 1e-12)
}

func TestRateFor_UnknownModelFallsBackToDefault(t *testing.T) {
	rate := rateFor("some-experimental-model")
	assert.Equal(t, defaultRate, rate)
}

func TestSessionCost_PricesUnderFirstModelWhenMultiplePresent(t *testing.T) {
	cost := sessionCost([]string{"claude-opus-4", "claude-sonnet-4"}, 1_000_000, 0, 0, 0)
	assert.InDelta(t, 15.0, cost, 1e-9)
}

func TestSessionCost_NoModelUsesDefaultRate(t *testing.T) {
	cost := sessionCost(nil, 1_000_000, 0, 0, 0)
	assert.InDelta(t, 3.0, cost, 1e-9)
}
