// Package llm - pricing.go provides per-model cost estimation.
package llm

// modelRates holds USD per 1M tokens (input, output) for each known model.
// Rates are published list prices; unknown models cost zero rather than
// guessing.
var modelRates = map[string][2]float64{
	"gemini-2.5-flash-lite":      {0.10, 0.40},
	"gemini-2.5-flash":           {0.30, 2.50},
	"gemini-2.5-pro":             {1.25, 10.00},
	"claude-3-5-haiku-20241022":  {0.80, 4.00},
	"claude-sonnet-4-20250514":   {3.00, 15.00},
	"claude-opus-4-20250514":     {15.00, 75.00},
}

// EstimateCost returns the estimated USD cost for a call to the given model.
// Unknown models return 0 so cost accounting degrades rather than fails.
func EstimateCost(model string, tokensIn, tokensOut int) float64 {
	rates, ok := modelRates[model]
	if !ok {
		return 0
	}
	return float64(tokensIn)/1e6*rates[0] + float64(tokensOut)/1e6*rates[1]
}
