package orchestration

import (
	"fmt"

	"github.com/jonathan/creator-agent/internal/llm"
)

// Tier is a named pipeline configuration trading speed and cost against
// thoroughness.
type Tier string

const (
	// TierFlow is the fast two-stage chain: analyzer then implementer.
	TierFlow Tier = "flow"
	// TierCraft is the thorough three-stage chain: analyzer, strategist,
	// then implementer.
	TierCraft Tier = "craft"
)

// Valid returns true if the tier is a known value.
func (t Tier) Valid() bool {
	switch t {
	case TierFlow, TierCraft:
		return true
	default:
		return false
	}
}

// Stage generation parameters. Earlier stages run cooler and shorter; the
// implementer gets the most freedom and the largest budget.
const (
	analyzerTemperature    = 0.3
	analyzerMaxTokens      = 2000
	strategistTemperature  = 0.5
	strategistMaxTokens    = 4000
	implementerTemperature = 0.7
	implementerMaxTokens   = 8000
)

// StageSpec binds one pipeline role to a provider and model tier.
type StageSpec struct {
	Role        StepRole
	Provider    llm.Provider
	ModelTier   llm.ModelTier
	Temperature float32
	MaxTokens   int32
}

// stagesFor returns the ordered stage list for a tier. The mapping is fixed
// and total: every valid tier has exactly one pipeline.
func stagesFor(tier Tier) ([]StageSpec, error) {
	switch tier {
	case TierFlow:
		return []StageSpec{
			{Role: RoleAnalyzer, Provider: llm.ProviderGemini, ModelTier: llm.TierLite,
				Temperature: analyzerTemperature, MaxTokens: analyzerMaxTokens},
			{Role: RoleImplementer, Provider: llm.ProviderClaude, ModelTier: llm.TierStandard,
				Temperature: implementerTemperature, MaxTokens: implementerMaxTokens},
		}, nil
	case TierCraft:
		return []StageSpec{
			{Role: RoleAnalyzer, Provider: llm.ProviderGemini, ModelTier: llm.TierLite,
				Temperature: analyzerTemperature, MaxTokens: analyzerMaxTokens},
			{Role: RoleStrategist, Provider: llm.ProviderGemini, ModelTier: llm.TierAdvanced,
				Temperature: strategistTemperature, MaxTokens: strategistMaxTokens},
			{Role: RoleImplementer, Provider: llm.ProviderClaude, ModelTier: llm.TierAdvanced,
				Temperature: implementerTemperature, MaxTokens: implementerMaxTokens},
		}, nil
	default:
		return nil, fmt.Errorf("unknown tier: %s", tier)
	}
}

// CreditsFor returns the flat credit price of a successful chain run.
// Billing is per tier, not per token: the caller is charged the same amount
// whether the run was cheap or expensive.
func CreditsFor(tier Tier) int {
	switch tier {
	case TierCraft:
		return 3
	default:
		return 1
	}
}
