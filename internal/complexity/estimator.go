package complexity

import (
	"math"
	"strings"

	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

// complexityBand maps an inclusive difficulty range to its display level
// and timeline
type complexityBand struct {
	lo, hi   int
	level    string
	timeline string
}

var bands = []complexityBand{
	{1, 3, model.LevelSimple, "2-4 weeks"},
	{4, 6, model.LevelModerate, "4-8 weeks"},
	{7, 8, model.LevelComplex, "8-16 weeks"},
	{9, 10, model.LevelVeryComplex, "16-24+ weeks"},
}

// IdentifyPatterns resolves each declared contract type against the catalog.
// Matching runs three stages per input: normalized exact-or-substring match,
// then slash-separated subword match, then a generic custom-contract
// fallback. Every input produces exactly one result, in input order.
func IdentifyPatterns(contractTypes []string) []model.ContractPattern {
	results := make([]model.ContractPattern, 0, len(contractTypes))
	for _, ct := range contractTypes {
		results = append(results, matchPattern(ct))
	}
	return results
}

// matchPattern resolves one contract type declaration
func matchPattern(ct string) model.ContractPattern {
	normalized := normalize(ct)
	for _, p := range catalog {
		key := normalize(p.Name)
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return p
		}
	}

	// Subword match: "DEX" hits "AMM/DEX", "DAO" hits "Governance/DAO"
	lower := strings.ToLower(ct)
	for _, p := range catalog {
		for _, word := range strings.Split(p.Name, "/") {
			if strings.Contains(lower, strings.ToLower(word)) {
				return p
			}
		}
	}

	return model.ContractPattern{
		Name:             ct,
		Description:      "Custom contract",
		SolanaEquivalent: "Custom Anchor program",
		Difficulty:       7,
		Notes:            "No standard equivalent. Requires custom architecture design.",
		KeyDifferences:   []string{"Full reimplementation required"},
	}
}

// normalize strips spaces, hyphens and slashes and uppercases, so that
// "erc20", "ERC-20" and "ERC 20" all compare equal
func normalize(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "/", "")
	return strings.ToUpper(r.Replace(s))
}

// Estimate aggregates the declared contract types into a project-level
// difficulty. The overall score leans toward the hardest piece, since the
// hardest contract bottlenecks the whole migration. An empty input yields
// the neutral unknown estimate.
func Estimate(contractTypes []string) model.ComplexityEstimate {
	patterns := IdentifyPatterns(contractTypes)
	if len(patterns) == 0 {
		return model.ComplexityEstimate{
			OverallDifficulty: 5,
			Level:             model.LevelUnknown,
			Timeline:          "TBD",
			Patterns:          []model.ContractPattern{},
		}
	}

	maxDifficulty := 0
	sum := 0
	bottleneck := ""
	for _, p := range patterns {
		sum += p.Difficulty
		if p.Difficulty > maxDifficulty {
			maxDifficulty = p.Difficulty
			bottleneck = p.Name
		}
	}
	avg := float64(sum) / float64(len(patterns))
	overall := int(math.Round(avg*0.3 + float64(maxDifficulty)*0.7))

	level, timeline := model.LevelUnknown, "TBD"
	for _, b := range bands {
		if overall >= b.lo && overall <= b.hi {
			level, timeline = b.level, b.timeline
			break
		}
	}

	return model.ComplexityEstimate{
		OverallDifficulty: overall,
		Level:             level,
		Timeline:          timeline,
		MaxDifficulty:     maxDifficulty,
		Bottleneck:        bottleneck,
		ContractCount:     len(patterns),
		Patterns:          patterns,
	}
}
