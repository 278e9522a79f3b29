package tokens

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/chain-migration-analyzer/internal/model"
	"github.com/yourorg/chain-migration-analyzer/internal/types"
)

// dexCategories are the protocol categories counted as DEX-adjacent
var dexCategories = map[string]bool{"Dexes": true, "Derivatives": true, "Yield": true}

// ProtocolProvider supplies the protocol universe for ecosystem summaries
type ProtocolProvider interface {
	AllProtocols(ctx context.Context) ([]model.Protocol, error)
}

// Analyzer performs token migration analysis for chain pairs
type Analyzer struct {
	protocols ProtocolProvider
}

// NewAnalyzer creates an Analyzer backed by the given protocol provider
func NewAnalyzer(protocols ProtocolProvider) *Analyzer {
	return &Analyzer{protocols: protocols}
}

// AvailableBridges returns the bridges supporting both chains, lowest risk
// first. Equal-risk bridges keep their canonical catalog order.
func AvailableBridges(source, target string) []model.BridgeOption {
	src := string(types.Normalize(source))
	tgt := string(types.Normalize(target))

	available := []model.BridgeOption{}
	for _, b := range bridgeProtocols {
		if supportsChain(b.Supports, src) && supportsChain(b.Supports, tgt) {
			available = append(available, model.BridgeOption{
				Name:           b.Name,
				Type:           b.Type,
				NTTSupport:     b.NTT,
				SunriseSupport: b.Sunrise,
				RiskScore:      b.RiskScore,
				Note:           b.Note,
			})
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].RiskScore < available[j].RiskScore
	})
	return available
}

// DexEcosystem summarizes a chain's DEX landscape. A protocol fetch failure
// degrades to the static tables with zero live protocol data rather than
// failing the summary.
func (a *Analyzer) DexEcosystem(ctx context.Context, chain string) *model.DexEcosystem {
	chainL := string(types.Normalize(chain))

	var live []model.ProtocolSummary
	protocols, err := a.protocols.AllProtocols(ctx)
	if err != nil {
		logrus.Warnf("Protocol universe unavailable for %s ecosystem summary: %v", chain, err)
	} else {
		for _, p := range protocols {
			if !dexCategories[p.Category] {
				continue
			}
			for _, c := range p.Chains {
				if strings.ToLower(c) == chainL {
					live = append(live, model.ProtocolSummary{
						Name:     p.Name,
						Category: p.Category,
						TVL:      p.TVL,
					})
					break
				}
			}
		}
	}

	sort.SliceStable(live, func(i, j int) bool {
		return live[i].TVL > live[j].TVL
	})
	top := live
	if len(top) > 10 {
		top = top[:10]
	}

	return &model.DexEcosystem{
		Chain:           chain,
		KnownDexes:      orEmpty(chainDexMap[chainL]),
		Stablecoins:     orEmpty(chainStablecoins[chainL]),
		ProtocolCount:   len(live),
		TopProtocols:    append([]model.ProtocolSummary{}, top...),
		LiquidityRating: rateLiquidity(chainL, len(live)),
	}
}

// AnalyzeMigration builds the complete token migration picture for a pair
func (a *Analyzer) AnalyzeMigration(ctx context.Context, source, target, tokenName string) *model.TokenMigration {
	if tokenName == "" {
		tokenName = "Project Token"
	}
	bridges := AvailableBridges(source, target)
	sourceDex := a.DexEcosystem(ctx, source)
	targetDex := a.DexEcosystem(ctx, target)

	return &model.TokenMigration{
		TokenName:           tokenName,
		SourceChain:         source,
		TargetChain:         target,
		AvailableBridges:    bridges,
		BridgeCount:         len(bridges),
		RecommendedStrategy: recommendStrategy(bridges, target),
		SourceDexEcosystem:  *sourceDex,
		TargetDexEcosystem:  *targetDex,
		LiquidityPlan:       liquidityPlan(target, targetDex),
		MigrationComplexity: migrationComplexity(bridges, source, target),
	}
}

// recommendStrategy picks the best bridging approach: Wormhole Sunrise for
// Solana targets, CCTP when Circle covers the pair, otherwise the lowest
// risk standard bridge.
func recommendStrategy(bridges []model.BridgeOption, target string) model.BridgeStrategy {
	if len(bridges) == 0 {
		return model.BridgeStrategy{
			Strategy: "CUSTOM_BRIDGE",
			Detail:   "No standard bridges support this chain pair. Custom bridge or intermediary chain required.",
			Risk:     "HIGH",
		}
	}

	if types.IsSolana(target) {
		for _, b := range bridges {
			if b.Name == "Wormhole" && b.SunriseSupport {
				return model.BridgeStrategy{
					Strategy: "WORMHOLE_SUNRISE",
					Bridge:   "Wormhole NTT (Sunrise)",
					Detail:   "Use Wormhole's Sunrise program for canonical asset onboarding to Solana with day-one liquidity.",
					Risk:     "LOW",
					NTT:      true,
				}
			}
		}
	}

	for _, b := range bridges {
		if b.Name == "CCTP (Circle)" {
			supplementary := ""
			if bridges[0].Name != "CCTP (Circle)" {
				supplementary = bridges[0].Name
			} else if len(bridges) > 1 {
				supplementary = bridges[1].Name
			}
			return model.BridgeStrategy{
				Strategy:      "CCTP_PRIMARY",
				Bridge:        "CCTP (Circle)",
				Detail:        "Use Circle's CCTP for native USDC bridging (burn-and-mint, official).",
				Risk:          "LOW",
				Supplementary: supplementary,
			}
		}
	}

	best := bridges[0]
	risk := "HIGH"
	if best.RiskScore < 30 {
		risk = "MEDIUM"
	}
	return model.BridgeStrategy{
		Strategy: "STANDARD_BRIDGE",
		Bridge:   best.Name,
		Detail:   fmt.Sprintf("Use %s (%s) for token transfers.", best.Name, best.Type),
		Risk:     risk,
	}
}

// liquidityPlan generates target-specific liquidity bootstrapping steps
func liquidityPlan(target string, targetDex *model.DexEcosystem) []string {
	switch string(types.Normalize(target)) {
	case "solana":
		return []string{
			"Deploy SPL token (or Token-2022 for advanced features)",
			"Seed liquidity on Jupiter aggregator via Meteora or Orca CLMM",
			"Apply for Jupiter Verified Token List",
			"Set up Raydium CPMM pool for stable liquidity",
			"Consider Meteora DLMM for concentrated liquidity",
			"Register on Solana token registry (solana-labs/token-list)",
		}
	case "ethereum", "arbitrum", "optimism", "base", "polygon":
		return []string{
			"Deploy ERC-20 token contract",
			fmt.Sprintf("Create Uniswap V3 pool on %s", target),
			"Seed initial liquidity ($10K+ recommended)",
			"Register on token lists (Uniswap, CoinGecko)",
			"Consider Curve pool if stablecoin-adjacent",
		}
	default:
		primaryDex := "primary DEX"
		if len(targetDex.KnownDexes) > 0 {
			primaryDex = targetDex.KnownDexes[0]
		}
		return []string{
			fmt.Sprintf("Deploy token on %s", target),
			fmt.Sprintf("Create pool on %s", primaryDex),
			"Seed initial liquidity",
			"Register on chain's token list",
		}
	}
}

// migrationComplexity rates the overall token migration effort
func migrationComplexity(bridges []model.BridgeOption, source, target string) string {
	if len(bridges) == 0 {
		return "VERY HIGH — no standard bridge support"
	}

	hasNTT := false
	hasCCTP := false
	for _, b := range bridges {
		if b.NTTSupport {
			hasNTT = true
		}
		if b.Name == "CCTP (Circle)" {
			hasCCTP = true
		}
	}

	switch {
	case types.IsEVM(source) && types.IsEVM(target):
		return "LOW — EVM to EVM, standard bridge"
	case hasNTT || hasCCTP:
		return "MEDIUM — established bridge path available"
	default:
		return "HIGH — cross-VM migration with custom bridge integration"
	}
}

// rateLiquidity bands a chain's liquidity depth
func rateLiquidity(chain string, protocolCount int) string {
	switch {
	case highLiquidityChains[chain]:
		return "HIGH"
	case mediumLiquidityChains[chain]:
		return "MEDIUM"
	case protocolCount > 20:
		return "MEDIUM"
	case protocolCount > 5:
		return "LOW"
	default:
		return "VERY LOW"
	}
}

func supportsChain(supports []string, chain string) bool {
	for _, c := range supports {
		if c == chain {
			return true
		}
	}
	return false
}

// orEmpty normalizes a nil table lookup to an empty slice so JSON renders
// [] instead of null
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
