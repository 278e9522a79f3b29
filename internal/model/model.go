// Package model defines the core data structures for the chain migration analyzer.
package model

// ChainSnapshot is a single chain's current state as reported by the TVL
// data provider. Produced fresh per fetch; never mutated.
type ChainSnapshot struct {
	// Name is the chain's display name, e.g. "Ethereum"
	Name string `json:"name"`

	// TVL is the total value locked on the chain in USD
	TVL float64 `json:"tvl"`

	// TokenSymbol is the chain's native token ticker
	TokenSymbol string `json:"tokenSymbol"`

	// ChainID is the EVM chain id where one exists; providers report it
	// as a number, a string, or null depending on the chain
	ChainID interface{} `json:"chainId"`
}

// TvlHistoryPoint is one sample of a chain's historical TVL series,
// ordered chronologically at one sample per day.
type TvlHistoryPoint struct {
	Date int64   `json:"date"`
	TVL  float64 `json:"tvl"`
}

// Protocol describes a DeFi protocol and the chains it is deployed on.
type Protocol struct {
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	Chains    []string           `json:"chains"`
	TVL       float64            `json:"tvl"`
	ChainTVLs map[string]float64 `json:"chainTvls"`
	Category  string             `json:"category"`
}

// TVL trend classifications
const (
	TrendGrowing   = "growing"
	TrendDeclining = "declining"
	TrendStable    = "stable"
	TrendUnknown   = "unknown"
)

// ChainHealth is the computed health summary for a single chain.
type ChainHealth struct {
	Chain           string      `json:"chain"`
	TVL             float64     `json:"tvl"`
	TVLFormatted    string      `json:"tvl_formatted"`
	TokenSymbol     string      `json:"token_symbol"`
	ChainID         interface{} `json:"chain_id"`
	ProtocolCount   int         `json:"protocol_count"`
	TVLChange30dPct float64     `json:"tvl_change_30d_pct"`
	Trend           string      `json:"tvl_trend"`
}

// ChainComparison is the migration-signal result for a source/target pair.
type ChainComparison struct {
	Source               ChainHealth `json:"source"`
	Target               ChainHealth `json:"target"`
	MigrationSignalScore int         `json:"migration_signal_score"`
	MigrationReasons     []string    `json:"migration_reasons"`
	Recommendation       string      `json:"recommendation"`
}

// ContractPattern is one entry of the immutable contract-pattern catalog.
type ContractPattern struct {
	Name             string   `json:"pattern"`
	Description      string   `json:"description"`
	SolanaEquivalent string   `json:"solana_equivalent"`
	Difficulty       int      `json:"difficulty"`
	Notes            string   `json:"notes"`
	KeyDifferences   []string `json:"key_differences"`
}

// Complexity level names
const (
	LevelSimple      = "Simple"
	LevelModerate    = "Moderate"
	LevelComplex     = "Complex"
	LevelVeryComplex = "Very Complex"
	LevelUnknown     = "Unknown"
)

// ComplexityEstimate is the aggregated difficulty estimate for a set of
// contract types.
type ComplexityEstimate struct {
	OverallDifficulty int               `json:"overall_difficulty"`
	Level             string            `json:"level"`
	Timeline          string            `json:"timeline"`
	MaxDifficulty     int               `json:"max_difficulty"`
	Bottleneck        string            `json:"bottleneck"`
	ContractCount     int               `json:"contract_count"`
	Patterns          []ContractPattern `json:"patterns"`
}

// Risk level names shared by the bridge and composite assessments
const (
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskCritical = "CRITICAL"
)

// BridgeRiskSnapshot is an externally supplied assessment of bridge health.
// The scoring core treats it as opaque input.
type BridgeRiskSnapshot struct {
	Bridge      string   `json:"bridge"`
	TVL         float64  `json:"tvl"`
	DailyVolume float64  `json:"daily_volume"`
	TotalVolume float64  `json:"total_volume"`
	RiskScore   int      `json:"risk_score"`
	RiskLevel   string   `json:"risk_level"`
	Factors     []string `json:"factors"`
}

// FactorScore is one weighted component of the composite risk breakdown.
type FactorScore struct {
	Score           float64 `json:"score"`
	Weight          float64 `json:"weight"`
	Note            string  `json:"note,omitempty"`
	Level           string  `json:"level,omitempty"`
	EstimatedWeeks  string  `json:"estimated_weeks,omitempty"`
	RequiresRewrite *bool   `json:"requires_rewrite,omitempty"`
}

// MigrationChallenge is a known issue when porting between chain families.
type MigrationChallenge struct {
	Issue    string `json:"issue"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// CompositeRiskResult is the weighted blend of chain, bridge, code and
// incident signals into one bounded risk figure.
type CompositeRiskResult struct {
	OverallRiskScore int                    `json:"overall_risk_score"`
	RiskLevel        string                 `json:"risk_level"`
	Breakdown        map[string]FactorScore `json:"breakdown"`
	Challenges       []MigrationChallenge   `json:"challenges"`
	Recommendation   string                 `json:"recommendation"`

	// DegradedInputs names the factors that fell back to their neutral
	// default because an upstream input was unavailable. Empty means the
	// score was fully measured.
	DegradedInputs []string `json:"degraded_inputs"`
}

// PairComplexity is the chain-pair difficulty lookup result.
type PairComplexity struct {
	Source          string               `json:"source"`
	Target          string               `json:"target"`
	DifficultyScore int                  `json:"difficulty_score"`
	DifficultyLevel string               `json:"difficulty_level"`
	RequiresRewrite bool                 `json:"requires_rewrite"`
	EstimatedWeeks  string               `json:"estimated_weeks"`
	Challenges      []MigrationChallenge `json:"challenges"`
}

// BridgeIncident records a historical bridge exploit.
type BridgeIncident struct {
	Date      string  `json:"date"`
	LossUSD   float64 `json:"loss_usd"`
	Recovered bool    `json:"recovered"`
	Note      string  `json:"note"`
}

// BridgeOption describes a bridge protocol available for a chain pair.
type BridgeOption struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	NTTSupport     bool   `json:"ntt_support"`
	SunriseSupport bool   `json:"sunrise_support"`
	RiskScore      int    `json:"risk_score"`
	Note           string `json:"note"`
}

// BridgeStrategy is the recommended bridging approach for a token migration.
type BridgeStrategy struct {
	Strategy      string `json:"strategy"`
	Bridge        string `json:"bridge,omitempty"`
	Detail        string `json:"detail"`
	Risk          string `json:"risk"`
	NTT           bool   `json:"ntt,omitempty"`
	Supplementary string `json:"supplementary,omitempty"`
}

// ProtocolSummary is a compact protocol listing used in ecosystem summaries.
type ProtocolSummary struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	TVL      float64 `json:"tvl"`
}

// DexEcosystem summarizes a chain's DEX and stablecoin landscape.
type DexEcosystem struct {
	Chain           string            `json:"chain"`
	KnownDexes      []string          `json:"known_dexes"`
	Stablecoins     []string          `json:"stablecoins"`
	ProtocolCount   int               `json:"defi_protocols_on_chain"`
	TopProtocols    []ProtocolSummary `json:"top_protocols"`
	LiquidityRating string            `json:"liquidity_rating"`
}

// TokenMigration is the full token migration analysis for a chain pair.
type TokenMigration struct {
	TokenName           string         `json:"token_name"`
	SourceChain         string         `json:"source_chain"`
	TargetChain         string         `json:"target_chain"`
	AvailableBridges    []BridgeOption `json:"available_bridges"`
	BridgeCount         int            `json:"bridge_count"`
	RecommendedStrategy BridgeStrategy `json:"recommended_strategy"`
	SourceDexEcosystem  DexEcosystem   `json:"source_dex_ecosystem"`
	TargetDexEcosystem  DexEcosystem   `json:"target_dex_ecosystem"`
	LiquidityPlan       []string       `json:"liquidity_plan"`
	MigrationComplexity string         `json:"migration_complexity"`
}

// WormholeScorecards is the raw network overview returned by WormholeScan.
// Numeric fields arrive as strings on the wire.
type WormholeScorecards struct {
	TVL           string `json:"tvl"`
	Volume24h     string `json:"24h_volume"`
	TotalVolume   string `json:"total_volume"`
	Messages24h   string `json:"24h_messages"`
	TotalMessages string `json:"total_messages"`
	TotalTxCount  string `json:"total_tx_count"`
}
