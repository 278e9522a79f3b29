// Package tokens analyzes token migration logistics: which bridges cover a
// chain pair, what the target DEX ecosystem looks like, and how to
// bootstrap liquidity after the move.
package tokens

// bridgeProtocol is one entry of the static bridge knowledge base
type bridgeProtocol struct {
	Name      string
	Type      string
	Supports  []string
	NTT       bool
	Sunrise   bool
	RiskScore int
	Note      string
}

// bridgeProtocols lists the bridges the analyzer knows, in canonical order
var bridgeProtocols = []bridgeProtocol{
	{
		Name:      "Wormhole",
		Type:      "message-passing",
		Supports:  []string{"solana", "ethereum", "bsc", "polygon", "arbitrum", "optimism", "avalanche", "base", "sui", "fantom"},
		NTT:       true,
		Sunrise:   true,
		RiskScore: 25,
	},
	{
		Name:      "LayerZero",
		Type:      "message-passing",
		Supports:  []string{"ethereum", "bsc", "polygon", "arbitrum", "optimism", "avalanche", "base", "fantom", "solana"},
		RiskScore: 20,
	},
	{
		Name:      "CCTP (Circle)",
		Type:      "burn-and-mint",
		Supports:  []string{"ethereum", "arbitrum", "optimism", "base", "polygon", "solana", "avalanche"},
		RiskScore: 10,
		Note:      "USDC-only, official Circle bridge",
	},
	{
		Name:      "Axelar",
		Type:      "message-passing",
		Supports:  []string{"ethereum", "polygon", "avalanche", "fantom", "arbitrum", "optimism", "base"},
		RiskScore: 30,
	},
	{
		Name:      "deBridge",
		Type:      "lock-and-mint",
		Supports:  []string{"ethereum", "bsc", "polygon", "arbitrum", "solana", "avalanche", "base"},
		RiskScore: 35,
	},
}

// chainDexMap names the well-known DEXes per chain
var chainDexMap = map[string][]string{
	"solana":    {"Jupiter", "Raydium", "Orca", "Meteora", "Phoenix", "Lifinity"},
	"ethereum":  {"Uniswap", "Curve", "Balancer", "SushiSwap", "1inch", "Maverick"},
	"bsc":       {"PancakeSwap", "Venus", "Biswap", "Thena"},
	"polygon":   {"QuickSwap", "Uniswap", "Balancer", "Curve"},
	"arbitrum":  {"GMX", "Camelot", "Uniswap", "Curve", "Trader Joe"},
	"optimism":  {"Velodrome", "Uniswap", "Curve", "Synthetix"},
	"avalanche": {"Trader Joe", "Pangolin", "Platypus", "Curve"},
	"fantom":    {"SpookySwap", "Beethoven X", "Equalizer", "SpiritSwap"},
	"base":      {"Aerodrome", "Uniswap", "BaseSwap", "Maverick"},
	"sui":       {"Cetus", "Turbos", "KriyaDEX", "FlowX"},
}

// chainStablecoins names stablecoin availability per chain
var chainStablecoins = map[string][]string{
	"solana":    {"USDC (native)", "USDT", "pyUSD", "UXD"},
	"ethereum":  {"USDC", "USDT", "DAI", "FRAX", "LUSD", "GHO"},
	"bsc":       {"USDT", "USDC", "BUSD (deprecated)", "DAI"},
	"polygon":   {"USDC (native)", "USDT", "DAI", "FRAX"},
	"arbitrum":  {"USDC (native)", "USDT", "DAI", "FRAX"},
	"optimism":  {"USDC (native)", "USDT", "DAI", "sUSD"},
	"avalanche": {"USDC", "USDT", "DAI"},
	"fantom":    {"USDC (bridged)", "USDT (bridged)", "DAI (bridged)"},
	"base":      {"USDC (native)", "USDbC", "DAI"},
}

// Liquidity rating chain tiers
var (
	highLiquidityChains   = map[string]bool{"ethereum": true, "solana": true, "arbitrum": true, "bsc": true, "base": true}
	mediumLiquidityChains = map[string]bool{"polygon": true, "optimism": true, "avalanche": true, "sui": true}
)
