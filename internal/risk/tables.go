// Package risk blends chain health, bridge health, code complexity and
// historical incident signals into one bounded composite migration risk
// score.
package risk

import "github.com/yourorg/chain-migration-analyzer/internal/model"

// incidentRecord names a historical bridge exploit in the static ledger
type incidentRecord struct {
	Bridge   string
	Incident model.BridgeIncident
}

// bridgeIncidents is the exploit ledger consulted by the historical factor.
// Kept as an ordered slice so reports render deterministically.
var bridgeIncidents = []incidentRecord{
	{"wormhole", model.BridgeIncident{Date: "2022-02-02", LossUSD: 320_000_000, Recovered: true,
		Note: "Solana VAA signature bypass. Patched, funds recovered via Jump Crypto."}},
	{"ronin", model.BridgeIncident{Date: "2022-03-23", LossUSD: 625_000_000, Recovered: false,
		Note: "Axie Infinity bridge. Social engineering of validators."}},
	{"nomad", model.BridgeIncident{Date: "2022-08-01", LossUSD: 190_000_000, Recovered: false,
		Note: "Initialization bug allowed anyone to drain."}},
	{"harmony", model.BridgeIncident{Date: "2022-06-23", LossUSD: 100_000_000, Recovered: false,
		Note: "Horizon bridge. Compromised private keys."}},
	{"multichain", model.BridgeIncident{Date: "2023-07-06", LossUSD: 126_000_000, Recovered: false,
		Note: "CEO arrested, funds drained from MPC addresses."}},
}

// Incidents returns the exploit ledger keyed by bridge name
func Incidents() map[string]model.BridgeIncident {
	out := make(map[string]model.BridgeIncident, len(bridgeIncidents))
	for _, r := range bridgeIncidents {
		out[r.Bridge] = r.Incident
	}
	return out
}

type chainPair struct {
	source, target string
}

// chainCompatibility scores pair difficulty 0-100, higher meaning harder.
// Lookups try the forward direction first, then the reverse.
var chainCompatibility = map[chainPair]int{
	{"ethereum", "arbitrum"}:  10, // EVM to EVM L2, very easy
	{"ethereum", "optimism"}:  10,
	{"ethereum", "base"}:      10,
	{"ethereum", "polygon"}:   15, // EVM sidechain
	{"ethereum", "bsc"}:       15,
	{"ethereum", "avalanche"}: 15,
	{"ethereum", "solana"}:    80, // EVM to SVM, major rewrite
	{"ethereum", "sui"}:       85, // EVM to Move
	{"ethereum", "aptos"}:     85,
	{"ethereum", "near"}:      70,
	{"ethereum", "cosmos"}:    60,
	{"solana", "ethereum"}:    75, // SVM to EVM, different paradigm
	{"bsc", "solana"}:         80,
	{"polygon", "solana"}:     80,
	{"arbitrum", "solana"}:    80,
	{"fantom", "solana"}:      80,
	{"avalanche", "solana"}:   80,
}

// evmToSolanaChallenges lists the known issues when porting an EVM codebase
// to Solana
var evmToSolanaChallenges = []model.MigrationChallenge{
	{Issue: "Account Model", Severity: "HIGH",
		Detail: "EVM uses contract storage; Solana uses separate accounts (PDAs). All state management must be redesigned."},
	{Issue: "Language Rewrite", Severity: "HIGH",
		Detail: "Solidity → Rust/Anchor rewrite required. No automated transpiler exists."},
	{Issue: "Token Standard", Severity: "MEDIUM",
		Detail: "ERC-20 → SPL Token / Token-2022. Different interfaces, approval patterns, metadata."},
	{Issue: "Gas Model", Severity: "MEDIUM",
		Detail: "EVM gas → Solana compute units + rent. Economic model differs significantly."},
	{Issue: "Reentrancy", Severity: "LOW",
		Detail: "Solana's single-threaded execution eliminates reentrancy. Remove guards, simplify logic."},
	{Issue: "Cross-Contract Calls", Severity: "MEDIUM",
		Detail: "Internal calls → Cross-Program Invocation (CPI). Requires explicit account passing."},
	{Issue: "Events/Logs", Severity: "LOW",
		Detail: "Solidity events → Anchor events or raw logs. Different indexing approach."},
	{Issue: "Upgradeability", Severity: "MEDIUM",
		Detail: "Proxy patterns → Solana's native program upgrade authority. Simpler but different."},
}

// evmToEVMChallenges is the single-entry list for same-family migrations
var evmToEVMChallenges = []model.MigrationChallenge{
	{Issue: "Minimal Changes", Severity: "LOW",
		Detail: "EVM → EVM migration. Contracts are largely compatible with minor adjustments."},
}
