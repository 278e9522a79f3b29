// Package complexity estimates the migration difficulty of a set of EVM
// contract patterns against a fixed catalog of Solana equivalents.
package complexity

import "github.com/yourorg/chain-migration-analyzer/internal/model"

// catalog is the immutable pattern knowledge base. Order matters: matching
// walks this slice front to back, so the first matching pattern wins.
var catalog = []model.ContractPattern{
	{
		Name:             "ERC-20",
		Description:      "Fungible token standard",
		SolanaEquivalent: "SPL Token / Token-2022",
		Difficulty:       2,
		Notes:            "Direct mapping exists. Token-2022 adds extensions (transfer fees, confidential transfers).",
		KeyDifferences: []string{
			"ERC-20 is per-contract; SPL Token is a single program for ALL tokens",
			"Balances stored in Associated Token Accounts (ATAs), not contract storage",
			"Mint authority replaces owner/admin pattern",
			"No approve/transferFrom — use delegate instead",
		},
	},
	{
		Name:             "ERC-721",
		Description:      "Non-fungible token (NFT)",
		SolanaEquivalent: "Metaplex Token Standard / Token-2022 NFT",
		Difficulty:       3,
		Notes:            "Metaplex provides NFT standards with metadata, collections, and programmable NFTs.",
		KeyDifferences: []string{
			"NFT = SPL token with supply of 1 and 0 decimals",
			"Metadata stored in separate Metaplex metadata account",
			"Collection verification via Metaplex Certified Collections",
			"Royalty enforcement via Programmable NFTs (pNFTs)",
		},
	},
	{
		Name:             "AMM/DEX",
		Description:      "Automated Market Maker / Decentralized Exchange",
		SolanaEquivalent: "Raydium CLMM / Orca Whirlpool / Custom Anchor program",
		Difficulty:       8,
		Notes:            "Major architectural differences. Solana AMMs use account-based pool state.",
		KeyDifferences: []string{
			"Pool state in PDAs, not contract storage slots",
			"Token reserves in SPL token accounts owned by pool PDA",
			"Swap instruction vs swap function — CPI to SPL Token for transfers",
			"No reentrancy risk (Solana is single-threaded per tx)",
			"Compute unit limits replace gas optimization",
		},
	},
	{
		Name:             "Lending/Borrowing",
		Description:      "Lending protocol (Aave/Compound-like)",
		SolanaEquivalent: "Solend / MarginFi / Kamino / Custom",
		Difficulty:       9,
		Notes:            "Complex state management. Interest rate models need careful reimplementation.",
		KeyDifferences: []string{
			"User positions stored in separate accounts (not mappings)",
			"Oracle integration via Pyth/Switchboard instead of Chainlink",
			"Liquidation bot architecture differs (Solana clock-based)",
			"Flash loans possible via CPI but different pattern",
		},
	},
	{
		Name:             "Staking",
		Description:      "Token staking / yield farming",
		SolanaEquivalent: "SPL Stake Pool / Custom Anchor staking",
		Difficulty:       4,
		Notes:            "Relatively straightforward. Solana has native staking infrastructure.",
		KeyDifferences: []string{
			"Stake accounts are first-class Solana objects for SOL staking",
			"SPL staking uses token accounts + PDA-based reward tracking",
			"No block.timestamp — use Clock sysvar",
			"Reward distribution via separate claim instruction",
		},
	},
	{
		Name:             "Governance/DAO",
		Description:      "On-chain governance (Governor/Timelock)",
		SolanaEquivalent: "Realms (SPL Governance) / Squads",
		Difficulty:       5,
		Notes:            "Realms is the standard Solana governance framework. Squads for multisig.",
		KeyDifferences: []string{
			"Proposals, votes, and execution are separate accounts",
			"Realm = community + council governance",
			"Token-weighted voting via voter weight plugins",
			"Squads v4 for multisig treasury management",
		},
	},
	{
		Name:             "Vault/Yield",
		Description:      "Yield vault (ERC-4626 / Yearn-like)",
		SolanaEquivalent: "Kamino / Custom Anchor vault",
		Difficulty:       6,
		Notes:            "No ERC-4626 standard on Solana. Custom implementation needed.",
		KeyDifferences: []string{
			"Vault shares as SPL tokens (mint/burn pattern)",
			"Strategy execution via CPI to DEX/lending programs",
			"No composable vault standard — each protocol is custom",
			"Rebalancing triggered by cranks (off-chain bots)",
		},
	},
	{
		Name:             "Bridge",
		Description:      "Cross-chain bridge contract",
		SolanaEquivalent: "Wormhole NTT / Custom bridge program",
		Difficulty:       9,
		Notes:            "Use Wormhole NTT SDK for standard bridge needs. Custom bridges are complex.",
		KeyDifferences: []string{
			"Wormhole Guardian network for message verification",
			"NTT Manager program handles burn-mint flow",
			"VAA (Verified Action Approval) instead of merkle proofs",
			"Rate limiting built into NTT framework",
		},
	},
	{
		Name:             "Oracle Consumer",
		Description:      "Contract consuming price feeds",
		SolanaEquivalent: "Pyth / Switchboard",
		Difficulty:       2,
		Notes:            "Pyth is the primary Solana oracle. Drop-in replacement for Chainlink.",
		KeyDifferences: []string{
			"Pyth accounts passed as instruction accounts (not getLatestRoundData)",
			"Pull oracle model — prices updated on-demand",
			"Confidence intervals included in Pyth prices",
			"Switchboard for custom data feeds / VRF",
		},
	},
	{
		Name:             "Multisig",
		Description:      "Multi-signature wallet",
		SolanaEquivalent: "Squads v4",
		Difficulty:       2,
		Notes:            "Squads is the standard Solana multisig. Well-audited and widely used.",
		KeyDifferences: []string{
			"Squads manages a vault PDA that holds assets",
			"Transaction proposals created as separate accounts",
			"Members approve by signing approve instruction",
			"Built-in spending limits and time locks",
		},
	},
}

// Catalog returns a copy of the pattern knowledge base in its canonical order
func Catalog() []model.ContractPattern {
	out := make([]model.ContractPattern, len(catalog))
	copy(out, catalog)
	return out
}
