// Package types contains shared type definitions used across multiple packages
package types

import "strings"

// Chain identifies a blockchain network by its canonical lowercase name
type Chain string

// Chains the analyzer has static knowledge about
const (
	ChainSolana    Chain = "solana"
	ChainEthereum  Chain = "ethereum"
	ChainBSC       Chain = "bsc"
	ChainPolygon   Chain = "polygon"
	ChainArbitrum  Chain = "arbitrum"
	ChainOptimism  Chain = "optimism"
	ChainAvalanche Chain = "avalanche"
	ChainFantom    Chain = "fantom"
	ChainBase      Chain = "base"
	ChainSui       Chain = "sui"
	ChainAptos     Chain = "aptos"
	ChainNear      Chain = "near"
	ChainCosmos    Chain = "cosmos"
)

// Normalize converts a user-supplied chain name to its canonical form
func Normalize(name string) Chain {
	return Chain(strings.ToLower(strings.TrimSpace(name)))
}

// evmChains is the EVM chain family used for challenge and difficulty selection
var evmChains = map[Chain]bool{
	ChainEthereum:  true,
	ChainBSC:       true,
	ChainPolygon:   true,
	ChainArbitrum:  true,
	ChainOptimism:  true,
	ChainBase:      true,
	ChainAvalanche: true,
	ChainFantom:    true,
}

// IsEVM reports whether the named chain belongs to the EVM family
func IsEVM(name string) bool {
	return evmChains[Normalize(name)]
}

// IsSolana reports whether the named chain is Solana
func IsSolana(name string) bool {
	return Normalize(name) == ChainSolana
}

// WormholeChainIDs maps chain names to Wormhole network identifiers
var WormholeChainIDs = map[Chain]int{
	ChainSolana:    1,
	ChainEthereum:  2,
	ChainBSC:       4,
	ChainPolygon:   5,
	ChainAvalanche: 6,
	ChainFantom:    10,
	ChainNear:      15,
	ChainCosmos:    20,
	ChainSui:       21,
	ChainAptos:     22,
	ChainArbitrum:  23,
	ChainOptimism:  24,
	ChainBase:      30,
}

// WormholeID returns the Wormhole chain identifier for a chain name
func WormholeID(name string) (int, bool) {
	id, ok := WormholeChainIDs[Normalize(name)]
	return id, ok
}

// wormholeChainNames is the reverse of WormholeChainIDs
var wormholeChainNames = func() map[int]Chain {
	names := make(map[int]Chain, len(WormholeChainIDs))
	for name, id := range WormholeChainIDs {
		names[id] = name
	}
	return names
}()

// ChainFromWormholeID returns the chain name for a Wormhole identifier
func ChainFromWormholeID(id int) (Chain, bool) {
	name, ok := wormholeChainNames[id]
	return name, ok
}
