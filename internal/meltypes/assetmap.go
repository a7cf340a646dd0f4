package meltypes

import "sort"

// AssetMap is the transaction's token->quantity movement set. It is backed
// by a plain Go map but always iterated through SortedTokens, which yields
// ascending TokenId order — the ordering the apply algorithm and the
// canonical encoding both depend on for determinism.
type AssetMap map[TokenId]Quantity

// NewAssetMap returns an empty asset map.
func NewAssetMap() AssetMap { return make(AssetMap) }

// SortedTokens returns the map's keys in ascending order.
func (a AssetMap) SortedTokens() []TokenId {
	out := make([]TokenId, 0, len(a))
	for t := range a {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
