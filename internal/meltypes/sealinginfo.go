package meltypes

// SealingInfo carries the block producer's discretionary choices at sealing
// time: who receives the coinbase credit and what gas price the sealed
// header advertises.
type SealingInfo struct {
	Proposer    Address
	NewGasPrice Quantity
}
