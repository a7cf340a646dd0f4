// Package block implements the in-progress and sealed block types: the
// accumulation of applied transactions over a state handle, sealing rules
// (gas-price drift bound, proposer coinbase, header construction), genesis
// constructors, and full candidate-block validation.
package block

import (
	"mel2stf.dev/mel2stf/internal/header"
	"mel2stf.dev/mel2stf/internal/meltypes"
	"mel2stf.dev/mel2stf/internal/smt"
	"mel2stf.dev/mel2stf/internal/state"
	"mel2stf.dev/mel2stf/internal/stferrors"
)

// coinbaseReward is the fixed MEL credit paid to a block's proposer at
// sealing time.
var coinbaseReward = meltypes.QuantityFromMicro(1_000_000)

// genesisGasPrice is the fixed gas price of both genesis headers.
var genesisGasPrice = meltypes.QuantityFromMicro(1_000_000)

// Block is the sealed, serializable record: a header plus the ordered
// transactions and sealing choices that produced it.
type Block struct {
	Header       header.Header
	Transactions []meltypes.Transaction
	SealInfo     meltypes.SealingInfo
}

// BetanetGenesis returns the fixed betanet genesis block.
func BetanetGenesis() *Block {
	return genesis(meltypes.Betanet)
}

// TestnetGenesis returns the fixed testnet genesis block.
func TestnetGenesis() *Block {
	return genesis(meltypes.Testnet)
}

func genesis(chainID meltypes.ChainId) *Block {
	return &Block{
		Header: header.Header{
			ChainId:  chainID,
			Prev:     meltypes.ZeroHash,
			Height:   0,
			GasPrice: genesisGasPrice,
			State:    meltypes.ZeroHash,
		},
		Transactions: nil,
		SealInfo: meltypes.SealingInfo{
			Proposer:    meltypes.ZeroAddress,
			NewGasPrice: genesisGasPrice,
		},
	}
}

// InProgressBlock accumulates applied transactions over a state handle. It
// owns exactly one current handle plus the ordered list of successfully
// applied transactions, and is consumed by Seal.
type InProgressBlock struct {
	handle       *state.Handle
	transactions []meltypes.Transaction
}

// NextBlock opens the tree at b's committed state root and returns an
// InProgressBlock whose handle carries b's header as parent.
func (b *Block) NextBlock(store *smt.InMemoryStore) (*InProgressBlock, error) {
	tree, err := smt.Open(store, b.Header.State)
	if err != nil {
		return nil, &stferrors.SmtCorruptionError{Cause: err}
	}
	return &InProgressBlock{handle: state.New(b.Header, tree)}, nil
}

// Handle returns the in-progress block's current state handle, for callers
// that need to inspect balances or contracts mid-block.
func (ib *InProgressBlock) Handle() *state.Handle { return ib.handle }

// Transactions returns the ordered transactions successfully applied so
// far.
func (ib *InProgressBlock) Transactions() []meltypes.Transaction { return ib.transactions }

// ApplyTx delegates to the handle's ApplyTx. On success it replaces the
// handle and appends txn; on failure it mutates neither field. This is the
// block-level atomicity unit: one transaction in, zero or all of its state
// writes out.
func (ib *InProgressBlock) ApplyTx(txn meltypes.Transaction) error {
	next, err := ib.handle.ApplyTx(txn)
	if err != nil {
		return err
	}
	ib.handle = next
	ib.transactions = append(ib.transactions, txn)
	return nil
}

// Seal finalizes the in-progress block: checks the gas-price drift bound,
// credits the proposer's coinbase, commits the tree, and constructs the
// sealed header.
func (ib *InProgressBlock) Seal(sealInfo meltypes.SealingInfo) (*Block, error) {
	parent := ib.handle.Parent
	p := parent.GasPrice

	if !gasPriceInDriftRange(p, sealInfo.NewGasPrice) {
		return nil, stferrors.ErrGasPriceOutOfRange
	}

	proposerBal, _ := ib.handle.GetBalance(sealInfo.Proposer, meltypes.MEL)
	creditedHandle := ib.handle.SetBalance(sealInfo.Proposer, meltypes.MEL, proposerBal.Add(coinbaseReward))

	root, err := creditedHandle.Tree.Commit()
	if err != nil {
		return nil, &stferrors.CoinbaseFailedError{Cause: &stferrors.SmtCorruptionError{Cause: err}}
	}

	sealed := header.Header{
		ChainId:  parent.ChainId,
		Prev:     parent.Hash(),
		Height:   parent.Height + 1,
		GasPrice: sealInfo.NewGasPrice,
		State:    root,
	}

	return &Block{
		Header:       sealed,
		Transactions: ib.transactions,
		SealInfo:     sealInfo,
	}, nil
}

// gasPriceInDriftRange reports whether newPrice lies in
// [floor(9p/10), floor(10p/9)+1].
func gasPriceInDriftRange(p, newPrice meltypes.Quantity) bool {
	lower := meltypes.MulDivFloor(p, 9, 10)
	upper := meltypes.MulDivFloor(p, 10, 9).Add(meltypes.QuantityFromMicro(1))
	return !newPrice.LessThan(lower) && !upper.LessThan(newPrice)
}

// ApplyAndValidate replays candidate's transactions against store starting
// from b, seals with candidate's SealInfo, and compares the produced header
// field-for-field with candidate.Header. The returned Block is the
// locally-constructed one, bit-equal to candidate on success.
func (b *Block) ApplyAndValidate(candidate *Block, store *smt.InMemoryStore) (*Block, error) {
	ib, err := b.NextBlock(store)
	if err != nil {
		return nil, err
	}

	for _, txn := range candidate.Transactions {
		if err := ib.ApplyTx(txn); err != nil {
			return nil, &stferrors.ApplyTxFailedError{Cause: err}
		}
	}

	sealed, err := ib.Seal(candidate.SealInfo)
	if err != nil {
		return nil, &stferrors.SealFailedError{Cause: err}
	}

	if !sealed.Header.Equal(candidate.Header) {
		return nil, stferrors.ErrHeaderMismatch
	}

	return sealed, nil
}
