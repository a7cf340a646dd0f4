// Package state implements the mutable working view over a sparse Merkle
// tree during one block: loading contracts, reading/writing per-address
// per-token balances, and applying a single transaction atomically.
package state

import (
	"mel2stf.dev/mel2stf/internal/contract"
	"mel2stf.dev/mel2stf/internal/header"
	"mel2stf.dev/mel2stf/internal/melhash"
	"mel2stf.dev/mel2stf/internal/meltypes"
	"mel2stf.dev/mel2stf/internal/smt"
	"mel2stf.dev/mel2stf/internal/stferrors"
)

// assetGas is the per-asset gas cost charged while walking a transaction's
// asset map.
const assetGas = 200

// Handle is the mutable-in-appearance, immutable-in-fact working view over
// a tree for one in-progress block. ApplyTx never mutates the receiver: it
// either returns a new Handle reflecting every write of the transaction, or
// an error and a nil Handle, leaving the caller's existing Handle untouched.
type Handle struct {
	Parent header.Header
	Tree   *smt.Tree
}

// New builds a fresh Handle from a parent header and a tree opened at that
// header's state root.
func New(parent header.Header, tree *smt.Tree) *Handle {
	return &Handle{Parent: parent, Tree: tree}
}

// ApplyTx runs the full apply algorithm and returns the post-transaction
// Handle, or an error if any step failed. On error the caller's existing
// Handle remains valid and unchanged; this function never mutates h.
func (h *Handle) ApplyTx(txn meltypes.Transaction) (*Handle, error) {
	gasLeft := h.Parent.FeeToGas(txn.Fee)

	if txn.ChainId != h.Parent.ChainId {
		return nil, stferrors.ErrWrongNetId
	}

	tree := h.Tree

	fromCode, err := loadContract(tree, txn.From)
	if err != nil {
		return nil, err
	}
	toCode, err := loadContract(tree, txn.To)
	if err != nil {
		return nil, err
	}

	signingHash := melhash.Sum(txn.CanonForSigning())

	verdict, err := contract.Execute(fromCode, 0, txn.AuthData, signingHash, &gasLeft)
	if err != nil {
		return nil, err
	}
	if verdict == contract.Reject {
		return nil, stferrors.ErrFromFailed
	}

	verdict, err = contract.Execute(toCode, 1, txn.CallData, signingHash, &gasLeft)
	if err != nil {
		return nil, err
	}
	if verdict == contract.Reject {
		return nil, stferrors.ErrToFailed
	}

	fromMel, ok := getBalance(tree, txn.From, meltypes.MEL)
	if !ok || fromMel.LessThan(txn.Fee) {
		return nil, &stferrors.OutOfMoneyError{Token: meltypes.MEL}
	}
	tree = setBalance(tree, txn.From, meltypes.MEL, fromMel.Sub(txn.Fee))

	for _, tok := range txn.Assets.SortedTokens() {
		qty := txn.Assets[tok]

		if gasLeft < assetGas {
			return nil, stferrors.ErrOutOfGas
		}
		gasLeft -= assetGas

		fromBal, ok := getBalance(tree, txn.From, tok)
		if !ok || fromBal.LessThan(qty) {
			return nil, &stferrors.OutOfMoneyError{Token: tok}
		}
		toBal, ok := getBalance(tree, txn.To, tok)
		if !ok {
			toBal = meltypes.ZeroQuantity
		}

		tree = setBalance(tree, txn.From, tok, fromBal.Sub(qty))
		tree = setBalance(tree, txn.To, tok, toBal.Add(qty))
	}

	return &Handle{Parent: h.Parent, Tree: tree}, nil
}

// GetBalance is the read-only balance lookup used by sealing's coinbase
// credit and by callers inspecting post-apply state. The boolean reports
// whether the key was present; an absent key carries the zero quantity by
// convention, matching ApplyTx's own treatment of unseen to-balances.
func (h *Handle) GetBalance(addr meltypes.Address, tok meltypes.TokenId) (meltypes.Quantity, bool) {
	return getBalance(h.Tree, addr, tok)
}

// SetBalance returns a new Handle with addr's balance in tok set to qty.
func (h *Handle) SetBalance(addr meltypes.Address, tok meltypes.TokenId, qty meltypes.Quantity) *Handle {
	return &Handle{Parent: h.Parent, Tree: setBalance(h.Tree, addr, tok, qty)}
}

func loadContract(tree *smt.Tree, addr meltypes.Address) (meltypes.ContractCode, error) {
	raw := tree.Get(contractKey(addr))
	if len(raw) == 0 {
		return meltypes.ContractCode{}, stferrors.ErrStateCorruption
	}
	code, err := meltypes.DecodeContractCode(raw)
	if err != nil {
		return meltypes.ContractCode{}, stferrors.ErrStateCorruption
	}
	return code, nil
}

func getBalance(tree *smt.Tree, addr meltypes.Address, tok meltypes.TokenId) (meltypes.Quantity, bool) {
	raw := tree.Get(balanceKey(addr, tok))
	if len(raw) == 0 {
		return meltypes.ZeroQuantity, false
	}
	var b16 [16]byte
	copy(b16[:], raw)
	return meltypes.QuantityFromBytes16(b16), true
}

func setBalance(tree *smt.Tree, addr meltypes.Address, tok meltypes.TokenId, qty meltypes.Quantity) *smt.Tree {
	b := qty.Bytes16()
	return tree.With(balanceKey(addr, tok), b[:])
}
