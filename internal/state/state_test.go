package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"

	"mel2stf.dev/mel2stf/internal/header"
	"mel2stf.dev/mel2stf/internal/melhash"
	"mel2stf.dev/mel2stf/internal/meltypes"
	"mel2stf.dev/mel2stf/internal/smt"
	"mel2stf.dev/mel2stf/internal/state"
	"mel2stf.dev/mel2stf/internal/stferrors"
)

func genesisHandle(t *testing.T, chainID meltypes.ChainId) (*state.Handle, *smt.InMemoryStore) {
	t.Helper()
	store := smt.NewInMemoryStore()
	tree, err := smt.Open(store, meltypes.ZeroHash)
	require.NoError(t, err)
	h := header.Header{
		ChainId:  chainID,
		Prev:     meltypes.ZeroHash,
		Height:   0,
		GasPrice: meltypes.QuantityFromMicro(1_000_000),
		State:    meltypes.ZeroHash,
	}
	return state.New(h, tree), store
}

func seedAccount(t *testing.T, h *state.Handle, addr meltypes.Address, pk ed25519.PublicKey, mel meltypes.Quantity) *state.Handle {
	t.Helper()
	var pk32 [32]byte
	copy(pk32[:], pk)
	code := meltypes.NewEd25519ContractCode(pk32)
	tree := h.Tree.With([32]byte(addr), code.Canon())
	h2 := &state.Handle{Parent: h.Parent, Tree: tree}
	return h2.SetBalance(addr, meltypes.MEL, mel)
}

func signedTx(t *testing.T, sk ed25519.PrivateKey, txn meltypes.Transaction) meltypes.Transaction {
	t.Helper()
	h := melhash.Sum(txn.CanonForSigning())
	sig := ed25519.Sign(sk, h[:])
	txn.AuthData = sig
	return txn
}

// Every contract code in this system is the Ed25519PK variant, and it
// rejects unconditionally at entry != 0 (to-side acceptance). So a
// correctly authorized transaction always clears from-side authorization
// and then fails at to-side acceptance: there is currently no contract
// variant that can carry ApplyTx past that point into the fee and asset
// steps. These tests exercise the steps that are reachable today
// (WrongNetId, StateCorruption, FromFailed, ToFailed) and prove the
// signing-hash invariant; the fee/asset bookkeeping they would otherwise
// drive is instead covered directly in state_internal_test.go.

func TestApplyTxWrongNetIdLeavesHandleUsable(t *testing.T) {
	h, _ := genesisHandle(t, meltypes.Testnet)
	txn := meltypes.Transaction{ChainId: meltypes.Betanet, Assets: meltypes.NewAssetMap()}
	rootBefore := h.Tree.RootHash()
	next, err := h.ApplyTx(txn)
	require.ErrorIs(t, err, stferrors.ErrWrongNetId)
	require.Nil(t, next)
	require.Equal(t, rootBefore, h.Tree.RootHash())
}

func TestApplyTxStateCorruptionOnMissingFromContract(t *testing.T) {
	h, _ := genesisHandle(t, meltypes.Testnet)
	var from meltypes.Address
	from[0] = 0x09
	txn := meltypes.Transaction{ChainId: meltypes.Testnet, From: from, Assets: meltypes.NewAssetMap()}
	_, err := h.ApplyTx(txn)
	require.ErrorIs(t, err, stferrors.ErrStateCorruption)
}

func TestApplyTxBadSignatureFails(t *testing.T) {
	pk, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	_, otherSK, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	h, _ := genesisHandle(t, meltypes.Testnet)
	var from meltypes.Address
	copy(from[:], pk)
	var to meltypes.Address
	to[0] = 0x01

	h = seedAccount(t, h, from, pk, meltypes.NewQuantity(10, 0))
	var toPK [32]byte
	h = seedAccount(t, h, to, ed25519.PublicKey(toPK[:]), meltypes.ZeroQuantity)

	txn := meltypes.Transaction{
		ChainId: meltypes.Testnet,
		From:    from,
		To:      to,
		Fee:     meltypes.NewQuantity(0, 500_000),
		Assets:  meltypes.NewAssetMap(),
	}
	txn = signedTx(t, otherSK, txn)

	_, err = h.ApplyTx(txn)
	require.ErrorIs(t, err, stferrors.ErrFromFailed)
}

// TestApplyTxSignatureIgnoresAuthData exercises S6: two transactions that
// differ only in AuthData share a signing hash, so a correctly signed one
// clears from-side authorization. The overall apply still fails, but it
// must fail with ToFailed rather than FromFailed, proving the signature
// itself verified and the from-side accepted it.
func TestApplyTxSignatureIgnoresAuthData(t *testing.T) {
	pk, sk, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	h, _ := genesisHandle(t, meltypes.Testnet)
	var from meltypes.Address
	copy(from[:], pk)
	var to meltypes.Address
	to[0] = 0x01

	h = seedAccount(t, h, from, pk, meltypes.NewQuantity(10, 0))
	var toPK [32]byte
	h = seedAccount(t, h, to, ed25519.PublicKey(toPK[:]), meltypes.ZeroQuantity)

	base := meltypes.Transaction{
		ChainId: meltypes.Testnet,
		From:    from,
		To:      to,
		Fee:     meltypes.NewQuantity(0, 500_000),
		Assets:  meltypes.NewAssetMap(),
	}

	signed := signedTx(t, sk, base)
	require.Equal(t, signed.CanonForSigning(), base.CanonForSigning())

	_, err = h.ApplyTx(signed)
	require.ErrorIs(t, err, stferrors.ErrToFailed)
	require.NotErrorIs(t, err, stferrors.ErrFromFailed)
}

func TestApplyTxToFailedLeavesHandleUsable(t *testing.T) {
	pk, sk, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	h, _ := genesisHandle(t, meltypes.Testnet)
	var from meltypes.Address
	copy(from[:], pk)
	var to meltypes.Address
	to[0] = 0x01

	h = seedAccount(t, h, from, pk, meltypes.NewQuantity(10, 0))
	var toPK [32]byte
	h = seedAccount(t, h, to, ed25519.PublicKey(toPK[:]), meltypes.ZeroQuantity)

	before, ok := h.GetBalance(from, meltypes.MEL)
	require.True(t, ok)

	txn := signedTx(t, sk, meltypes.Transaction{
		ChainId: meltypes.Testnet,
		From:    from,
		To:      to,
		Fee:     meltypes.NewQuantity(0, 500_000),
		Assets:  meltypes.NewAssetMap(),
	})

	next, err := h.ApplyTx(txn)
	require.ErrorIs(t, err, stferrors.ErrToFailed)
	require.Nil(t, next)

	after, ok := h.GetBalance(from, meltypes.MEL)
	require.True(t, ok)
	require.Equal(t, 0, before.Cmp(after))
}
