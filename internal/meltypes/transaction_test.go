package meltypes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mel2stf.dev/mel2stf/internal/meltypes"
)

func sampleTransaction() meltypes.Transaction {
	var from, to meltypes.Address
	from[0] = 0x01
	to[0] = 0x02
	return meltypes.Transaction{
		ChainId: meltypes.Testnet,
		Nonce:   7,
		From:    from,
		To:      to,
		Fee:     meltypes.NewQuantity(0, 500000),
		Assets: meltypes.AssetMap{
			meltypes.MEL:     meltypes.NewQuantity(1, 0),
			meltypes.TokenId(9): meltypes.NewQuantity(0, 250000),
		},
		AuthData: []byte{0xde, 0xad},
		CallData: []byte{0xbe, 0xef, 0xca, 0xfe},
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	txn := sampleTransaction()
	decoded, err := meltypes.DecodeTransaction(txn.Canon())
	require.NoError(t, err)
	require.Equal(t, txn.ChainId, decoded.ChainId)
	require.Equal(t, txn.Nonce, decoded.Nonce)
	require.Equal(t, txn.From, decoded.From)
	require.Equal(t, txn.To, decoded.To)
	require.Equal(t, 0, txn.Fee.Cmp(decoded.Fee))
	require.Equal(t, txn.AuthData, decoded.AuthData)
	require.Equal(t, txn.CallData, decoded.CallData)
	for tok, qty := range txn.Assets {
		got, ok := decoded.Assets[tok]
		require.True(t, ok)
		require.Equal(t, 0, qty.Cmp(got))
	}
}

func TestTransactionSigningHashIgnoresAuthData(t *testing.T) {
	a := sampleTransaction()
	b := sampleTransaction()
	b.AuthData = []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	require.Equal(t, a.CanonForSigning(), b.CanonForSigning())
	require.NotEqual(t, a.Canon(), b.Canon())
}

func TestAssetMapSortedTokens(t *testing.T) {
	a := meltypes.AssetMap{
		meltypes.TokenId(5): meltypes.ZeroQuantity,
		meltypes.TokenId(1): meltypes.ZeroQuantity,
		meltypes.TokenId(3): meltypes.ZeroQuantity,
	}
	require.Equal(t, []meltypes.TokenId{1, 3, 5}, a.SortedTokens())
}

func TestContractCodeRoundTrip(t *testing.T) {
	var pk [32]byte
	pk[0] = 0xAB
	code := meltypes.NewEd25519ContractCode(pk)
	decoded, err := meltypes.DecodeContractCode(code.Canon())
	require.NoError(t, err)
	require.Equal(t, code, decoded)
}
