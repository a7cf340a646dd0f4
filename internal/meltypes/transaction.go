package meltypes

import (
	"mel2stf.dev/mel2stf/internal/canon"
)

// Transaction is a single account-to-account state-transition request. Assets
// is an ordered map whose iteration order (ascending TokenId) is load-bearing
// for state-root determinism; always range it via SortedTokens.
type Transaction struct {
	ChainId  ChainId
	Nonce    uint64
	From     Address
	To       Address
	Fee      Quantity
	Assets   AssetMap
	AuthData []byte
	CallData []byte
}

// canonEncode writes the transaction, optionally zeroing AuthData. Signing
// hashes are computed over the zeroed form so a signer can compute the hash
// before placing its signature into AuthData.
func (t Transaction) canonEncode(zeroAuthData bool) []byte {
	w := canon.NewWriter(128 + len(t.CallData) + len(t.AuthData))
	w.WriteUint16(uint16(t.ChainId))
	w.WriteUint64(t.Nonce)
	w.WriteFixed(t.From.Bytes())
	w.WriteFixed(t.To.Bytes())
	feeBytes := t.Fee.Bytes16()
	w.WriteFixed(feeBytes[:])

	tokens := t.Assets.SortedTokens()
	w.WriteUint64(uint64(len(tokens)))
	for _, tok := range tokens {
		w.WriteUint64(uint64(tok))
		qb := t.Assets[tok].Bytes16()
		w.WriteFixed(qb[:])
	}

	if zeroAuthData {
		w.WriteBytes(nil)
	} else {
		w.WriteBytes(t.AuthData)
	}
	w.WriteBytes(t.CallData)
	return w.Bytes()
}

// Canon returns the transaction's canonical encoding, including AuthData.
func (t Transaction) Canon() []byte { return t.canonEncode(false) }

// CanonForSigning returns the canonical encoding used as the signing hash
// preimage: identical to Canon except AuthData is reset to empty bytes, so
// that two transactions differing only in AuthData share a signing hash.
func (t Transaction) CanonForSigning() []byte { return t.canonEncode(true) }

// DecodeTransaction decodes a canonical Transaction encoding.
func DecodeTransaction(b []byte) (Transaction, error) {
	r := canon.NewReader(b)
	var t Transaction

	chainID, err := r.ReadUint16()
	if err != nil {
		return Transaction{}, err
	}
	t.ChainId = ChainId(chainID)

	t.Nonce, err = r.ReadUint64()
	if err != nil {
		return Transaction{}, err
	}

	from, err := r.ReadFixed(32)
	if err != nil {
		return Transaction{}, err
	}
	copy(t.From[:], from)

	to, err := r.ReadFixed(32)
	if err != nil {
		return Transaction{}, err
	}
	copy(t.To[:], to)

	feeBytes, err := r.ReadFixed(16)
	if err != nil {
		return Transaction{}, err
	}
	var fee16 [16]byte
	copy(fee16[:], feeBytes)
	t.Fee = QuantityFromBytes16(fee16)

	count, err := r.ReadUint64()
	if err != nil {
		return Transaction{}, err
	}
	t.Assets = NewAssetMap()
	for i := uint64(0); i < count; i++ {
		tok, err := r.ReadUint64()
		if err != nil {
			return Transaction{}, err
		}
		qb, err := r.ReadFixed(16)
		if err != nil {
			return Transaction{}, err
		}
		var q16 [16]byte
		copy(q16[:], qb)
		t.Assets[TokenId(tok)] = QuantityFromBytes16(q16)
	}

	t.AuthData, err = r.ReadBytes()
	if err != nil {
		return Transaction{}, err
	}
	t.CallData, err = r.ReadBytes()
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}
