package meltypes

import (
	"fmt"

	"mel2stf.dev/mel2stf/internal/canon"
)

// ContractKind discriminates the closed set of ContractCode variants. The
// union is exhaustive by design: a new variant requires a new Kind constant
// and a new case in internal/contract's dispatch, never open inheritance.
type ContractKind byte

const (
	// ContractEd25519PK authorizes via a single Ed25519 signature.
	ContractEd25519PK ContractKind = 0
)

// ContractCode is the tagged union of executable address policies. Only one
// variant exists today: a bare Ed25519 public key.
type ContractCode struct {
	Kind      ContractKind
	Ed25519PK [32]byte
}

// NewEd25519ContractCode builds the Ed25519PK variant for the given key.
func NewEd25519ContractCode(pk [32]byte) ContractCode {
	return ContractCode{Kind: ContractEd25519PK, Ed25519PK: pk}
}

// Canon returns the canonical encoding of the contract code.
func (c ContractCode) Canon() []byte {
	w := canon.NewWriter(33)
	w.WriteTag(byte(c.Kind))
	switch c.Kind {
	case ContractEd25519PK:
		w.WriteFixed(c.Ed25519PK[:])
	}
	return w.Bytes()
}

// DecodeContractCode decodes a canonical ContractCode encoding.
func DecodeContractCode(b []byte) (ContractCode, error) {
	r := canon.NewReader(b)
	tag, err := r.ReadTag()
	if err != nil {
		return ContractCode{}, err
	}
	switch ContractKind(tag) {
	case ContractEd25519PK:
		pk, err := r.ReadFixed(32)
		if err != nil {
			return ContractCode{}, err
		}
		var out ContractCode
		out.Kind = ContractEd25519PK
		copy(out.Ed25519PK[:], pk)
		return out, nil
	default:
		return ContractCode{}, fmt.Errorf("meltypes: unknown contract code tag %d", tag)
	}
}
