// Package contract implements the closed-union dispatch for ContractCode
// execution: a single, exhaustive switch over variants, never open
// inheritance. Today there is one variant, Ed25519PK, which models an
// externally-owned account whose authorization is a signature over the
// transaction hash.
package contract

import (
	"fmt"

	"golang.org/x/crypto/ed25519"

	"mel2stf.dev/mel2stf/internal/meltypes"
	"mel2stf.dev/mel2stf/internal/stferrors"
)

// ed25519Gas is the flat gas cost of dispatching into the Ed25519PK variant,
// charged regardless of entry point or outcome.
const ed25519Gas = 10_000

// Verdict is the contract's accept/reject decision. OutOfGas is signaled via
// error, not as a Verdict value, since it aborts the caller's apply step
// rather than letting it inspect a verdict.
type Verdict int

const (
	// Reject means the contract declined to authorize or accept.
	Reject Verdict = iota
	// Accept means the contract authorized or accepted.
	Accept
)

// Execute dispatches into code's variant. entry 0 is from-side authorization
// (data is the transaction's AuthData, signingHash is the hash of the
// transaction with AuthData zeroed); entry 1 is to-side acceptance (data is
// CallData). gasLeft is debited in place; insufficient gas returns
// stferrors.ErrOutOfGas and leaves the verdict undefined.
func Execute(code meltypes.ContractCode, entry uint64, data []byte, signingHash meltypes.Hash, gasLeft *uint64) (Verdict, error) {
	switch code.Kind {
	case meltypes.ContractEd25519PK:
		return executeEd25519(code.Ed25519PK, entry, data, signingHash, gasLeft)
	default:
		return Reject, fmt.Errorf("contract: unknown contract code kind %d", code.Kind)
	}
}

func executeEd25519(pk [32]byte, entry uint64, data []byte, signingHash meltypes.Hash, gasLeft *uint64) (Verdict, error) {
	if *gasLeft < ed25519Gas {
		return Reject, stferrors.ErrOutOfGas
	}
	*gasLeft -= ed25519Gas

	if entry != 0 {
		// Ed25519 contracts are authorizers, not receivers; they never
		// accept an incoming call by default.
		return Reject, nil
	}
	if ed25519.Verify(ed25519.PublicKey(pk[:]), signingHash[:], data) {
		return Accept, nil
	}
	return Reject, nil
}
