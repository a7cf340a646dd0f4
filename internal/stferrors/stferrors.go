// Package stferrors collects the error kinds surfaced by the state
// transition core. Simple, payload-free failures are sentinel values
// compared with errors.Is; failures that carry structured context are
// concrete types implementing error (and Unwrap, where they wrap a cause) so
// callers can errors.As them.
package stferrors

import (
	"errors"
	"fmt"

	"mel2stf.dev/mel2stf/internal/meltypes"
)

// Transaction-apply errors.
var (
	ErrOutOfGas        = errors.New("stf: out of gas")
	ErrWrongNetId      = errors.New("stf: transaction chain id does not match parent header")
	ErrFromFailed      = errors.New("stf: from-contract rejected authorization")
	ErrToFailed        = errors.New("stf: to-contract rejected the call")
	ErrStateCorruption = errors.New("stf: state value failed to decode")
)

// Sealing and validation errors.
var (
	ErrGasPriceOutOfRange = errors.New("stf: gas price outside the allowed drift bound")
	ErrHeaderMismatch     = errors.New("stf: replayed header does not match candidate header")
)

// OutOfMoneyError reports insufficient balance of a specific token, for
// either the fee or an asset movement.
type OutOfMoneyError struct {
	Token meltypes.TokenId
}

func (e *OutOfMoneyError) Error() string {
	return fmt.Sprintf("stf: out of money for token %d", e.Token)
}

// SmtCorruptionError wraps an opaque error surfaced by the node store.
type SmtCorruptionError struct {
	Cause error
}

func (e *SmtCorruptionError) Error() string { return fmt.Sprintf("stf: smt corruption: %v", e.Cause) }
func (e *SmtCorruptionError) Unwrap() error { return e.Cause }

// CoinbaseFailedError wraps the apply-tx error that occurred while crediting
// the block proposer's coinbase during sealing.
type CoinbaseFailedError struct {
	Cause error
}

func (e *CoinbaseFailedError) Error() string {
	return fmt.Sprintf("stf: coinbase credit failed: %v", e.Cause)
}
func (e *CoinbaseFailedError) Unwrap() error { return e.Cause }

// ApplyTxFailedError wraps the apply-tx error hit while replaying a
// candidate block's transactions during validation.
type ApplyTxFailedError struct {
	Cause error
}

func (e *ApplyTxFailedError) Error() string {
	return fmt.Sprintf("stf: apply tx failed during validation: %v", e.Cause)
}
func (e *ApplyTxFailedError) Unwrap() error { return e.Cause }

// SealFailedError wraps the seal-block error hit while sealing a replayed
// candidate block during validation.
type SealFailedError struct {
	Cause error
}

func (e *SealFailedError) Error() string { return fmt.Sprintf("stf: seal failed during validation: %v", e.Cause) }
func (e *SealFailedError) Unwrap() error { return e.Cause }
