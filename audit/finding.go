// Package audit cross-checks the reward vault program's per-ally custody
// records against the SPL token accounts that actually hold the funds.
package audit

import (
	"fmt"
	"math/big"
)

// FindingKind names a single class of divergence between a custody record
// and the token ledger.
type FindingKind string

const (
	// FindingMintMismatch: the vault token account holds the wrong mint.
	FindingMintMismatch FindingKind = "MINT_MISMATCH"
	// FindingOwnerMismatch: the vault token account is not owned by the
	// vault signer.
	FindingOwnerMismatch FindingKind = "OWNER_MISMATCH"
	// FindingBalanceMismatch: ledger balance differs from the recorded
	// custody balance.
	FindingBalanceMismatch FindingKind = "BALANCE_MISMATCH"
	// FindingUnderReserved: ledger balance no longer covers the reserved
	// amount.
	FindingUnderReserved FindingKind = "UNDER_RESERVED"
	// FindingFetchFailure: one of the two sources could not be read.
	FindingFetchFailure FindingKind = "FETCH_FAILURE"
)

// Finding is one detected discrepancy. Findings are outputs of a successful
// run, not errors.
type Finding struct {
	Kind FindingKind `json:"kind"`
	// Diff is ledger minus recorded balance, set for BALANCE_MISMATCH.
	// Both operands are u64, so the signed difference needs more than 64
	// bits.
	Diff *big.Int `json:"diff,omitempty"`
	// Shortfall is reserved minus ledger balance, set for UNDER_RESERVED.
	Shortfall uint64 `json:"shortfall,omitempty"`
	// Reason describes the failed fetch, set for FETCH_FAILURE.
	Reason string `json:"reason,omitempty"`
}

// String implements fmt.Stringer.
func (f Finding) String() string {
	switch f.Kind {
	case FindingBalanceMismatch:
		return fmt.Sprintf("%s diff=%s", f.Kind, f.Diff)
	case FindingUnderReserved:
		return fmt.Sprintf("%s shortfall=%d", f.Kind, f.Shortfall)
	case FindingFetchFailure:
		return fmt.Sprintf("%s reason=%q", f.Kind, f.Reason)
	default:
		return string(f.Kind)
	}
}
