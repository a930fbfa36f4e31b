package audit

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/flashorca/vault-audit/common/types"
)

// Target pairs one ally's custody record with the token account backing it.
// FetchErr marks a target whose fetches did not complete; Record may still
// be set when only the ledger side failed.
type Target struct {
	Address  solana.PublicKey
	Record   *types.AllyState
	Ledger   *types.TokenAccount
	FetchErr error
}

// Diff returns ledger balance minus recorded balance.
func (t Target) Diff() *big.Int {
	return subU64(t.Ledger.Amount, t.Record.BalanceForca)
}

// UnreservedRecorded returns the recorded balance left after the reserve.
func (t Target) UnreservedRecorded() *big.Int {
	return subU64(t.Record.BalanceForca, t.Record.RpReserved)
}

// UnreservedLedger returns the ledger balance left after the reserve.
func (t Target) UnreservedLedger() *big.Int {
	return subU64(t.Ledger.Amount, t.Record.RpReserved)
}

func subU64(a, b uint64) *big.Int {
	return new(big.Int).Sub(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
}

// Result is the outcome for one target. An empty finding list means the
// target checked out.
type Result struct {
	Target   Target
	Findings []Finding
}

// OK reports whether the target produced no findings.
func (r Result) OK() bool {
	return len(r.Findings) == 0
}

// Reconcile compares every target's recorded state against its ledger
// state. Checks are independent: one mismatch never suppresses another.
// The comparison reads both sources as-is and mutates nothing, so a rerun
// on the same inputs yields the same findings.
func Reconcile(targets []Target, expectedMint, expectedVaultOwner solana.PublicKey) []Result {
	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		results = append(results, reconcileTarget(t, expectedMint, expectedVaultOwner))
	}
	return results
}

func reconcileTarget(t Target, expectedMint, expectedVaultOwner solana.PublicKey) Result {
	if t.FetchErr != nil {
		return Result{
			Target:   t,
			Findings: []Finding{{Kind: FindingFetchFailure, Reason: t.FetchErr.Error()}},
		}
	}

	var findings []Finding
	if !t.Ledger.Mint.Equals(expectedMint) {
		findings = append(findings, Finding{Kind: FindingMintMismatch})
	}
	if !t.Ledger.Owner.Equals(expectedVaultOwner) {
		findings = append(findings, Finding{Kind: FindingOwnerMismatch})
	}
	if diff := t.Diff(); diff.Sign() != 0 {
		findings = append(findings, Finding{Kind: FindingBalanceMismatch, Diff: diff})
	}
	if t.Ledger.Amount < t.Record.RpReserved {
		findings = append(findings, Finding{
			Kind:      FindingUnderReserved,
			Shortfall: t.Record.RpReserved - t.Ledger.Amount,
		})
	}
	return Result{Target: t, Findings: findings}
}
