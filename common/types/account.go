// Package types holds the decoded on-chain record types the audit inspects.
package types

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// VaultState is the program's singleton configuration record.
type VaultState struct {
	PopAdmin                  solana.PublicKey
	EconAdmin                 solana.PublicKey
	ForcaMint                 solana.PublicKey
	FeeCBps                   uint16
	TaxDBps                   uint16
	MarginBBps                uint16
	Paused                    bool
	VaultSignerBump           uint8
	SoftDailyCapUsdE6         uint64
	SoftCooldownSecs          uint64
	ForcaUsdE6                uint64
	VerifyPrices              bool
	OracleToleranceBps        uint16
	PythSolUsdPriceFeed       solana.PublicKey
	CanonicalPoolForcaSol     solana.PublicKey
	CanonicalPoolForcaReserve solana.PublicKey
	CanonicalPoolSolReserve   solana.PublicKey
	UseMockOracle             bool
	MockOracleLocked          bool
	PythMaxStaleSecs          uint64
	PythMaxConfidenceBps      uint16
}

// AllyState is the per-ally custody record. BalanceForca is the program's
// recorded custody balance; RpReserved is the slice of it earmarked for
// reward points and expected to stay covered by the vault token account.
type AllyState struct {
	NftMint               solana.PublicKey
	OpsAuthority          solana.PublicKey
	WithdrawAuthority     solana.PublicKey
	TreasuryAta           solana.PublicKey
	VaultAta              solana.PublicKey
	Role                  uint8
	BalanceForca          uint64
	RpReserved            uint64
	BenefitMode           uint8
	BenefitBps            uint16
	PopEnforced           bool
	SoftDailyCapUsdE6     uint64
	SoftCooldownSecs      uint64
	MonthlyClaimLimit     uint16
	HardKycThresholdUsdE6 uint64
}

// DecodeVaultState decodes a vault state payload (discriminator stripped).
func DecodeVaultState(data []byte) (*VaultState, error) {
	st := &VaultState{}
	if err := bin.NewBorshDecoder(data).Decode(st); err != nil {
		return nil, fmt.Errorf("decode vault state: %w", err)
	}
	return st, nil
}

// DecodeAllyState decodes an ally record payload (discriminator stripped).
func DecodeAllyState(data []byte) (*AllyState, error) {
	st := &AllyState{}
	if err := bin.NewBorshDecoder(data).Decode(st); err != nil {
		return nil, fmt.Errorf("decode ally state: %w", err)
	}
	return st, nil
}
