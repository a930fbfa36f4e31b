package rpc

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Program-derived addresses used by the reward vault program. Derivation is
// a convenience for building the target list; the audit core takes the
// resulting addresses as plain inputs.

// VaultStatePDA derives the program's singleton state address.
func VaultStatePDA(program solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte("vault_state")}, program)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive vault state address: %w", err)
	}
	return addr, nil
}

// VaultSignerPDA derives the vault's token authority. Every ally vault
// token account is expected to be owned by it.
func VaultSignerPDA(program solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte("vault_signer")}, program)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive vault signer address: %w", err)
	}
	return addr, nil
}

// AllyPDA derives an ally record address from its membership NFT mint.
func AllyPDA(program, nftMint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte("ally"), nftMint.Bytes()}, program)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive ally address: %w", err)
	}
	return addr, nil
}
