package types

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// TokenAccountSize is the fixed serialized size of an SPL token account.
const TokenAccountSize = 165

// TokenAccount is the SPL token account layout. COption fields keep their
// raw 4-byte presence tags so offsets line up with the on-chain layout.
type TokenAccount struct {
	Mint                 solana.PublicKey
	Owner                solana.PublicKey
	Amount               uint64
	DelegateOption       [4]byte
	Delegate             solana.PublicKey
	State                uint8
	IsNativeOption       [4]byte
	IsNative             uint64
	DelegatedAmount      uint64
	CloseAuthorityOption [4]byte
	CloseAuthority       solana.PublicKey
}

// DecodeTokenAccount decodes a raw SPL token account.
func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) != TokenAccountSize {
		return nil, fmt.Errorf("token account is %d bytes, want %d", len(data), TokenAccountSize)
	}
	acct := &TokenAccount{}
	if err := bin.NewBinDecoder(data).Decode(acct); err != nil {
		return nil, fmt.Errorf("decode token account: %w", err)
	}
	return acct, nil
}
