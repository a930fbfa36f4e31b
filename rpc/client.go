// Package rpc implements the audit's fetch boundaries over a Solana
// JSON-RPC node.
package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/flashorca/vault-audit/audit"
	"github.com/flashorca/vault-audit/common/types"
	"github.com/flashorca/vault-audit/idl"
	"github.com/flashorca/vault-audit/log"
)

// Client reads on-chain state. It implements audit.RecordFetcher and
// audit.LedgerFetcher and never submits transactions.
type Client struct {
	logger log.Log
	rpc    *solrpc.Client
}

// New creates a read-only client against the given RPC endpoint.
func New(endpoint string, logger log.Log) *Client {
	return &Client{
		logger: logger,
		rpc:    solrpc.New(endpoint),
	}
}

func (c *Client) fetchRaw(ctx context.Context, addr solana.PublicKey) ([]byte, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, addr, &solrpc.GetAccountInfoOpts{
		Commitment: solrpc.CommitmentFinalized,
	})
	if err != nil {
		if errors.Is(err, solrpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", audit.ErrNotFound, addr)
		}
		return nil, fmt.Errorf("get account info %s: %w", addr, err)
	}
	if res.Value == nil {
		return nil, fmt.Errorf("%w: %s", audit.ErrNotFound, addr)
	}
	return res.Value.Data.GetBinary(), nil
}

// fetchRecordData validates length and discriminator before handing the
// payload to a decoder.
func (c *Client) fetchRecordData(ctx context.Context, addr solana.PublicKey, schema idl.RecordSchema) ([]byte, error) {
	data, err := c.fetchRaw(ctx, addr)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) != schema.TotalSize {
		return nil, fmt.Errorf("%w: account %s is %d bytes, schema %s wants %d",
			audit.ErrSizeMismatch, addr, len(data), schema.Name, schema.TotalSize)
	}
	disc := schema.Discriminator()
	if !bytes.Equal(data[:idl.DiscriminatorLen], disc[:]) {
		return nil, fmt.Errorf("%w: account %s does not carry the %s discriminator",
			audit.ErrInvalidRecord, addr, schema.Name)
	}
	return data[idl.DiscriminatorLen:], nil
}

// FetchRecord implements audit.RecordFetcher.
func (c *Client) FetchRecord(ctx context.Context, addr solana.PublicKey, schema idl.RecordSchema) (*types.AllyState, error) {
	data, err := c.fetchRecordData(ctx, addr, schema)
	if err != nil {
		return nil, err
	}
	return types.DecodeAllyState(data)
}

// FetchVaultState reads the program's singleton state record.
func (c *Client) FetchVaultState(ctx context.Context, addr solana.PublicKey, schema idl.RecordSchema) (*types.VaultState, error) {
	data, err := c.fetchRecordData(ctx, addr, schema)
	if err != nil {
		return nil, err
	}
	return types.DecodeVaultState(data)
}

// FetchTokenAccount implements audit.LedgerFetcher.
func (c *Client) FetchTokenAccount(ctx context.Context, addr solana.PublicKey) (*types.TokenAccount, error) {
	data, err := c.fetchRaw(ctx, addr)
	if err != nil {
		return nil, err
	}
	if len(data) != types.TokenAccountSize {
		return nil, fmt.Errorf("%w: token account %s is %d bytes, want %d",
			audit.ErrSizeMismatch, addr, len(data), types.TokenAccountSize)
	}
	return types.DecodeTokenAccount(data)
}
