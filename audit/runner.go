package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"

	"github.com/flashorca/vault-audit/common/types"
	"github.com/flashorca/vault-audit/idl"
	"github.com/flashorca/vault-audit/log"
)

// Fetch boundary errors. The runner records them per target; they never
// abort sibling targets.
var (
	// ErrNotFound is returned when an address has no stored record.
	ErrNotFound = errors.New("record not found")
	// ErrSizeMismatch is returned when a stored record's byte length does
	// not match the schema's total size. It signals program/schema version
	// skew and is never silently truncated or padded over.
	ErrSizeMismatch = errors.New("record size mismatch")
	// ErrInvalidRecord is returned when stored bytes carry the wrong
	// discriminator for the requested record kind.
	ErrInvalidRecord = errors.New("unexpected record data")
)

// RecordFetcher reads and decodes an ally custody record, validating the
// raw length against the schema before decoding.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, addr solana.PublicKey, schema idl.RecordSchema) (*types.AllyState, error)
}

// LedgerFetcher reads an SPL token account.
type LedgerFetcher interface {
	FetchTokenAccount(ctx context.Context, addr solana.PublicKey) (*types.TokenAccount, error)
}

const defaultConcurrency = 8

// Runner assembles targets from the two fetch boundaries and reconciles
// them. Targets share nothing, so fetches run concurrently.
type Runner struct {
	logger  log.Log
	records RecordFetcher
	ledger  LedgerFetcher
	limit   int
}

// Opt modifies a Runner.
type Opt func(*Runner)

// WithLog sets the runner logger.
func WithLog(logger log.Log) Opt {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConcurrency caps in-flight target fetches.
func WithConcurrency(n int) Opt {
	return func(r *Runner) {
		if n > 0 {
			r.limit = n
		}
	}
}

// NewRunner creates a Runner over the given fetch boundaries.
func NewRunner(records RecordFetcher, ledger LedgerFetcher, opts ...Opt) *Runner {
	r := &Runner{
		logger:  log.NewNop(),
		records: records,
		ledger:  ledger,
		limit:   defaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collect fetches every address's record and its backing token account.
// Results keep the input order. A failed fetch is captured in the target;
// it does not cancel the others. Cancelling ctx abandons in-flight fetches,
// and already-resolved targets stay valid.
func (r *Runner) Collect(ctx context.Context, schema idl.RecordSchema, addrs []solana.PublicKey) []Target {
	targets := make([]Target, len(addrs))
	var eg errgroup.Group
	eg.SetLimit(r.limit)
	for i, addr := range addrs {
		i, addr := i, addr
		eg.Go(func() error {
			targets[i] = r.collectOne(ctx, schema, addr)
			return nil
		})
	}
	eg.Wait()
	return targets
}

func (r *Runner) collectOne(ctx context.Context, schema idl.RecordSchema, addr solana.PublicKey) Target {
	target := Target{Address: addr}
	record, err := r.records.FetchRecord(ctx, addr, schema)
	if err != nil {
		r.logger.With().Debug("record fetch failed", log.Account(addr.String()), log.Err(err))
		target.FetchErr = fmt.Errorf("fetch record: %w", err)
		return target
	}
	target.Record = record

	ledger, err := r.ledger.FetchTokenAccount(ctx, record.VaultAta)
	if err != nil {
		r.logger.With().Debug("ledger fetch failed", log.Account(record.VaultAta.String()), log.Err(err))
		target.FetchErr = fmt.Errorf("fetch token account: %w", err)
		return target
	}
	target.Ledger = ledger
	return target
}

// Run collects all targets and reconciles them into a report.
func (r *Runner) Run(
	ctx context.Context,
	schema idl.RecordSchema,
	addrs []solana.PublicKey,
	expectedMint, expectedVaultOwner solana.PublicKey,
) *Report {
	targets := r.Collect(ctx, schema, addrs)
	report := NewReport(Reconcile(targets, expectedMint, expectedVaultOwner))
	r.logger.With().Info("audit finished",
		log.Int("checked", report.Summary.Checked),
		log.Int("mismatched", report.Summary.Mismatched),
	)
	return report
}
