package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/flashorca/vault-audit/audit"
	cfg "github.com/flashorca/vault-audit/config"
	"github.com/flashorca/vault-audit/idl"
	"github.com/flashorca/vault-audit/log"
	"github.com/flashorca/vault-audit/rpc"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check ally custody records against their vault token accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := parseConfig()
		if err != nil {
			return err
		}
		if err := conf.Validate(); err != nil {
			return err
		}
		logger, err := setupLogging(conf)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, conf.Timeout)
		defer cancel()

		doc, err := loadDocument(conf)
		if err != nil {
			return err
		}
		schemas, err := idl.NewRegistry(doc).Records(idl.AllyAccount, idl.VaultStateAccount)
		if err != nil {
			return err
		}

		client := rpc.New(conf.RPCURL, logger.WithName("rpc"))
		mint, owner, err := expectedState(ctx, conf, client, schemas[idl.VaultStateAccount])
		if err != nil {
			return err
		}

		addrs := make([]solana.PublicKey, len(conf.AllyMints))
		for i, nftMint := range conf.AllyMints {
			if addrs[i], err = rpc.AllyPDA(conf.ProgramID, nftMint); err != nil {
				return err
			}
		}

		runner := audit.NewRunner(client, client,
			audit.WithLog(logger.WithName("audit")),
			audit.WithConcurrency(conf.Concurrency),
		)
		report := runner.Run(ctx, schemas[idl.AllyAccount], addrs, mint, owner)

		if conf.Format == cfg.JSONFormat {
			err = report.WriteJSON(cmd.OutOrStdout())
		} else {
			err = report.WriteText(cmd.OutOrStdout())
		}
		if err != nil {
			return err
		}

		if !report.Clean() && !conf.IgnoreFindings {
			return fmt.Errorf("%w: %d of %d targets",
				ErrFindings, report.Summary.Mismatched, report.Summary.Checked)
		}
		return nil
	},
}

func loadDocument(conf *cfg.Config) (*idl.Document, error) {
	if conf.IdlFile == "" {
		return idl.Default()
	}
	return idl.Load(afero.NewOsFs(), conf.IdlFile)
}

// expectedState resolves the mint and token authority every vault token
// account must match. Overrides from config win; otherwise the mint comes
// from the on-chain vault state and the authority from the program id.
func expectedState(
	ctx context.Context,
	conf *cfg.Config,
	client *rpc.Client,
	schema idl.RecordSchema,
) (mint, owner solana.PublicKey, err error) {
	mint, owner = conf.Mint, conf.VaultOwner
	if owner.IsZero() {
		if owner, err = rpc.VaultSignerPDA(conf.ProgramID); err != nil {
			return solana.PublicKey{}, solana.PublicKey{}, err
		}
	}
	if mint.IsZero() {
		stateAddr, err := rpc.VaultStatePDA(conf.ProgramID)
		if err != nil {
			return solana.PublicKey{}, solana.PublicKey{}, err
		}
		state, err := client.FetchVaultState(ctx, stateAddr, schema)
		if err != nil {
			return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("read vault state: %w", err)
		}
		mint = state.ForcaMint
		log.With().Debug("expected mint read from vault state", log.Mint(mint.String()))
	}
	return mint, owner, nil
}
