// Package cmd is the base package for the vault-audit executable.
package cmd

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cfg "github.com/flashorca/vault-audit/config"
	"github.com/flashorca/vault-audit/log"
)

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	// Commit is the git commit used to build the app. Designed to be overwritten by make.
	Commit string
)

// ErrFindings is returned by verify when the report is not clean, so the
// caller can exit distinguishably from a fatal error.
var ErrFindings = errors.New("audit found mismatches")

// RootCmd is the entry command of the vault-audit binary.
var RootCmd = &cobra.Command{
	Use:           "vault-audit",
	Short:         "audits reward vault custody records against the SPL token ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	AddFlags(RootCmd)
	RootCmd.AddCommand(verifyCmd)
	RootCmd.AddCommand(layoutCmd)
	RootCmd.AddCommand(versionCmd)
}

// AddFlags registers persistent flags and binds them to viper.
func AddFlags(cmd *cobra.Command) {
	def := cfg.DefaultConfig()

	cmd.PersistentFlags().StringP("config", "c", "",
		"Load configuration from file")
	cmd.PersistentFlags().String("rpc-url", def.RPCURL,
		"Solana JSON-RPC endpoint to audit against")
	cmd.PersistentFlags().String("program-id", "",
		"reward vault program address")
	cmd.PersistentFlags().String("idl-file", "",
		"IDL document overriding the bundled reward vault IDL")
	cmd.PersistentFlags().String("mint", "",
		"expected vault mint; read from on-chain vault state when unset")
	cmd.PersistentFlags().String("vault-owner", "",
		"expected vault token authority; derived from the program id when unset")
	cmd.PersistentFlags().StringSlice("ally-mints", nil,
		"membership NFT mints whose custody records are audited")
	cmd.PersistentFlags().Int("concurrency", def.Concurrency,
		"max in-flight RPC fetches")
	cmd.PersistentFlags().Duration("timeout", def.Timeout,
		"bound for the whole audit run")
	cmd.PersistentFlags().String("format", def.Format,
		"report output format (text or json)")
	cmd.PersistentFlags().Bool("ignore-findings", def.IgnoreFindings,
		"always exit zero, even when the report has mismatches")
	cmd.PersistentFlags().String("log-level", def.LOGGING.Level,
		"log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-encoder", def.LOGGING.Encoder,
		"log as JSON instead of plain text")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		fmt.Println("an error has occurred while binding flags:", err)
	}
}

func parseConfig() (*cfg.Config, error) {
	conf := cfg.DefaultConfig()

	if file := viper.GetString("config"); file != "" {
		if err := cfg.LoadConfig(file, viper.GetViper()); err != nil {
			return nil, err
		}
	}

	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		cfg.PublicKeyDecodeFunc(),
	)
	if err := viper.Unmarshal(&conf, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// logging flags are flat while the config file nests them
	if v := viper.GetString("log-level"); v != "" {
		conf.LOGGING.Level = v
	}
	if v := viper.GetString("log-encoder"); v != "" {
		conf.LOGGING.Encoder = v
	}
	return &conf, nil
}

func setupLogging(conf *cfg.Config) (log.Log, error) {
	var level zapcore.Level
	if err := level.Set(conf.LOGGING.Level); err != nil {
		return log.Log{}, fmt.Errorf("parse log level %q: %w", conf.LOGGING.Level, err)
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if conf.LOGGING.Encoder == cfg.JSONLogEncoder {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	logger := log.NewWithLevel("vault-audit", zap.NewAtomicLevelAt(level), encoder)
	log.SetupGlobal(logger)
	return logger, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s", Version)
		if Commit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "+%s", Commit)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	},
}
