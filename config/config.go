// Package config contains vault-audit configuration definitions.
package config

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

const defaultConfigFileName = "./vault-audit.json"

// Output formats for the audit report.
const (
	TextFormat = "text"
	JSONFormat = "json"
)

// Config defines the top level configuration for the vault-audit tool.
type Config struct {
	BaseConfig `mapstructure:",squash"`
	LOGGING    LoggerConfig `mapstructure:"logging"`
}

// BaseConfig defines the default configuration options for vault-audit.
type BaseConfig struct {
	ConfigFile string `mapstructure:"config"`

	// RPCURL is the JSON-RPC endpoint of the Solana node to audit against.
	RPCURL string `mapstructure:"rpc-url"`

	// ProgramID is the reward vault program address.
	ProgramID solana.PublicKey `mapstructure:"program-id"`

	// IdlFile overrides the bundled reward vault IDL document.
	IdlFile string `mapstructure:"idl-file"`

	// Mint overrides the expected vault mint. When unset it is read from
	// the on-chain vault state.
	Mint solana.PublicKey `mapstructure:"mint"`

	// VaultOwner overrides the expected vault token authority. When unset
	// it is derived from the program id.
	VaultOwner solana.PublicKey `mapstructure:"vault-owner"`

	// AllyMints lists the membership NFT mints whose custody records are
	// audited.
	AllyMints []solana.PublicKey `mapstructure:"ally-mints"`

	// Concurrency caps in-flight RPC fetches.
	Concurrency int `mapstructure:"concurrency"`

	// Timeout bounds the whole audit run.
	Timeout time.Duration `mapstructure:"timeout"`

	// Format selects report output: text or json.
	Format string `mapstructure:"format"`

	// IgnoreFindings forces a zero exit status even when the report has
	// mismatches.
	IgnoreFindings bool `mapstructure:"ignore-findings"`
}

// LoggerConfig holds logging output options.
type LoggerConfig struct {
	Level   string `mapstructure:"level"`
	Encoder string `mapstructure:"encoder"`
}

// JSONLogEncoder selects zap's JSON encoder.
const JSONLogEncoder = "json"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfig: BaseConfig{
			RPCURL:      "https://api.devnet.solana.com",
			Concurrency: 8,
			Timeout:     2 * time.Minute,
			Format:      TextFormat,
		},
		LOGGING: LoggerConfig{
			Level:   "info",
			Encoder: "console",
		},
	}
}

// Validate checks the parts of the config every run needs.
func (cfg *Config) Validate() error {
	if cfg.ProgramID.IsZero() {
		return fmt.Errorf("program-id is required")
	}
	if len(cfg.AllyMints) == 0 {
		return fmt.Errorf("at least one ally mint is required")
	}
	switch cfg.Format {
	case TextFormat, JSONFormat:
	default:
		return fmt.Errorf("unknown report format %q", cfg.Format)
	}
	return nil
}

// LoadConfig loads config file into the provided viper instance.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		fileLocation = defaultConfigFileName
	}

	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", fileLocation, err)
	}
	return nil
}
