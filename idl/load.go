package idl

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"
)

// Account kinds stored by the reward vault program, as named in its IDL.
const (
	VaultStateAccount = "VaultState"
	AllyAccount       = "AllyAccount"
	UserLedgerAccount = "UserLedger"
)

//go:embed schema.json
var schemaJSON string

//go:embed reward_vault.json
var rewardVaultJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func validateDocument(data []byte) error {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("idl.schema.json", schemaJSON)
	})
	if schemaErr != nil {
		return fmt.Errorf("compile idl json schema: %w", schemaErr)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal idl document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("validate idl document: %w", err)
	}
	return nil
}

// Decode validates and parses an IDL document.
func Decode(data []byte) (*Document, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode idl document: %w", err)
	}
	return doc, nil
}

// Load reads an IDL document from the filesystem.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read idl file %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load idl file %s: %w", path, err)
	}
	return doc, nil
}

// Default returns the reward vault IDL bundled with the binary.
func Default() (*Document, error) {
	return Decode(rewardVaultJSON)
}
