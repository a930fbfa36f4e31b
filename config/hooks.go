package config

import (
	"fmt"
	"reflect"

	"github.com/gagliardetto/solana-go"
	"github.com/mitchellh/mapstructure"
)

// PublicKeyDecodeFunc converts base58 strings into solana.PublicKey values
// during viper unmarshalling. Applied per element for slices as well.
func PublicKeyDecodeFunc() mapstructure.DecodeHookFuncType {
	return func(f, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(solana.PublicKey{}) {
			return data, nil
		}
		raw := data.(string)
		if raw == "" {
			return solana.PublicKey{}, nil
		}
		key, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return nil, fmt.Errorf("decode public key %q: %w", raw, err)
		}
		return key, nil
	}
}
