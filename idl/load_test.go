package idl_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/flashorca/vault-audit/idl"
)

const sampleDoc = `{
  "version": "0.1.0",
  "name": "sample",
  "accounts": [
    {
      "name": "Custody",
      "type": {
        "kind": "struct",
        "fields": [
          {"name": "owner", "type": "publicKey"},
          {"name": "tags", "type": {"array": ["u8", 4]}},
          {"name": "delegate", "type": {"option": "publicKey"}},
          {"name": "mode", "type": {"defined": "Mode"}}
        ]
      }
    }
  ],
  "types": [
    {
      "name": "Mode",
      "type": {"kind": "enum", "variants": [{"name": "Off"}, {"name": "On"}]}
    }
  ]
}`

func TestLoad(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "idl.json", []byte(sampleDoc), 0o644))

	doc, err := idl.Load(fs, "idl.json")
	require.NoError(t, err)
	require.Equal(t, "sample", doc.Name)

	schemas, err := idl.NewRegistry(doc).Records("Custody")
	require.NoError(t, err)
	// 32 + 4 + (1+32) + 1 payload bytes under the 8 byte header
	require.Equal(t, uint64(70), schemas["Custody"].DataSize)
	require.Equal(t, uint64(78), schemas["Custody"].TotalSize)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := idl.Load(afero.NewMemMapFs(), "nope.json")
	require.Error(t, err)
}

func TestDecode_RejectsMalformedDocuments(t *testing.T) {
	t.Parallel()
	table := []struct {
		name string
		data string
	}{
		{"not json", `{"name": `},
		{"missing name", `{"types": []}`},
		{"types not array", `{"name": "x", "types": {}}`},
		{"bad kind", `{"name": "x", "types": [{"name": "T", "type": {"kind": "union"}}]}`},
		{"field without type", `{"name": "x", "types": [{"name": "T", "type": {"kind": "struct", "fields": [{"name": "f"}]}}]}`},
	}
	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			_, err := idl.Decode([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestDecode_RejectsUnknownTypeReference(t *testing.T) {
	t.Parallel()
	_, err := idl.Decode([]byte(`{
	  "name": "x",
	  "types": [{"name": "T", "type": {"kind": "struct", "fields": [
	    {"name": "f", "type": {"vec": "u8"}}
	  ]}}]
	}`))
	require.ErrorIs(t, err, idl.ErrUnsupportedType)
}

func TestDefault(t *testing.T) {
	t.Parallel()
	doc, err := idl.Default()
	require.NoError(t, err)
	require.Equal(t, "reward_vault", doc.Name)
	require.NotEmpty(t, doc.Accounts)
	require.NotEmpty(t, doc.Types)
}
