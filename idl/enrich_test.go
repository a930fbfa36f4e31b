package idl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashorca/vault-audit/idl"
)

func TestRecords_TotalSize(t *testing.T) {
	t.Parallel()
	doc := &idl.Document{
		Name: "test",
		Accounts: []idl.TypeDef{
			{Name: "Custody", Type: structOf(
				idl.Field{Name: "recorded", Type: idl.TypeRef{Primitive: idl.U64}},
				idl.Field{Name: "reserved", Type: idl.TypeRef{Primitive: idl.U64}},
				idl.Field{Name: "owner", Type: idl.TypeRef{Primitive: idl.PublicKey}},
			)},
		},
	}
	schemas, err := idl.NewRegistry(doc).Records("Custody")
	require.NoError(t, err)
	schema := schemas["Custody"]
	require.Equal(t, uint64(48), schema.DataSize)
	require.Equal(t, uint64(56), schema.TotalSize)
	require.Equal(t, uint64(idl.DiscriminatorLen)+schema.DataSize, schema.TotalSize)
}

func TestRecords_OnlyRequestedAreResolved(t *testing.T) {
	t.Parallel()
	// the broken account kind must not poison a request for the good one
	doc := &idl.Document{
		Name: "test",
		Accounts: []idl.TypeDef{
			{Name: "Good", Type: structOf(
				idl.Field{Name: "amount", Type: idl.TypeRef{Primitive: idl.U64}},
			)},
			{Name: "Broken", Type: structOf(
				idl.Field{Name: "ref", Type: idl.TypeRef{Defined: "Ghost"}},
			)},
		},
	}
	reg := idl.NewRegistry(doc)

	schemas, err := reg.Records("Good")
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	_, err = reg.Records("Good", "Broken")
	require.ErrorIs(t, err, idl.ErrMissingDefinition)
}

func TestRecords_MissingRecordDefinition(t *testing.T) {
	t.Parallel()
	doc := &idl.Document{
		Name: "test",
		Types: []idl.TypeDef{
			{Name: "Mode", Type: idl.TypeSpec{Kind: idl.KindEnum, Variants: []idl.Variant{{Name: "On"}}}},
		},
	}
	reg := idl.NewRegistry(doc)

	_, err := reg.Records("Ghost")
	require.ErrorIs(t, err, idl.ErrMissingRecordDefinition)

	// an enum is not a record kind
	_, err = reg.Records("Mode")
	require.ErrorIs(t, err, idl.ErrMissingRecordDefinition)
}

func TestRecords_BundledDocumentSizes(t *testing.T) {
	t.Parallel()
	doc, err := idl.Default()
	require.NoError(t, err)
	schemas, err := idl.NewRegistry(doc).Records(
		idl.VaultStateAccount, idl.AllyAccount, idl.UserLedgerAccount,
	)
	require.NoError(t, err)

	require.Equal(t, uint64(279), schemas[idl.VaultStateAccount].TotalSize)
	require.Equal(t, uint64(215), schemas[idl.AllyAccount].TotalSize)
	require.Equal(t, uint64(129), schemas[idl.UserLedgerAccount].TotalSize)
}

func TestDiscriminator(t *testing.T) {
	t.Parallel()
	ally := idl.RecordSchema{Name: idl.AllyAccount}
	vault := idl.RecordSchema{Name: idl.VaultStateAccount}

	require.Equal(t, ally.Discriminator(), ally.Discriminator())
	require.NotEqual(t, ally.Discriminator(), vault.Discriminator())
	require.NotEqual(t, [idl.DiscriminatorLen]byte{}, ally.Discriminator())
}
