package idl

import (
	"crypto/sha256"
	"fmt"
)

// DiscriminatorLen is the fixed header prepended to every stored account:
// the first 8 bytes of sha256("account:<Name>"). An invariant of the
// storage format, not configurable.
const DiscriminatorLen = 8

// RecordSchema is an account kind annotated with its computed on-chain size.
type RecordSchema struct {
	Name string
	Type TypeSpec
	// DataSize is the serialized size of the account payload.
	DataSize uint64
	// TotalSize is DataSize plus the discriminator header. Stored accounts
	// must match it exactly.
	TotalSize uint64
}

// Discriminator returns the 8-byte header expected at the start of a stored
// record of this kind.
func (s RecordSchema) Discriminator() [DiscriminatorLen]byte {
	var disc [DiscriminatorLen]byte
	sum := sha256.Sum256([]byte("account:" + s.Name))
	copy(disc[:], sum[:DiscriminatorLen])
	return disc
}

// Records sizes the requested account kinds. Only the requested names are
// resolved; unrelated definitions in the document are never visited.
func (r *Registry) Records(names ...string) (map[string]RecordSchema, error) {
	out := make(map[string]RecordSchema, len(names))
	for _, name := range names {
		spec, ok := r.Lookup(name)
		if !ok || spec.Kind != KindStruct {
			return nil, fmt.Errorf("%w: %s", ErrMissingRecordDefinition, name)
		}
		size, err := r.sizeOfSpec(spec, map[string]struct{}{})
		if err != nil {
			return nil, fmt.Errorf("size account %q: %w", name, err)
		}
		out[name] = RecordSchema{
			Name:      name,
			Type:      spec,
			DataSize:  size,
			TotalSize: DiscriminatorLen + size,
		}
	}
	return out, nil
}
