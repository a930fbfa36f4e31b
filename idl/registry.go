package idl

import (
	"fmt"
)

// Registry resolves named type definitions. It is built once per document
// load and never mutated afterwards, so it is safe for concurrent reads.
type Registry struct {
	defs map[string]TypeSpec
}

// NewRegistry indexes the document's type section. Account kinds declared
// with an inline body are indexed as well, so both IDL layouts resolve.
func NewRegistry(doc *Document) *Registry {
	defs := make(map[string]TypeSpec, len(doc.Types)+len(doc.Accounts))
	for _, td := range doc.Types {
		defs[td.Name] = td.Type
	}
	for _, td := range doc.Accounts {
		if td.Type.Kind != "" {
			defs[td.Name] = td.Type
		}
	}
	return &Registry{defs: defs}
}

// Lookup resolves a type name to its definition.
func (r *Registry) Lookup(name string) (TypeSpec, bool) {
	spec, ok := r.defs[name]
	return spec, ok
}

// SizeOf computes the serialized byte size of a type reference. Layout is
// static: an option always occupies one presence byte plus the inner size,
// populated or not, and an enum occupies exactly its one-byte discriminator.
func (r *Registry) SizeOf(ref TypeRef) (uint64, error) {
	return r.sizeOf(ref, map[string]struct{}{})
}

func (r *Registry) sizeOf(ref TypeRef, visiting map[string]struct{}) (uint64, error) {
	switch {
	case ref.Array != nil:
		elem, err := r.sizeOf(ref.Array.Elem, visiting)
		if err != nil {
			return 0, err
		}
		return ref.Array.Len * elem, nil
	case ref.Option != nil:
		inner, err := r.sizeOf(*ref.Option, visiting)
		if err != nil {
			return 0, err
		}
		return 1 + inner, nil
	case ref.Defined != "":
		if _, ok := visiting[ref.Defined]; ok {
			return 0, fmt.Errorf("%w: %s", ErrCyclicType, ref.Defined)
		}
		spec, ok := r.defs[ref.Defined]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingDefinition, ref.Defined)
		}
		visiting[ref.Defined] = struct{}{}
		defer delete(visiting, ref.Defined)
		return r.sizeOfSpec(spec, visiting)
	default:
		return ref.Primitive.Width()
	}
}

func (r *Registry) sizeOfSpec(spec TypeSpec, visiting map[string]struct{}) (uint64, error) {
	switch spec.Kind {
	case KindStruct:
		var total uint64
		for _, f := range spec.Fields {
			size, err := r.sizeOf(f.Type, visiting)
			if err != nil {
				return 0, fmt.Errorf("field %q: %w", f.Name, err)
			}
			total += size
		}
		return total, nil
	case KindEnum:
		// Discriminator only. The program defines no payload-carrying
		// variants; a payload variant would need 1 + max(payload sizes).
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: definition kind %q", ErrUnsupportedType, spec.Kind)
	}
}
