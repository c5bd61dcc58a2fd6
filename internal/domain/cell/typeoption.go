package cell

import "github.com/rpggio/tabula/internal/domain/field"

// TypeOption is the strategy bundle of one field type: decoding stored cells
// (including cells written under a different type), applying edit changesets,
// matching filter predicates, and ordering values.
type TypeOption interface {
	FieldType() field.FieldType

	// DecodeCell decodes a raw cell written under fromType into this type's
	// data. Decoding is total: foreign or corrupt payloads degrade to the
	// type's zero value, they never fail.
	DecodeCell(c Cell, fromType field.FieldType, f *field.Field) Data

	// ApplyChangeset parses a type-specific changeset payload and produces
	// the replacement cell plus its decoded value. The old cell is never
	// mutated. Malformed payloads return ErrInvalidData; rich text over
	// MaxTextLength returns ErrTextTooLong.
	ApplyChangeset(changeset string, old Cell, f *field.Field) (Cell, Data, error)

	// FilterMatch reports whether data passes the predicate. A predicate of
	// the wrong concrete type never hides a row.
	FilterMatch(flt field.CellFilter, data Data) bool

	// Compare orders two decoded values for sorting. Zero means a tie;
	// callers break ties with their own stable ordering.
	Compare(a, b Data) int
}

// Registry resolves the TypeOption strategy for each field type. The mapping
// is closed and built once.
type Registry struct {
	strategies map[field.FieldType]TypeOption
}

// NewRegistry builds a registry covering every supported field type.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[field.FieldType]TypeOption)}
	r.register(&textTypeOption{reg: r})
	r.register(&numberTypeOption{})
	r.register(&dateTypeOption{})
	r.register(&selectTypeOption{fieldType: field.SingleSelect})
	r.register(&selectTypeOption{fieldType: field.MultiSelect})
	r.register(&checkboxTypeOption{})
	r.register(&urlTypeOption{reg: r})
	r.register(&checklistTypeOption{})
	return r
}

func (r *Registry) register(t TypeOption) {
	r.strategies[t.FieldType()] = t
}

// Lookup returns the strategy for a field type, if one exists.
func (r *Registry) Lookup(t field.FieldType) (TypeOption, bool) {
	strat, ok := r.strategies[t]
	return strat, ok
}
