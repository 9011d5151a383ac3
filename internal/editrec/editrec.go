// Package editrec defines the tagged edit-record model that every later
// stage of the pipeline (selector output, hunk assembly, rendering)
// consumes. It mirrors the three-case DiffResult used throughout
// original_source/src/hunked.rs: Added, Removed, and Common, each
// carrying the data plus both file-side indices once backfilled.
package editrec

// Kind identifies which of the three edit-record cases a Record holds.
type Kind int

const (
	Common Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Common:
		return "Common"
	case Added:
		return "Added"
	case Removed:
		return "Removed"
	default:
		return "Unknown"
	}
}

// Record is a single edit-record produced by the LCS differ and, by the
// time it reaches a renderer, backfilled with both file-side indices.
//
// For Added records OldIndex is absent until backfilled; for Removed
// records NewIndex is absent until backfilled. Common records always
// carry both indices from the moment the differ produces them.
type Record[T any] struct {
	Kind     Kind
	Data     T
	OldIndex int
	NewIndex int
	// hasOld/hasNew track whether the respective index has been set,
	// either by the differ directly (Common always; the record's own
	// side for Added/Removed) or by BackfillRecord.
	hasOld bool
	hasNew bool
}

// NewCommon builds a Common record; both indices are required.
func NewCommon[T any](data T, oldIndex, newIndex int) Record[T] {
	return Record[T]{Kind: Common, Data: data, OldIndex: oldIndex, NewIndex: newIndex, hasOld: true, hasNew: true}
}

// NewAdded builds an Added record. NewIndex must be supplied by the
// differ; OldIndex is backfilled later from the running offset.
func NewAdded[T any](data T, newIndex int) Record[T] {
	return Record[T]{Kind: Added, Data: data, NewIndex: newIndex, hasNew: true}
}

// NewRemoved builds a Removed record. OldIndex must be supplied by the
// differ; NewIndex is backfilled later from the running offset.
func NewRemoved[T any](data T, oldIndex int) Record[T] {
	return Record[T]{Kind: Removed, Data: data, OldIndex: oldIndex, hasOld: true}
}

// HasOldIndex reports whether OldIndex has been set (directly or via backfill).
func (r Record[T]) HasOldIndex() bool { return r.hasOld }

// HasNewIndex reports whether NewIndex has been set (directly or via backfill).
func (r Record[T]) HasNewIndex() bool { return r.hasNew }

// Offsets tracks the running (old, new) file-side cursor used to
// backfill the missing-side index on Added/Removed records, per
// spec.md §3 "File offsets": a zero-based count of records consumed
// that advance the respective side, updated once per record.
type Offsets struct {
	Old int
	New int
}

// BackfillRecord fills in the record's missing-side index using the
// offsets' current values, then advances the offsets for the sides this
// record's kind advances.
func BackfillRecord[T any](o *Offsets, r *Record[T]) {
	switch r.Kind {
	case Added:
		if !r.hasOld {
			r.OldIndex = o.Old
			r.hasOld = true
		}
		o.New++
	case Removed:
		if !r.hasNew {
			r.NewIndex = o.New
			r.hasNew = true
		}
		o.Old++
	case Common:
		o.Old++
		o.New++
	}
}
