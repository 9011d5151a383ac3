// Package intraline implements the two byte/word-level renderers of
// spec.md §4.4 and §4.5: given the edit sequence a nested LCS diff
// produced over one changed "common" line, they write the wdiff or
// character-class rendering of that line.
//
// Grounded on the teacher's internal/diff.DiffResult.Format, the only
// place in the corpus that serializes an edit sequence to a writer; the
// three-state marker and the class-merge/absorption algorithms
// themselves have no teacher analogue and are built from spec.md §4.4
// and §4.5 and original_source/src/wdiff.rs directly.
package intraline

import (
	"bytes"

	"subdiff/internal/atom"
	"subdiff/internal/editrec"
)

// Wdiff writes recs in the `{+added}`/`{-removed}` notation of
// spec.md §4.4: runs of additions wrapped in `{+…}`, removals in
// `{-…}`, common atoms written bare.
func Wdiff[A atom.Atom](w *bytes.Buffer, recs []editrec.Record[A]) {
	const (
		inCommon = iota
		inAdds
		inRemoves
	)
	state := inCommon

	closeBlock := func() {
		if state != inCommon {
			w.WriteByte('}')
			state = inCommon
		}
	}

	for _, r := range recs {
		switch r.Kind {
		case editrec.Common:
			closeBlock()
			w.Write(r.Data.Bytes())
		case editrec.Added:
			if state != inAdds {
				closeBlock()
				w.WriteString("{+")
				state = inAdds
			}
			w.Write(r.Data.Bytes())
		case editrec.Removed:
			if state != inRemoves {
				closeBlock()
				w.WriteString("{-")
				state = inRemoves
			}
			w.Write(r.Data.Bytes())
		}
	}
	closeBlock()
}
