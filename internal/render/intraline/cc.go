package intraline

import (
	"bytes"
	"fmt"

	"subdiff/internal/atom"
	"subdiff/internal/editrec"
)

// mergedClass folds the character class of every byte across a maximal
// run of non-Common records, in the order the records are stored (the
// nested lcs.Diff's order, which puts a run's removals before its
// additions; intra-line records do not pass through the hunk state
// machine). Grounded on wdiff.rs's
// intra_line_write_cc, which accumulates the same way over a single
// run; generalized here to run over one run at a time rather than an
// entire line, per spec.md §4.5's "for each change run".
func mergedClass[A atom.Atom](recs []editrec.Record[A]) atom.Class {
	var cls atom.Class
	have := false
	for _, r := range recs {
		for _, b := range r.Data.Bytes() {
			if !have {
				cls = atom.ClassOf(b)
				have = true
			} else {
				cls = atom.Merge(cls, b)
			}
		}
	}
	return cls
}

// changeRunEnd returns the end index of the maximal run of non-Common
// records starting at i.
func changeRunEnd[A atom.Atom](recs []editrec.Record[A], i int) int {
	j := i
	for j < len(recs) && recs[j].Kind != editrec.Common {
		j++
	}
	return j
}

// Wide writes recs per spec.md §4.5's Wide variant: common atoms
// verbatim, each maximal change run collapsed to `<class>{N}` when
// added and removed byte counts match, else `<class>{R,A}`.
func Wide[A atom.Atom](w *bytes.Buffer, recs []editrec.Record[A]) {
	i, n := 0, len(recs)
	for i < n {
		if recs[i].Kind == editrec.Common {
			w.Write(recs[i].Data.Bytes())
			i++
			continue
		}
		j := changeRunEnd(recs, i)
		added, removed := 0, 0
		for _, r := range recs[i:j] {
			if r.Kind == editrec.Added {
				added += r.Data.Len()
			} else {
				removed += r.Data.Len()
			}
		}
		w.WriteString(mergedClass(recs[i:j]).String())
		if added == removed {
			fmt.Fprintf(w, "{%d}", added)
		} else {
			fmt.Fprintf(w, "{%d,%d}", removed, added)
		}
		i = j
	}
}

// Narrow writes recs per spec.md §4.5's Narrow variant: a sliding
// buffer of not-yet-emitted common atoms is walked from the right at
// each change run, absorbing any atoms the run's merged class accepts
// so they vanish into the class summary rather than printing verbatim;
// the same absorption is then tried forward into the commons following
// the run. A class symbol is suppressed when it would otherwise repeat
// the immediately preceding one with nothing visible separating them
// (spec.md §4.5 step 4's "\w\w" avoidance) — which, since two distinct
// change runs are always separated by at least one Common record,
// happens exactly when every intervening common was absorbed away.
func Narrow[A atom.Atom](w *bytes.Buffer, recs []editrec.Record[A]) {
	i, n := 0, len(recs)
	var buffer []editrec.Record[A]
	havePrev := false
	var prevClass atom.Class

	flushBuffer := func() {
		for _, r := range buffer {
			w.Write(r.Data.Bytes())
		}
		buffer = nil
	}

	for i < n {
		if recs[i].Kind == editrec.Common {
			buffer = append(buffer, recs[i])
			i++
			continue
		}

		j := changeRunEnd(recs, i)
		cls := mergedClass(recs[i:j])

		absorbed := 0
		for absorbed < len(buffer) && atom.Accepts(cls, buffer[len(buffer)-1-absorbed].Data) {
			absorbed++
		}
		prefixLen := len(buffer) - absorbed
		for _, r := range buffer[:prefixLen] {
			w.Write(r.Data.Bytes())
		}

		if !(havePrev && prevClass == cls && prefixLen == 0) {
			w.WriteString(cls.String())
			w.WriteByte('+')
		}
		havePrev, prevClass = true, cls
		buffer = nil

		i = j
		for i < n && recs[i].Kind == editrec.Common && atom.Accepts(cls, recs[i].Data) {
			i++
		}
	}
	flushBuffer()
}
