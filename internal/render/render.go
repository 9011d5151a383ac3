// Package render serializes assembled hunks to the unified-diff output
// format of spec.md §4.3 and §6, dispatching each changed-but-equal-key
// common line through the intra-line renderers of §4.4/§4.5.
//
// Grounded on the teacher's internal/diff.DiffResult.Format (a single
// pass over hunks writing to a *bytes.Buffer via fmt.Fprintf for the
// header and direct byte writes for line content); the header's A[,B]
// edge cases and the no-newline pre-scan have no teacher analogue and
// are built from spec.md §4.3 directly.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"time"

	"subdiff/internal/atom"
	"subdiff/internal/config"
	"subdiff/internal/editrec"
	"subdiff/internal/hunk"
	"subdiff/internal/lcs"
	"subdiff/internal/render/intraline"
)

// wordTokenRE splits a line into maximal word-character runs and
// individual non-word bytes, the word-boundary rule spec.md §4.6 asks
// for without naming a specific regex; the trailing newline is always
// peeled off and re-attached as its own token rather than matched here.
var wordTokenRE = regexp.MustCompile(`\w+|[^\w\n]`)

// TokenizeChar splits a line into one atom per byte.
func TokenizeChar(line []byte) []atom.Byte {
	out := make([]atom.Byte, len(line))
	for i, b := range line {
		out[i] = atom.Byte(b)
	}
	return out
}

// TokenizeWord splits a line into word atoms at regex word boundaries,
// per spec.md §4.6, keeping a trailing newline as its own final token.
func TokenizeWord(line []byte) []atom.Word {
	body := line
	hasNL := false
	if n := len(body); n > 0 && body[n-1] == '\n' {
		hasNL = true
		body = body[:n-1]
	}
	matches := wordTokenRE.FindAll(body, -1)
	out := make([]atom.Word, 0, len(matches)+1)
	for _, m := range matches {
		out = append(out, atom.Word(m))
	}
	if hasNL {
		out = append(out, atom.Word("\n"))
	}
	return out
}

// convertRecords remaps a record sequence's payload type, preserving
// kind and whichever side-index each constructor already sets — used
// to turn the string-keyed LCS result for Word tokenization back into
// atom.Word-payloaded records for rendering.
func convertRecords[A, B any](recs []editrec.Record[A], conv func(A) B) []editrec.Record[B] {
	out := make([]editrec.Record[B], len(recs))
	for i, r := range recs {
		switch r.Kind {
		case editrec.Common:
			out[i] = editrec.NewCommon(conv(r.Data), r.OldIndex, r.NewIndex)
		case editrec.Added:
			out[i] = editrec.NewAdded(conv(r.Data), r.NewIndex)
		case editrec.Removed:
			out[i] = editrec.NewRemoved(conv(r.Data), r.OldIndex)
		}
	}
	return out
}

func backfill[T any](recs []editrec.Record[T]) []editrec.Record[T] {
	var off editrec.Offsets
	for i := range recs {
		editrec.BackfillRecord(&off, &recs[i])
	}
	return recs
}

// IntraLine runs a nested diff between a changed common line's old and
// new byte content and writes the result through the configured
// intra-line renderer, per spec.md §9's "recursive renderer for
// changed commons": context is effectively unbounded here since the
// whole line is always shown.
func IntraLine(w *bytes.Buffer, old, new []byte, format config.ContextFormat, tok config.Tokenization) {
	switch format {
	case config.FormatOld:
		w.Write(old)
		return
	case config.FormatNew:
		w.Write(new)
		return
	}

	if tok == config.TokenWord {
		oldToks, newToks := TokenizeWord(old), TokenizeWord(new)
		oldKeys := make([]string, len(oldToks))
		for i, t := range oldToks {
			oldKeys[i] = string(t)
		}
		newKeys := make([]string, len(newToks))
		for i, t := range newToks {
			newKeys[i] = string(t)
		}
		recs := backfill(convertRecords(lcs.Diff(oldKeys, newKeys), func(s string) atom.Word { return atom.Word(s) }))
		writeIntraline(w, recs, format)
		return
	}

	recs := backfill(lcs.Diff(TokenizeChar(old), TokenizeChar(new)))
	writeIntraline(w, recs, format)
}

func writeIntraline[A atom.Atom](w *bytes.Buffer, recs []editrec.Record[A], format config.ContextFormat) {
	switch format {
	case config.FormatCCWide:
		intraline.Wide(w, recs)
	case config.FormatCCNarrow:
		intraline.Narrow(w, recs)
	default:
		intraline.Wdiff(w, recs)
	}
}

// LineSource returns the display bytes (including any trailing
// newline) for a given file-side index. The driver supplies either the
// raw file lines or the selector-projected lines depending on
// --display-selected, per spec.md §9 Open Question 3. The flag changes
// only what the renderer displays: the diff compares the projected
// lines either way.
type LineSource func(index int) []byte

// FileMeta carries what the renderer needs to know about one side of
// the comparison beyond individual line content: how many lines it
// has, and whether its last line ends in a newline (for the no-newline
// marker of spec.md §4.3).
type FileMeta struct {
	Lines      LineSource
	Count      int
	FinalHasNL bool
}

// writeOffLen writes one side of a hunk header per spec.md §4.3: the
// 1-based start (or the raw 0-based start when the side is empty),
// followed by ",length" unless length is exactly 1.
func writeOffLen(w *bytes.Buffer, start, length int) {
	a := start
	if length > 0 {
		a = start + 1
	}
	fmt.Fprintf(w, "%d", a)
	if length != 1 {
		fmt.Fprintf(w, ",%d", length)
	}
}

// WriteHeader writes one hunk's "@@ -A[,B] +C[,D] @@" line.
func WriteHeader[T any](w *bytes.Buffer, h hunk.Hunk[T]) {
	w.WriteString("@@ -")
	writeOffLen(w, h.OldStart, h.OldLen)
	w.WriteString(" +")
	writeOffLen(w, h.NewStart, h.NewLen)
	w.WriteString(" @@\n")
}

const noNewlineMarker = "\n\\ No newline at end of file\n"

// WriteHunk writes one complete hunk: its header, then each item
// formatted per spec.md §4.3, dispatching changed common lines to
// IntraLine and appending the no-newline marker when the hunk's last
// Removed and/or Added record is its file's terminal, newline-less
// line.
func WriteHunk(w *bytes.Buffer, h hunk.Hunk[string], old, new FileMeta, conf config.Conf) {
	WriteHeader(w, h)

	lastRemoved, lastAdded := -1, -1
	for i, it := range h.Items {
		switch it.Kind {
		case editrec.Removed:
			lastRemoved = i
		case editrec.Added:
			lastAdded = i
		}
	}

	for i, it := range h.Items {
		requireBackfilled(it)
		switch it.Kind {
		case editrec.Common:
			writeCommon(w, it, old, new, conf)
		case editrec.Removed:
			w.WriteByte('-')
			w.Write(old.Lines(it.OldIndex))
			if i == lastRemoved && it.OldIndex == old.Count-1 && !old.FinalHasNL {
				w.WriteString(noNewlineMarker)
			}
		case editrec.Added:
			w.WriteByte('+')
			w.Write(new.Lines(it.NewIndex))
			if i == lastAdded && it.NewIndex == new.Count-1 && !new.FinalHasNL {
				w.WriteString(noNewlineMarker)
			}
		}
	}
}

// requireBackfilled checks that a record carries the side index
// WriteHunk reads for its kind: a Common record needs both, Added needs
// NewIndex, Removed needs OldIndex. These are the indices the editrec
// constructors set, so a violation means the record was assembled
// without a constructor. The opposite-side index that
// editrec.BackfillRecord fills in (OldIndex on Added, NewIndex on
// Removed) is not checked, so a constructor-built record that skipped
// BackfillRecord passes. A violation is a programming bug, not a
// data-driven failure, so it panics rather than returning an error.
func requireBackfilled[T any](r editrec.Record[T]) {
	switch r.Kind {
	case editrec.Common:
		if !r.HasOldIndex() || !r.HasNewIndex() {
			panic("render: Common record reached WriteHunk without both indices backfilled")
		}
	case editrec.Added:
		if !r.HasNewIndex() {
			panic("render: Added record reached WriteHunk without NewIndex backfilled")
		}
	case editrec.Removed:
		if !r.HasOldIndex() {
			panic("render: Removed record reached WriteHunk without OldIndex backfilled")
		}
	}
}

func writeCommon(w *bytes.Buffer, it editrec.Record[string], old, new FileMeta, conf config.Conf) {
	oldLine := old.Lines(it.OldIndex)
	newLine := new.Lines(it.NewIndex)
	if bytes.Equal(oldLine, newLine) {
		w.WriteByte(' ')
		w.Write(oldLine)
		return
	}
	if conf.MarkChangedContext {
		w.WriteByte('!')
	} else {
		w.WriteByte(' ')
	}
	IntraLine(w, oldLine, newLine, conf.ContextFormat, conf.ContextTokenization)
}

// mtimeLayout renders spec.md §6's "YYYY-MM-DD HH:MM:SS.ffffff ±HHMM"
// file-banner timestamp format in local time.
const mtimeLayout = "2006-01-02 15:04:05.000000 -0700"

// WriteFileHeader writes the `--- path\tmtime` / `+++ path\tmtime`
// banner pair that precedes the first hunk, per spec.md §4 "File
// banners use a tab, not a space, before the mtime".
func WriteFileHeader(w *bytes.Buffer, oldPath, newPath string, oldMtime, newMtime time.Time) {
	fmt.Fprintf(w, "--- %s\t%s\n", oldPath, oldMtime.Local().Format(mtimeLayout))
	fmt.Fprintf(w, "+++ %s\t%s\n", newPath, newMtime.Local().Format(mtimeLayout))
}
