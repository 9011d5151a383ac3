// Package driver composes the selector, differ, hunk assembler, and
// renderer into the end-to-end comparison spec.md §6 describes: given
// two file paths and a configuration, it produces unified-diff output
// and an exit code.
//
// Grounded on original_source/src/main.rs's run-body (read both files,
// project every line, diff, feed the hunk machine, render, track
// exist_differences for the exit code) translated into the pipeline
// the rest of this repository's packages already expose.
package driver

import (
	"bytes"
	"io"
	"regexp"

	"subdiff/internal/config"
	"subdiff/internal/editrec"
	"subdiff/internal/fileio"
	"subdiff/internal/hunk"
	"subdiff/internal/lcs"
	"subdiff/internal/render"
	"subdiff/internal/selector"
)

// Options gathers everything one comparison needs.
type Options struct {
	OldPath, NewPath string
	Conf             config.Conf
	Regexes          []string
	Ignore           string
}

// Result reports the outcome of one comparison: whether any hunks were
// produced (exit code 1) and the bytes that would be written, so a
// caller can consult the cache before committing to writing output.
type Result struct {
	Differs bool
	Output  []byte
}

// Run executes one full comparison per spec.md §6/§8.
func Run(opts Options) (Result, error) {
	if err := opts.Conf.Validate(); err != nil {
		return Result{}, err
	}

	sel, err := selector.Compile(opts.Regexes)
	if err != nil {
		return Result{}, err
	}
	ignoreRE, err := selector.CompileIgnore(opts.Ignore)
	if err != nil {
		return Result{}, err
	}

	oldFile, err := fileio.Read(opts.OldPath)
	if err != nil {
		return Result{}, err
	}
	newFile, err := fileio.Read(opts.NewPath)
	if err != nil {
		return Result{}, err
	}

	oldKeys, oldProjected, err := projectAll(sel, ignoreRE, oldFile.Lines)
	if err != nil {
		return Result{}, err
	}
	newKeys, newProjected, err := projectAll(sel, ignoreRE, newFile.Lines)
	if err != nil {
		return Result{}, err
	}

	hunks := assembleHunks(opts.Conf.Context, oldKeys, newKeys)
	if len(hunks) == 0 {
		return Result{Differs: false}, nil
	}

	oldMeta := displayMeta(opts.Conf.DisplaySelected, oldFile, oldProjected)
	newMeta := displayMeta(opts.Conf.DisplaySelected, newFile, newProjected)

	var buf bytes.Buffer
	render.WriteFileHeader(&buf, opts.OldPath, opts.NewPath, oldFile.Mtime, newFile.Mtime)
	for _, h := range hunks {
		render.WriteHunk(&buf, h, oldMeta, newMeta, opts.Conf)
	}

	return Result{Differs: true, Output: buf.Bytes()}, nil
}

// WriteTo writes a Result's output, a no-op for a non-differing result.
func (r Result) WriteTo(w io.Writer) (int64, error) {
	if !r.Differs {
		return 0, nil
	}
	n, err := w.Write(r.Output)
	return int64(n), err
}

// ExitCode maps a Result to spec.md §6's exit-code table (errors are
// handled separately, by the caller inspecting Run's error return).
func (r Result) ExitCode() int {
	if r.Differs {
		return 1
	}
	return 0
}

func projectAll(sel selector.Selector, ignoreRE *regexp.Regexp, lines [][]byte) (keys []string, projected [][]byte, err error) {
	keys = make([]string, len(lines))
	projected = make([][]byte, len(lines))
	for i, line := range lines {
		p, err := selector.Project(sel, ignoreRE, line)
		if err != nil {
			return nil, nil, err
		}
		projected[i] = p
		keys[i] = string(p)
	}
	return keys, projected, nil
}

func assembleHunks(context int, oldKeys, newKeys []string) []hunk.Hunk[string] {
	var hunks []hunk.Hunk[string]
	m := hunk.New[string](context, func(h hunk.Hunk[string]) {
		hunks = append(hunks, h)
	})

	var off editrec.Offsets
	for _, r := range lcs.Diff(oldKeys, newKeys) {
		editrec.BackfillRecord(&off, &r)
		m.Feed(r)
	}
	m.Finish()
	return hunks
}

// displayMeta picks, per spec.md §9 Open Question 3, which byte
// vectors the renderer shows: the raw file lines by default, or the
// selector-projected ones under --display-selected. A line that no
// selector regex matched (or every line, with no selector configured)
// keeps its raw bytes as its projection, so the projected display's
// FinalHasNL is taken from its own last line.
func displayMeta(displaySelected bool, f *fileio.File, projected [][]byte) render.FileMeta {
	if !displaySelected {
		return render.FileMeta{
			Lines:      f.At,
			Count:      len(f.Lines),
			FinalHasNL: f.FinalHasNL,
		}
	}
	finalHasNL := len(projected) == 0 || bytes.HasSuffix(projected[len(projected)-1], []byte("\n"))
	return render.FileMeta{
		Lines: func(i int) []byte {
			if i < 0 || i >= len(projected) {
				return nil
			}
			return projected[i]
		},
		Count:      len(projected),
		FinalHasNL: finalHasNL,
	}
}
