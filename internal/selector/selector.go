// Package selector implements the projection layer of spec.md §4.1: it
// turns a raw line into the comparison key that actually participates in
// the diff, via user-supplied capturing regular expressions and an
// optional ignore regular expression.
//
// Grounded on original_source/src/main.rs's ReSelector trait family
// (NoneRe/SingleRe/MultiRe), sel_part_of_line, omit_matching, and
// assert_capturing — ported literally rather than "fixed", since
// spec.md states the selector's behavior only at the level these
// functions already capture precisely.
//
// No third-party regex library is wired here: none of the retrieved
// repositories import one for byte-oriented regular expressions (the
// one regex-adjacent transitive dependency in the corpus, regexp2, is
// an indirect dependency of a tokenizer the teacher never ends up
// using, not a direct import any example reaches for). The standard
// library's regexp package already exposes everything the original's
// regex::bytes crate used here: capture groups, (?m) multi-line mode,
// and the ability to report every match of a set of patterns.
package selector

import (
	"fmt"
	"regexp"

	"subdiff/internal/subdifferr"
)

// Selector exposes Project, the single operation the rest of the
// pipeline needs: turn a raw line (including its trailing newline, if
// any) into its comparison key.
type Selector interface {
	Project(line []byte) ([]byte, error)
}

// none is the default Selector: every line projects to itself.
type none struct{}

// None returns the no-op Selector.
func None() Selector { return none{} }

func (none) Project(line []byte) ([]byte, error) { return line, nil }

// Compile builds the Selector described by a set of capturing regular
// expression sources (possibly empty, meaning None) and handles the
// single-vs-multi distinction the same way build_re_selector does: with
// exactly one RE there is never any ambiguity to detect, so it is kept
// separate from the general multi-RE path which must scan every
// pattern on every line.
func Compile(reStrs []string) (Selector, error) {
	if len(reStrs) == 0 {
		return None(), nil
	}
	if len(reStrs) == 1 {
		return newSingle(reStrs[0])
	}
	return newMulti(reStrs)
}

// compileOne compiles a single capturing RE in multi-line mode (so `^`
// and `$` match at internal newlines — lines carry their own trailing
// `\n`, and the user may write patterns like `^foo$` expecting them to
// still work) and asserts it has at least one capture group.
func compileOne(s string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?m)` + s)
	if err != nil {
		return nil, subdifferr.Configurationf("could not compile regular expression `%s`: %v", s, err)
	}
	if err := assertCapturing(re, s); err != nil {
		return nil, err
	}
	return re, nil
}

// assertCapturing requires at least one capturing group: the whole
// match (group 0) doesn't count, since a selector with no captures
// would project every matching line to the empty string regardless of
// content.
func assertCapturing(re *regexp.Regexp, src string) error {
	if re.NumSubexp() < 1 {
		return subdifferr.Configurationf("regex does not have any capturing groups: %s", src)
	}
	return nil
}

// single wraps exactly one capturing RE.
type single struct {
	re *regexp.Regexp
}

func newSingle(s string) (Selector, error) {
	re, err := compileOne(s)
	if err != nil {
		return nil, err
	}
	return single{re: re}, nil
}

func (s single) Project(line []byte) ([]byte, error) {
	matched, ok := selPartOfLine(s.re, line)
	if !ok {
		return line, nil
	}
	return matched, nil
}

// multi wraps a set of capturing REs, each line required to match at
// most one of them. Unlike the original's RegexSet (which scans all
// patterns in a single pass), the standard library offers no
// equivalent primitive; this checks every pattern in declaration order
// and aborts as soon as a second one matches, which is observably the
// same result for the ambiguity diagnostic.
type multi struct {
	res  []*regexp.Regexp
	srcs []string
}

func newMulti(reStrs []string) (Selector, error) {
	res := make([]*regexp.Regexp, len(reStrs))
	for i, s := range reStrs {
		re, err := compileOne(s)
		if err != nil {
			return nil, err
		}
		res[i] = re
	}
	return multi{res: res, srcs: append([]string(nil), reStrs...)}, nil
}

func (m multi) Project(line []byte) ([]byte, error) {
	matchedIdx := -1
	for i, re := range m.res {
		if re.Match(line) {
			if matchedIdx != -1 {
				return nil, m.ambiguityError(line)
			}
			matchedIdx = i
		}
	}
	if matchedIdx == -1 {
		return line, nil
	}
	matched, ok := selPartOfLine(m.res[matchedIdx], line)
	if !ok {
		panic("selector: regex set reported a match but the regex disagrees")
	}
	return matched, nil
}

// ambiguityError reproduces MultiRe::sel's diagnostic: it lists every
// configured RE's source unconditionally, not just the ones that
// actually matched — mildly confusing, but that's what the original
// does, and spec.md leaves this diagnostic's exact shape unspecified.
func (m multi) ambiguityError(line []byte) error {
	msg := fmt.Sprintf("line is matched by more than one regular expression:\n`%s` is matched by:", line)
	for _, s := range m.srcs {
		msg += "\n" + s
	}
	return subdifferr.Ambiguity(msg)
}

// selPartOfLine implements sel_part_of_line: for the first match of re
// against line, walk its capture groups 1..N in declaration order,
// skipping any capture that starts before the end of the
// previously-kept one (it is nested inside it), concatenating the
// surviving captures' bytes, and ensuring the result ends in `\n`.
func selPartOfLine(re *regexp.Regexp, line []byte) ([]byte, bool) {
	locs := re.FindSubmatchIndex(line)
	if locs == nil {
		return nil, false
	}

	var ret []byte
	idx := 0
	// locs holds pairs [start,end) per group; group 0 is the whole
	// match and is skipped, matching the original's `1..caps.len()`.
	for i := 1; i*2+1 < len(locs); i++ {
		start, end := locs[i*2], locs[i*2+1]
		if start < 0 {
			// Group did not participate in this match.
			continue
		}
		if start < idx {
			continue
		}
		idx = end
		ret = append(ret, line[start:end]...)
	}

	if len(ret) == 0 || ret[len(ret)-1] != '\n' {
		ret = append(ret, '\n')
	}
	return ret, true
}

// CompileIgnore compiles the optional ignore regular expression, which
// unlike the selector REs carries no capture-group requirement: it is
// only ever used to strip matches, never to project them.
func CompileIgnore(s string) (*regexp.Regexp, error) {
	if s == "" {
		return nil, nil
	}
	re, err := regexp.Compile(`(?m)` + s)
	if err != nil {
		return nil, subdifferr.Configurationf("could not build regular expression set: %v", err)
	}
	return re, nil
}

// OmitMatching strips every match of ignoreRE from line. A nil ignoreRE
// leaves the line untouched.
func OmitMatching(line []byte, ignoreRE *regexp.Regexp) []byte {
	if ignoreRE == nil {
		return line
	}
	return ignoreRE.ReplaceAll(line, nil)
}

// Project runs the full pipeline step of spec.md §4.1 step 4: select,
// then strip ignored substrings from whatever the selection step
// produced (or from the original line, if nothing matched).
func Project(sel Selector, ignoreRE *regexp.Regexp, line []byte) ([]byte, error) {
	projected, err := sel.Project(line)
	if err != nil {
		return nil, err
	}
	return OmitMatching(projected, ignoreRE), nil
}
