package selector

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subdiff/internal/subdifferr"
)

func TestNoneProjectsUnchanged(t *testing.T) {
	sel := None()
	line := []byte("hello world\n")
	got, err := sel.Project(line)
	require.NoError(t, err)
	assert.Equal(t, line, got)
}

func TestCompileRejectsNoCaptureGroups(t *testing.T) {
	_, err := Compile([]string{`^foo$`})
	require.Error(t, err)
	var serr *subdifferr.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, subdifferr.KindConfiguration, serr.Kind)
}

func TestCompileRejectsBadRegex(t *testing.T) {
	_, err := Compile([]string{`(unclosed`})
	require.Error(t, err)
}

func TestSingleSelectorProjectsCaptures(t *testing.T) {
	sel, err := Compile([]string{`^(\w+)\s+\w+\s+\w+$`})
	require.NoError(t, err)

	got, err := sel.Project([]byte("a b c\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a\n"), got)
}

func TestSingleSelectorNoMatchFallsBackToLine(t *testing.T) {
	sel, err := Compile([]string{`^(\d+)$`})
	require.NoError(t, err)

	line := []byte("not a number\n")
	got, err := sel.Project(line)
	require.NoError(t, err)
	assert.Equal(t, line, got)
}

func TestSelPartOfLineSkipsNestedCaptures(t *testing.T) {
	re := mustCompileOne(t, `^((a)(b))(c)$`)
	got, ok := selPartOfLine(re, []byte("abc\n"))
	require.True(t, ok)
	// Group 1 spans "ab"; groups 2,3 nest inside it and are skipped;
	// group 4 is "c" and is kept.
	assert.Equal(t, []byte("abc\n"), got)
}

func TestSelPartOfLineAppendsMissingNewline(t *testing.T) {
	re := mustCompileOne(t, `^(\w+)`)
	got, ok := selPartOfLine(re, []byte("abc def\n"))
	require.True(t, ok)
	assert.Equal(t, []byte("abc\n"), got)
}

func TestMultiSelectorPicksMatchingRE(t *testing.T) {
	sel, err := Compile([]string{`^A:(\w+)$`, `^B:(\w+)$`})
	require.NoError(t, err)

	got, err := sel.Project([]byte("B:value\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value\n"), got)
}

func TestMultiSelectorAmbiguityAborts(t *testing.T) {
	sel, err := Compile([]string{`^(\w)\w+$`, `^\w(\w+)$`})
	require.NoError(t, err)

	_, err = sel.Project([]byte("ab\n"))
	require.Error(t, err)
	var serr *subdifferr.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, subdifferr.KindAmbiguity, serr.Kind)
}

func TestMultiSelectorNoMatchFallsBackToLine(t *testing.T) {
	sel, err := Compile([]string{`^A:(\w+)$`, `^B:(\w+)$`})
	require.NoError(t, err)

	line := []byte("C:value\n")
	got, err := sel.Project(line)
	require.NoError(t, err)
	assert.Equal(t, line, got)
}

func TestOmitMatchingStripsIgnoreRE(t *testing.T) {
	ignore, err := CompileIgnore(`\d+`)
	require.NoError(t, err)

	got := OmitMatching([]byte("a1b2c3\n"), ignore)
	assert.Equal(t, []byte("abc\n"), got)
}

func TestOmitMatchingNilIsNoop(t *testing.T) {
	line := []byte("unchanged\n")
	assert.Equal(t, line, OmitMatching(line, nil))
}

func TestProjectComposesSelectorAndIgnore(t *testing.T) {
	sel, err := Compile([]string{`^(\w+)\s+\w+$`})
	require.NoError(t, err)
	ignore, err := CompileIgnore(`x`)
	require.NoError(t, err)

	got, err := Project(sel, ignore, []byte("axbxc def\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc\n"), got)
}

func mustCompileOne(t *testing.T, s string) *regexp.Regexp {
	t.Helper()
	re, err := compileOne(s)
	if err != nil {
		t.Fatal(err)
	}
	return re
}
