package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestColorWriterDisabledPassesBytesThrough(t *testing.T) {
	var buf bytes.Buffer
	cw := NewColorWriter(&buf, false)
	input := "@@ -1 +1 @@\n-old\n+new\n unchanged\n"
	n, err := cw.Write([]byte(input))
	assert.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Equal(t, input, buf.String())
}

func TestColorWriterEnabledColorizesByLinePrefix(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	cw := NewColorWriter(&buf, true)
	_, err := cw.Write([]byte("@@ -1 +1 @@\n-old\n+new\n unchanged\n"))
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.True(t, strings.Contains(out, "old"))
	assert.True(t, strings.Contains(out, "new"))
	assert.True(t, strings.Contains(out, "unchanged"))
}
