// Package config holds the comparison-wide options of spec.md §3
// "Configuration (enumerated options)", adapted from tig's
// internal/config.Config: the same JSON-file-plus-defaults loading
// shape, but the fields are the diff tool's own knobs rather than a
// server's host/port/environment.
package config

import (
	"encoding/json"
	"os"

	"subdiff/internal/subdifferr"
)

// ContextFormat selects how a changed-but-selector-equal common line is
// rendered, per spec.md §3 and §4.5/§4.4.
type ContextFormat string

const (
	FormatWdiff    ContextFormat = "wdiff"
	FormatCCNarrow ContextFormat = "cc-narrow"
	FormatCCWide   ContextFormat = "cc-wide"
	FormatOld      ContextFormat = "old"
	FormatNew      ContextFormat = "new"
)

// Tokenization selects the atomic unit intra-line diffing operates
// over, per spec.md §4.6.
type Tokenization string

const (
	TokenChar Tokenization = "char"
	TokenWord Tokenization = "word"
)

// Conf is the configuration every stage of the pipeline reads from.
// Field names mirror spec.md §3's enumerated options directly.
type Conf struct {
	Context             int           `json:"context"`
	ContextFormat       ContextFormat `json:"context_format"`
	ContextTokenization Tokenization  `json:"context_tokenization"`
	MarkChangedContext  bool          `json:"mark_changed_context"`
	DisplaySelected     bool          `json:"display_selected"`
	Debug               bool          `json:"debug"`
}

// Default returns the configuration spec.md §3 describes as the
// tool's defaults: context 3, wdiff rendering, char tokenization, no
// `!` marker, raw (not projected) lines displayed, no debug logging.
func Default() Conf {
	return Conf{
		Context:             3,
		ContextFormat:       FormatWdiff,
		ContextTokenization: TokenChar,
		MarkChangedContext:  false,
		DisplaySelected:     false,
		Debug:               false,
	}
}

// Load reads a JSON configuration file and merges it onto Default(): any
// field the file omits keeps its default value, since Conf's JSON tags
// decode onto an already-defaulted struct rather than a zero one.
func Load(path string) (Conf, error) {
	conf := Default()
	file, err := os.Open(path)
	if err != nil {
		return Conf{}, subdifferr.IO("could not open config file %s: %v", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&conf); err != nil {
		return Conf{}, subdifferr.Configurationf("could not parse config file %s: %v", path, err)
	}
	return conf, nil
}

// Validate checks invariants Load and flag-parsing can't enforce
// per-field: context must be non-negative and context_format must be
// one of the five recognized values.
func (c Conf) Validate() error {
	if c.Context < 0 {
		return subdifferr.Configurationf("context must be non-negative, got %d", c.Context)
	}
	switch c.ContextFormat {
	case FormatWdiff, FormatCCNarrow, FormatCCWide, FormatOld, FormatNew:
	default:
		return subdifferr.Configurationf("unrecognized context_format: %q", c.ContextFormat)
	}
	switch c.ContextTokenization {
	case TokenChar, TokenWord:
	default:
		return subdifferr.Configurationf("unrecognized context_tokenization: %q", c.ContextTokenization)
	}
	return nil
}
