// Package fileio reads comparison inputs into the line-vector shape
// spec.md §6's "Consumed interfaces" describes: an ordered list of
// byte vectors, each including its trailing `\n` except possibly the
// last, plus an mtime accessor for the file banner.
//
// Grounded on original_source/src/main.rs's read_lines (a
// bufio.Reader equivalent reading up to and including each `\n`) and
// the teacher's internal/config.Load for the os.Open/defer Close
// shape; original_source has no Go analogue for buffered line
// splitting so this uses bufio.Reader.ReadBytes directly.
package fileio

import (
	"bufio"
	"io"
	"os"
	"time"

	"subdiff/internal/subdifferr"
)

// File holds one input's line vector plus the metadata the renderer
// and file banner need.
type File struct {
	Path       string
	Lines      [][]byte
	Mtime      time.Time
	FinalHasNL bool
}

// Read loads path into a File, splitting on `\n` and keeping each
// line's terminator attached, per spec.md §6.
func Read(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, subdifferr.IO("could not stat %s: %v", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, subdifferr.IO("could not open %s: %v", path, err)
	}
	defer f.Close()

	var lines [][]byte
	finalHasNL := true
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			lines = append(lines, line)
			finalHasNL = len(line) > 0 && line[len(line)-1] == '\n'
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, subdifferr.IO("could not read %s: %v", path, err)
		}
	}

	return &File{
		Path:       path,
		Lines:      lines,
		Mtime:      info.ModTime(),
		FinalHasNL: len(lines) == 0 || finalHasNL,
	}, nil
}

// At returns the line at index, or nil when index is out of range. The
// driver uses it as the renderer's line source when --display-selected
// is off.
func (f *File) At(index int) []byte {
	if index < 0 || index >= len(f.Lines) {
		return nil
	}
	return f.Lines[index]
}
