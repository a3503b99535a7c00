// Package csvfile reads and writes the fixed-schema text files exchanged
// between the pipeline stages.
package csvfile

import (
	"bufio"
	"errors"
	"io"
)

// MaxLineBytes bounds the text kept for a single input line. Longer lines
// are consumed and reported through LineScanner.TooLong.
const MaxLineBytes = 1 << 20

// LineScanner splits its input on '\n' only. Unlike bufio.ScanLines it
// leaves a trailing '\r' in place, and a line that does not fit in the
// buffer is skipped over rather than ending the scan.
type LineScanner struct {
	r       *bufio.Reader
	line    []byte
	tooLong bool
	done    bool
	err     error
}

// NewLineScanner returns a LineScanner reading from r.
func NewLineScanner(r io.Reader) *LineScanner {
	return newLineScanner(r, MaxLineBytes)
}

func newLineScanner(r io.Reader, maxLine int) *LineScanner {
	return &LineScanner{r: bufio.NewReaderSize(r, maxLine)}
}

// Scan advances to the next line. It returns false at end of input or on
// a read error.
func (s *LineScanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}
	s.line, s.tooLong = nil, false

	line, err := s.r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		s.tooLong = true
		line = nil
		err = s.skipRest()
	}

	switch {
	case err == nil:
		if !s.tooLong {
			s.line = line[:len(line)-1]
		}
		return true
	case errors.Is(err, io.EOF):
		s.done = true
		if !s.tooLong && len(line) == 0 {
			return false
		}
		s.line = line
		return true
	default:
		s.err = err
		return false
	}
}

// skipRest consumes the remainder of an over-long line, newline included.
func (s *LineScanner) skipRest() error {
	for {
		_, err := s.r.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

// Text returns the current line without its '\n'. It is empty when
// TooLong reports true.
func (s *LineScanner) Text() string { return string(s.line) }

// TooLong reports whether the current line exceeded the buffer and was discarded.
func (s *LineScanner) TooLong() bool { return s.tooLong }

// Err returns the first non-EOF read error.
func (s *LineScanner) Err() error { return s.err }
