package bz2xsi

import (
	"bufio"
	"fmt"
	"io"
)

// maxWord caps a single data word. Matches the limit used by the original
// game tooling; anything longer is a malformed file, not a real token.
const maxWord = 128

// scanner splits an XSI text stream into data words and block headers.
//
// XSI is word-oriented rather than token-oriented: values are delimited by
// whitespace, commas, and semicolons, while block structure is carried by
// "Name params {" headers and bare closing braces. Quoted strings may use
// single or double quotes and swallow embedded newlines.
type scanner struct {
	r    *bufio.Reader // Reader for the input
	name string        // Name used in error positions
	pos  position      // Position of the current character
	eof  bool          // End of file
}

// position represents a position in the input.
type position struct {
	line int // Line number
	col  int // Column number
}

// newScanner creates a new scanner for the XSI file.
func newScanner(r io.Reader, name string) *scanner {
	if name == "" {
		name = "XSI"
	}

	return &scanner{r: bufio.NewReader(r), name: name, pos: position{line: 1, col: 1}}
}

// read reads the next character, skipping carriage returns and keeping
// line/col current for error reporting.
func (s *scanner) read() (rune, bool) {
	for {
		ch, _, err := s.r.ReadRune()
		if err != nil {
			s.eof = true
			return 0, false
		}

		if ch == '\r' {
			continue
		}

		if ch == '\n' {
			s.pos.line++
			s.pos.col = 1
		} else {
			s.pos.col++
		}

		return ch, true
	}
}

// word reads the next data word. Braces are ordinary word characters here,
// so "{frm-name}" block references arrive as a single word. Returns io.EOF
// when the input is exhausted before a word starts.
func (s *scanner) word() (string, error) {
	var (
		buf     []rune
		inQuote rune
	)

	for {
		ch, ok := s.read()
		if !ok {
			if inQuote != 0 {
				return "", s.errorf("unterminated string")
			}
			if len(buf) > 0 {
				return string(buf), nil
			}
			return "", io.EOF
		}

		if inQuote != 0 {
			// Quoted strings ignore embedded newlines.
			if ch == '\n' {
				continue
			}
			if ch == inQuote {
				return string(buf), nil
			}

			buf = append(buf, ch)
			continue
		}

		if ch == '\'' || ch == '"' {
			inQuote = ch
			continue
		}

		// Delimiters finalize a word; leading delimiters are skipped.
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == ',' || ch == ';' {
			if len(buf) > 0 {
				return string(buf), nil
			}
			continue
		}

		buf = append(buf, ch)
		if len(buf) > maxWord {
			return "", s.errorf("single data word exceeded %d characters", maxWord)
		}
	}
}

// blockHeader reads the next "Name params {" block header.
//
// Returns ok=false without error when the enclosing block closes ('}') or
// the input ends, mirroring how readers treat both as end-of-block.
func (s *scanner) blockHeader() (name string, params []string, ok bool, err error) {
	var buf []rune

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if name == "" {
			name = string(buf)
		} else {
			params = append(params, string(buf))
		}
		buf = buf[:0]
	}

	for {
		ch, chOK := s.read()
		if !chOK {
			return "", nil, false, nil
		}

		switch ch {
		case ' ', '\t', '\n':
			flush()

		case '{':
			flush()
			return name, params, true, nil

		case '}':
			return "", nil, false, nil

		case ',', ';':
			// Stray value delimiters before a word starts are noise;
			// embedded ones belong to the word.
			if len(buf) > 0 {
				buf = append(buf, ch)
			}

		default:
			buf = append(buf, ch)
			if len(buf) > maxWord {
				return "", nil, false, s.errorf("single data word exceeded %d characters", maxWord)
			}
		}
	}
}

// errorf formats an error message with the current input position.
func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at %s:%d:%d: %s", ErrParse, s.name, s.pos.line, s.pos.col, fmt.Sprintf(format, args...))
}
