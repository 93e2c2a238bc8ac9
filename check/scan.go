package check

import (
	"bufio"
	"io"
)

// entry is one logical line of input: a physical line plus any folded
// continuation lines that follow it.
type entry struct {
	data []byte
	line int // number of the first physical line, 1-based
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t'
}

// scanEntries reads r line by line and hands every non-empty logical line
// to emit. With fold set, a line starting with space or tab continues the
// previous one; the pieces are rejoined with CRLF so the entry carries
// well-formed folding whitespace even when the source uses bare LF line
// endings. Blank lines terminate the current entry. Trailing CR/LF are
// trimmed from every physical line.
func scanEntries(r io.Reader, fold bool, emit func(entry) error) error {
	br := bufio.NewReader(r)
	var cur entry
	flush := func() error {
		if len(cur.data) == 0 {
			return nil
		}
		e := cur
		cur = entry{}
		return emit(e)
	}
	line := 0
	for {
		l, err := br.ReadBytes('\n')
		if len(l) > 0 {
			line++
			l = trimEOL(l)
			switch {
			case len(l) == 0:
				if err := flush(); err != nil {
					return err
				}
			case fold && isWhitespace(l[0]) && len(cur.data) > 0:
				cur.data = append(cur.data, '\r', '\n')
				cur.data = append(cur.data, l...)
			default:
				if err := flush(); err != nil {
					return err
				}
				cur = entry{data: l, line: line}
			}
		}
		if err != nil {
			if err == io.EOF {
				return flush()
			}
			return err
		}
	}
}

func trimEOL(l []byte) []byte {
	if len(l) > 0 && l[len(l)-1] == '\n' {
		l = l[:len(l)-1]
	}
	if len(l) > 0 && l[len(l)-1] == '\r' {
		l = l[:len(l)-1]
	}
	return l
}
