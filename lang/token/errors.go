package token

import (
	"fmt"
	"sort"
	"strings"
)

// Error is one positional diagnostic, mirroring the shape of go/scanner's
// own Error: a source line and a message.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("[line %d] Error %s", e.Line, e.Msg) }

// ErrorList is a list of *Error, accumulated over a single scan/compile and
// sortable by source position, following go/scanner.ErrorList's shape
// (Add/Sort/Err/Error).
type ErrorList []*Error

// Add appends a diagnostic at line; msg is the already-assembled
// "at '<lex>': <message>" or "at end: <message>" clause.
func (p *ErrorList) Add(line int, msg string) {
	*p = append(*p, &Error{Line: line, Msg: msg})
}

// Reset empties the list so a single ErrorList can be reused across runs.
func (p *ErrorList) Reset() { *p = (*p)[:0] }

func (p ErrorList) Len() int           { return len(p) }
func (p ErrorList) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p ErrorList) Less(i, j int) bool { return p[i].Line < p[j].Line }

// Sort orders the list by source line, stably preserving report order
// within a line.
func (p ErrorList) Sort() { sort.Stable(p) }

// Err returns an error equivalent to p, or nil if p is empty.
func (p ErrorList) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// Error implements the error interface, printing one diagnostic per line.
func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var b strings.Builder
	for i, e := range p {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
