package compiler

import (
	"fmt"
	"strings"
)

// A CompileError carries the failing position inside the original source so
// the formatter can show the offending line with a caret under the column.
// Line and column are 1 based. Line == 0 means no position is known.
type CompileError struct {
	Message   string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	Source    string
	Hint      string
}

func makeCompileError(source string, line, column int, format string, a ...interface{}) *CompileError {
	return &CompileError{
		Message: fmt.Sprintf(format, a...),
		Line:    line,
		Column:  column,
		Source:  source,
	}
}

func (e *CompileError) WithHint(hint string) *CompileError {
	e.Hint = hint
	return e
}

func (e *CompileError) WithEnd(line, column int) *CompileError {
	e.EndLine, e.EndColumn = line, column
	return e
}

func (e *CompileError) Error() string {
	return e.Format()
}

// Format renders the diagnostic template:
//
//	error at line L, column C:
//	  L | <that source line>
//	    |     ^
//	  <message>
//	  hint: <hint>
//
// Without a position the first line is just "error:".
func (e *CompileError) Format() string {
	var sb strings.Builder
	if e.Line <= 0 {
		sb.WriteString("error:\n")
		sb.WriteString(fmt.Sprintf("  %s", e.Message))
		if e.Hint != "" {
			sb.WriteString(fmt.Sprintf("\n  hint: %s", e.Hint))
		}
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("error at line %d, column %d:\n", e.Line, e.Column))
	srcLine := sourceLineAt(e.Source, e.Line)
	gutter := fmt.Sprintf("%d", e.Line)
	sb.WriteString(fmt.Sprintf("  %s | %s\n", gutter, srcLine))
	pad := e.Column - 1
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(fmt.Sprintf("  %s | %s^\n", strings.Repeat(" ", len(gutter)), strings.Repeat(" ", pad)))
	sb.WriteString(fmt.Sprintf("  %s", e.Message))
	if e.Hint != "" {
		sb.WriteString(fmt.Sprintf("\n  hint: %s", e.Hint))
	}
	return sb.String()
}

func sourceLineAt(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// An ErrorList aggregates diagnostics so a pass can report every finding at
// once. The type checker is the only accumulating pass; the lexer, parser
// and interpreter stop at their first error.
type ErrorList struct {
	Errors []*CompileError
}

func (list *ErrorList) Add(err *CompileError) {
	list.Errors = append(list.Errors, err)
}

func (list *ErrorList) HasErrors() bool {
	return len(list.Errors) > 0
}

func (list *ErrorList) Error() string {
	return list.Format()
}

func (list *ErrorList) Format() string {
	formatted := make([]string, 0, len(list.Errors))
	for _, err := range list.Errors {
		formatted = append(formatted, err.Format())
	}
	return strings.Join(formatted, "\n\n")
}
