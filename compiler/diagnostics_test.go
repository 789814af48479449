package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileError_FormatWithLocation(t *testing.T) {
	source := "let x: int = 1\nlet y: = 2\n"
	err := makeCompileError(source, 2, 8, "expected variable type, but saw '='")
	expected := "error at line 2, column 8:\n" +
		"  2 | let y: = 2\n" +
		"    |        ^\n" +
		"  expected variable type, but saw '='"
	assert.Equal(t, expected, err.Format())
}

func TestCompileError_FormatWithHint(t *testing.T) {
	source := `let s: String = "hi`
	err := makeCompileError(source, 1, 17, "unterminated string literal").WithHint(`add a closing "`)
	expected := "error at line 1, column 17:\n" +
		"  1 | let s: String = \"hi\n" +
		"    | " + strings.Repeat(" ", 16) + "^\n" +
		"  unterminated string literal\n" +
		`  hint: add a closing "`
	assert.Equal(t, expected, err.Format())
}

func TestCompileError_FormatWithoutLocation(t *testing.T) {
	err := &CompileError{Message: "no C compiler found"}
	assert.Equal(t, "error:\n  no C compiler found", err.Format())
}

func TestCompileError_GutterWidth(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "x"
	}
	source := ""
	for _, line := range lines {
		source += line + "\n"
	}
	err := makeCompileError(source, 12, 1, "boom")
	expected := "error at line 12, column 1:\n" +
		"  12 | x\n" +
		"     | ^\n" +
		"  boom"
	assert.Equal(t, expected, err.Format())
}

func TestErrorList_Format(t *testing.T) {
	list := &ErrorList{}
	assert.False(t, list.HasErrors())
	list.Add(&CompileError{Message: "first"})
	list.Add(&CompileError{Message: "second"})
	assert.True(t, list.HasErrors())
	assert.Equal(t, "error:\n  first\n\nerror:\n  second", list.Format())
}

func TestCompileError_IsAnError(t *testing.T) {
	var err error = makeCompileError("x", 1, 1, "boom")
	assert.Equal(t, err.Error(), err.(*CompileError).Format())
}
