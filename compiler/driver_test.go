package compiler

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriver_DefaultCOutput(t *testing.T) {
	testData := []struct {
		path     string
		expected string
	}{
		{path: "hello.0x", expected: "hello.c"},
		{path: "examples/hello.0x", expected: "hello.c"},
		{path: "/tmp/app.0x", expected: "app.c"},
		{path: "noext", expected: "noext.c"},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, DefaultCOutput(data.path), data.path)
	}
}

func TestDriver_ExecutableName(t *testing.T) {
	assert.Equal(t, "hello", ExecutableName("hello.c"))
	assert.Equal(t, "hello", ExecutableName("out/hello.c"))
}

func TestDriver_CCCommand(t *testing.T) {
	gcc := ccCommand("gcc", "hello", "hello.c")
	assert.Equal(t, []string{"gcc", "-o", "hello", "hello.c"}, gcc.Args)
	clang := ccCommand("clang", "hello", "hello.c")
	assert.Equal(t, []string{"clang", "-o", "hello", "hello.c"}, clang.Args)
	cl := ccCommand("cl", "hello", "hello.c")
	assert.Equal(t, []string{"cl", "/Fehello.exe", "hello.c"}, cl.Args)
}

func TestDriver_CandidateOrder(t *testing.T) {
	assert.Equal(t, []string{"gcc", "clang", "cl"}, ccCandidates)
}

func TestDriver_LoadProgram(t *testing.T) {
	dir, err := ioutil.TempDir("", "zerox")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "main.0x")
	assert.Nil(t, ioutil.WriteFile(path, []byte("print(1 + 1)"), 0644))

	program, source, err := LoadProgram(path)
	assert.Nil(t, err)
	assert.Equal(t, "print(1 + 1)", source)
	assert.Equal(t, 1, len(program.Statements))
}

func TestDriver_LoadProgramPrependsStdImports(t *testing.T) {
	dir, err := ioutil.TempDir("", "zerox")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	assert.Nil(t, os.MkdirAll(filepath.Join(dir, "src", "std"), 0755))
	std := "class Strings {\n  empty(): string { return \"\" }\n}\n"
	assert.Nil(t, ioutil.WriteFile(filepath.Join(dir, "src", "std", "strings.0x"), []byte(std), 0644))
	path := filepath.Join(dir, "main.0x")
	assert.Nil(t, ioutil.WriteFile(path, []byte("import strings\nprint(1)"), 0644))

	cwd, err := os.Getwd()
	assert.Nil(t, err)
	assert.Nil(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	program, _, err := LoadProgram(path)
	assert.Nil(t, err)
	// The std class is prepended ahead of the user statements.
	assert.Equal(t, 3, len(program.Statements))
	assert.Equal(t, ClassDeclarationTP, program.Statements[0].TP)
	assert.Equal(t, ImportStatementTP, program.Statements[1].TP)
}

func TestDriver_MissingImportFails(t *testing.T) {
	dir, err := ioutil.TempDir("", "zerox")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "main.0x")
	assert.Nil(t, ioutil.WriteFile(path, []byte("import nosuch\nprint(1)"), 0644))

	cwd, err := os.Getwd()
	assert.Nil(t, err)
	assert.Nil(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	_, _, err = LoadProgram(path)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "import nosuch")
}

func TestDriver_RunFileReportsTypeErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "zerox")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "dup.0x")
	assert.Nil(t, ioutil.WriteFile(path, []byte("class Foo {}\nclass Foo {}"), 0644))

	cwd, err := os.Getwd()
	assert.Nil(t, err)
	assert.Nil(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	err = RunFile(path)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "Duplicate class Foo")
}
