package compiler

import (
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// The driver ties the passes together: read source, resolve standard
// library imports, type check, then either interpret or emit C and hand
// the result to an external C compiler.

const SourceExtension = ".0x"

// ccCandidates are tried in order, the first one found on PATH wins.
var ccCandidates = []string{"gcc", "clang", "cl"}

// LoadProgram reads and parses a source file and prepends the standard
// library modules it imports. math is part of the prelude unconditionally
// when present on disk.
func LoadProgram(path string) (*Program, string, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading %s", path)
	}
	source := string(data)
	program, err := Parse(source)
	if err != nil {
		return nil, "", err
	}
	program, err = resolveImports(program)
	if err != nil {
		return nil, "", err
	}
	return program, source, nil
}

func resolveImports(program *Program) (*Program, error) {
	modules := []string{"math"}
	mathImported := false
	for _, statement := range program.Statements {
		if statement.TP != ImportStatementTP {
			continue
		}
		importAst := statement.Statement.(*ImportStatementAst)
		if importAst.Module == "math" {
			mathImported = true
			continue
		}
		modules = append(modules, importAst.Module)
	}
	var prelude []*StatementAst
	for i, module := range modules {
		loaded, found, err := loadStdModule(module)
		if err != nil {
			return nil, err
		}
		if !found {
			// The implicit math prelude is optional, named imports are not.
			if i == 0 && !mathImported {
				continue
			}
			return nil, errors.Errorf("import %s: no module %s under %s", module,
				module+SourceExtension, filepath.Join("src", "std"))
		}
		prelude = append(prelude, loaded.Statements...)
	}
	if len(prelude) == 0 {
		return program, nil
	}
	combined := &Program{Statements: append(prelude, program.Statements...)}
	return combined, nil
}

func loadStdModule(module string) (*Program, bool, error) {
	path := filepath.Join("src", "std", module+SourceExtension)
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", path)
	}
	program, err := Parse(string(data))
	if err != nil {
		return nil, false, err
	}
	return program, true, nil
}

// RunFile interprets a source file.
func RunFile(path string) error {
	program, source, err := LoadProgram(path)
	if err != nil {
		return err
	}
	classTable, checkErrors := NewTypeChecker(source).Check(program)
	if checkErrors.HasErrors() {
		return checkErrors
	}
	return NewInterpreter(classTable).Run(program)
}

// CompileFile translates a source file to C and builds it with the first
// available C compiler. An empty outC derives the C path from the source
// basename.
func CompileFile(path, outC string) error {
	program, source, err := LoadProgram(path)
	if err != nil {
		return err
	}
	_, checkErrors := NewTypeChecker(source).Check(program)
	if checkErrors.HasErrors() {
		return checkErrors
	}
	code := NewCGenerator().Generate(program)
	if outC == "" {
		outC = DefaultCOutput(path)
	}
	if err := ioutil.WriteFile(outC, []byte(code), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", outC)
	}
	cc, err := findCCompiler()
	if err != nil {
		return err
	}
	command := ccCommand(cc, ExecutableName(outC), outC)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	if err := command.Run(); err != nil {
		return errors.Wrapf(err, "running %s", cc)
	}
	return nil
}

// DefaultCOutput is the source basename with its extension replaced by .c.
func DefaultCOutput(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".c"
}

// ExecutableName is the C file basename without its extension.
func ExecutableName(cPath string) string {
	base := filepath.Base(cPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func findCCompiler() (string, error) {
	for _, candidate := range ccCandidates {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.Errorf("no C compiler found (tried %s)", strings.Join(ccCandidates, ", "))
}

func ccCommand(cc, exe, cFile string) *exec.Cmd {
	if cc == "cl" {
		return exec.Command(cc, "/Fe"+exe+".exe", cFile)
	}
	return exec.Command(cc, "-o", exe, cFile)
}
