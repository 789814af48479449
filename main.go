package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/xiaobogaga/zerox/compiler"
)

// The 0x toolchain. Interprets a .0x source file by default, or with
// -compile translates it to C and hands the result to the first available
// C compiler on PATH.

var (
	compileMode = flag.Bool("compile", false, "translate to C and build a native executable instead of interpreting")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: zerox [--compile] <source.0x> [<output.c>]")
		os.Exit(1)
	}
	var err error
	if *compileMode {
		outC := ""
		if len(args) > 1 {
			outC = args[1]
		}
		err = compiler.CompileFile(args[0], outC)
	} else {
		err = compiler.RunFile(args[0])
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	message := err.Error()
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		message = colorizeErrorHeads(message)
	}
	fmt.Fprintln(os.Stderr, message)
}

// colorizeErrorHeads wraps the "error" head of each diagnostic in red.
// Piped output stays byte identical to the plain template.
func colorizeErrorHeads(message string) string {
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "error") {
			lines[i] = "\x1b[31merror\x1b[0m" + line[len("error"):]
		}
	}
	return strings.Join(lines, "\n")
}
