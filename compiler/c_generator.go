package compiler

import (
	"bytes"
	"fmt"
	"strings"
)

// Lowers a type checked program to one self contained C translation unit.
// The translation is structural: operators, names and field access come
// through verbatim, methods land in the flat C namespace under the
// <Class>_<method> mangling.

// cRuntime is the embedded runtime every emitted unit starts with.
const cRuntime = `#include <stdio.h>
#include <stdlib.h>
#include <string.h>

int ox_abs(int x) { if (x < 0) { return -x; } return x; }
int ox_max(int a, int b) { if (a > b) { return a; } return b; }
int ox_min(int a, int b) { if (a < b) { return a; } return b; }

char* ox_concat(char* a, char* b) {
  char* out = malloc(strlen(a) + strlen(b) + 1);
  strcpy(out, a);
  strcat(out, b);
  return out;
}

char* ox_strlen_str(char* s) {
  char* out = malloc(32);
  sprintf(out, "%d", (int) strlen(s));
  return out;
}

int ox_sum(int* xs, int n) {
  int s = 0;
  int i;
  for (i = 0; i < n; i++) { s += xs[i]; }
  return s;
}

int ox_arr_max(int* xs, int n) {
  int m = xs[0];
  int i;
  for (i = 1; i < n; i++) { if (xs[i] > m) { m = xs[i]; } }
  return m;
}

int ox_arr_min(int* xs, int n) {
  int m = xs[0];
  int i;
  for (i = 1; i < n; i++) { if (xs[i] < m) { m = xs[i]; } }
  return m;
}
`

type CGenerator struct {
	buf    bytes.Buffer
	indent int
}

func NewCGenerator() *CGenerator {
	return &CGenerator{}
}

// Generate emits the whole translation unit: runtime preamble, struct
// forward declarations, struct definitions, method forward declarations,
// method definitions, constructor functions, then main built from the top
// level variable declarations and expression statements.
func (gen *CGenerator) Generate(program *Program) string {
	classes := collectClasses(program)

	gen.buf.WriteString(cRuntime)
	gen.line("")
	for _, class := range classes {
		gen.line("struct %s;", class.Name)
	}
	gen.line("")
	for _, class := range classes {
		gen.emitStructDefinition(class)
	}
	for _, class := range classes {
		gen.emitMethodForwardDecls(class)
	}
	gen.line("")
	for _, class := range classes {
		gen.emitMethodDefinitions(class)
	}
	for _, class := range classes {
		gen.emitConstructor(class)
	}
	gen.emitMain(program)
	return gen.buf.String()
}

func collectClasses(program *Program) []*ClassDeclarationAst {
	var classes []*ClassDeclarationAst
	for _, statement := range program.Statements {
		if statement.TP == ClassDeclarationTP {
			classes = append(classes, statement.Statement.(*ClassDeclarationAst))
		}
	}
	return classes
}

// cType maps a source type name to C, case insensitively for the builtins.
// Any other name is a pointer to the struct of that class.
func cType(typeName string) string {
	switch strings.ToLower(typeName) {
	case "int":
		return "int"
	case "bool":
		return "int"
	case "void":
		return "void"
	case "string":
		return "char*"
	}
	return "struct " + typeName + "*"
}

func (gen *CGenerator) emitStructDefinition(class *ClassDeclarationAst) {
	gen.line("struct %s {", class.Name)
	gen.indent++
	for _, member := range class.Members {
		if member.TP != FieldMemberTP {
			continue
		}
		field := member.Member.(*FieldDeclarationAst)
		gen.line("%s %s;", cType(field.TypeName), field.Name)
	}
	gen.indent--
	gen.line("};")
	gen.line("")
}

func (gen *CGenerator) emitMethodForwardDecls(class *ClassDeclarationAst) {
	for _, member := range class.Members {
		if member.TP != MethodMemberTP {
			continue
		}
		method := member.Member.(*MethodDeclarationAst)
		gen.line("%s %s_%s(%s);", cType(method.ReturnType), class.Name, method.Name, gen.paramList(method.Params))
	}
}

func (gen *CGenerator) emitMethodDefinitions(class *ClassDeclarationAst) {
	for _, member := range class.Members {
		if member.TP != MethodMemberTP {
			continue
		}
		method := member.Member.(*MethodDeclarationAst)
		gen.line("%s %s_%s(%s) {", cType(method.ReturnType), class.Name, method.Name, gen.paramList(method.Params))
		gen.indent++
		gen.emitStatements(method.Body)
		gen.indent--
		gen.line("}")
		gen.line("")
	}
}

// The constructor function allocates the object, runs the source
// constructor body when there is one and returns the allocation.
func (gen *CGenerator) emitConstructor(class *ClassDeclarationAst) {
	var constructor *ConstructorDeclarationAst
	for _, member := range class.Members {
		if member.TP == ConstructorMemberTP {
			constructor = member.Member.(*ConstructorDeclarationAst)
		}
	}
	params := ""
	if constructor != nil {
		params = gen.paramList(constructor.Params)
	}
	gen.line("struct %s* %s_new(%s) {", class.Name, class.Name, params)
	gen.indent++
	gen.line("struct %s* obj = malloc(sizeof(struct %s));", class.Name, class.Name)
	if constructor != nil {
		gen.emitStatements(constructor.Body)
	}
	gen.line("return obj;")
	gen.indent--
	gen.line("}")
	gen.line("")
}

func (gen *CGenerator) emitMain(program *Program) {
	gen.line("int main() {")
	gen.indent++
	for _, statement := range program.Statements {
		if statement.TP == VariableDeclarationTP || statement.TP == ExpressionStatementTP {
			gen.emitStatement(statement)
		}
	}
	gen.line("return 0;")
	gen.indent--
	gen.line("}")
}

func (gen *CGenerator) paramList(params []*ParamAst) string {
	parts := make([]string, 0, len(params))
	for _, param := range params {
		parts = append(parts, fmt.Sprintf("%s %s", cType(param.TypeName), param.Name))
	}
	return strings.Join(parts, ", ")
}

func (gen *CGenerator) emitStatements(statements []*StatementAst) {
	for _, statement := range statements {
		gen.emitStatement(statement)
	}
}

func (gen *CGenerator) emitStatement(statement *StatementAst) {
	switch statement.TP {
	case ImportStatementTP, ClassDeclarationTP, FunctionDeclarationTP:
		// No output.
	case VariableDeclarationTP:
		varAst := statement.Statement.(*VariableDeclarationAst)
		if varAst.Init != nil {
			gen.line("%s %s = %s;", cType(varAst.TypeName), varAst.Name, gen.emitExpression(varAst.Init))
		} else {
			gen.line("%s %s;", cType(varAst.TypeName), varAst.Name)
		}
	case ExpressionStatementTP:
		exprAst := statement.Statement.(*ExpressionStatementAst)
		gen.line("%s;", gen.emitExpression(exprAst.Expr))
	case ReturnStatementTP:
		returnAst := statement.Statement.(*ReturnStatementAst)
		if returnAst.Expr != nil {
			gen.line("return %s;", gen.emitExpression(returnAst.Expr))
		} else {
			gen.line("return;")
		}
	case IfStatementTP:
		ifAst := statement.Statement.(*IfStatementAst)
		gen.line("if (%s) {", gen.emitExpression(ifAst.Condition))
		gen.indent++
		gen.emitStatements(ifAst.Then)
		gen.indent--
		if len(ifAst.Else) > 0 {
			gen.line("} else {")
			gen.indent++
			gen.emitStatements(ifAst.Else)
			gen.indent--
		}
		gen.line("}")
	}
}

func (gen *CGenerator) emitExpression(expr *ExpressionAst) string {
	switch expr.TP {
	case IntegerLiteralExprTP:
		return fmt.Sprintf("%d", expr.Expr.(*IntegerLiteralAst).Value)
	case StringLiteralExprTP:
		return cStringLiteral(expr.Expr.(*StringLiteralAst).Value)
	case BooleanLiteralExprTP:
		if expr.Expr.(*BooleanLiteralAst).Value {
			return "1"
		}
		return "0"
	case IdentifierExprTP:
		return expr.Expr.(*IdentifierAst).Name
	case BinaryOpExprTP:
		binary := expr.Expr.(*BinaryOpAst)
		return fmt.Sprintf("(%s %s %s)", gen.emitExpression(binary.Left), binary.Op, gen.emitExpression(binary.Right))
	case UnaryOpExprTP:
		unary := expr.Expr.(*UnaryOpAst)
		return fmt.Sprintf("(%s%s)", unary.Op, gen.emitExpression(unary.Expr))
	case CallExprTP:
		return gen.emitCall(expr.Expr.(*CallExprAst))
	case NewExprTP:
		newExpr := expr.Expr.(*NewExprAst)
		return fmt.Sprintf("%s_new(%s)", newExpr.ClassName, gen.emitArgs(newExpr.Args))
	case FieldAccessExprTP:
		access := expr.Expr.(*FieldAccessAst)
		return fmt.Sprintf("%s.%s", gen.emitExpression(access.Object), access.FieldName)
	case ThisExprTP:
		return "this"
	case SuperExprTP:
		return "super"
	case AssignmentExprTP:
		assignment := expr.Expr.(*AssignmentAst)
		return fmt.Sprintf("(%s = %s)", gen.emitExpression(assignment.Target), gen.emitExpression(assignment.Value))
	}
	return ""
}

func (gen *CGenerator) emitCall(call *CallExprAst) string {
	if call.Callee.TP == IdentifierExprTP && call.Callee.Expr.(*IdentifierAst).Name == "print" {
		return gen.emitPrint(call.Args)
	}
	if call.Callee.TP == FieldAccessExprTP {
		access := call.Callee.Expr.(*FieldAccessAst)
		receiver := "obj"
		if access.Object.TP == IdentifierExprTP {
			receiver = access.Object.Expr.(*IdentifierAst).Name
		}
		return fmt.Sprintf("%s_%s(%s)", receiver, access.FieldName, gen.emitArgs(call.Args))
	}
	return fmt.Sprintf("%s(%s)", gen.emitExpression(call.Callee), gen.emitArgs(call.Args))
}

// emitPrint builds a printf whose format string is inferred per argument
// kind. Integer literals, binary and unary operations, calls and
// identifiers are assumed %d; string literals and everything else use %s.
func (gen *CGenerator) emitPrint(args []*ExpressionAst) string {
	if len(args) == 0 {
		return `printf("\n")`
	}
	specs := make([]string, 0, len(args))
	emitted := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg.TP {
		case IntegerLiteralExprTP, BinaryOpExprTP, UnaryOpExprTP, CallExprTP, IdentifierExprTP:
			specs = append(specs, "%d")
		default:
			specs = append(specs, "%s")
		}
		emitted = append(emitted, gen.emitExpression(arg))
	}
	return fmt.Sprintf(`printf("%s\n", %s)`, strings.Join(specs, " "), strings.Join(emitted, ", "))
}

func (gen *CGenerator) emitArgs(args []*ExpressionAst) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, gen.emitExpression(arg))
	}
	return strings.Join(parts, ", ")
}

func cStringLiteral(s string) string {
	return `"` + strings.Replace(s, `"`, `\"`, -1) + `"`
}

// line writes one line at the current depth, two spaces per level.
func (gen *CGenerator) line(format string, a ...interface{}) {
	for i := 0; i < gen.indent; i++ {
		gen.buf.WriteString("  ")
	}
	if len(a) == 0 {
		gen.buf.WriteString(format)
	} else {
		fmt.Fprintf(&gen.buf, format, a...)
	}
	gen.buf.WriteByte('\n')
}
