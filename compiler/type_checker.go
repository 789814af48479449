package compiler

import "strings"

// Declaration level checking only. The checker walks the program three
// times: collect class headers, populate members, then validate super
// references and top level variable types. It never recurses into method
// or constructor bodies. All findings are accumulated so one run reports
// every declaration error at once.

type MethodInfo struct {
	ParamTypes []string
	ReturnType string
}

type ConstructorInfo struct {
	ParamTypes []string
}

type ClassInfo struct {
	Name      string
	SuperName string
	// FieldNames keeps the declaration order, Fields maps name to type.
	FieldNames  []string
	Fields      map[string]string
	Methods     map[string]*MethodInfo
	Constructor *ConstructorInfo
	// Decl lets the evaluating passes reach member bodies by class name.
	Decl *ClassDeclarationAst
}

type ClassTable map[string]*ClassInfo

type TypeChecker struct {
	source string
	table  ClassTable
	errors *ErrorList
}

func NewTypeChecker(source string) *TypeChecker {
	return &TypeChecker{
		source: source,
		table:  ClassTable{},
		errors: &ErrorList{},
	}
}

// Check returns the populated class table together with every declaration
// error found. A program with an empty error list is considered well typed
// for the later passes.
func (checker *TypeChecker) Check(program *Program) (ClassTable, *ErrorList) {
	checker.collectHeaders(program)
	checker.populateMembers(program)
	checker.validate(program)
	return checker.table, checker.errors
}

func (checker *TypeChecker) collectHeaders(program *Program) {
	for _, statement := range program.Statements {
		if statement.TP != ClassDeclarationTP {
			continue
		}
		classAst := statement.Statement.(*ClassDeclarationAst)
		if _, ok := checker.table[classAst.Name]; ok {
			checker.errors.Add(makeCompileError(checker.source, statement.Line, statement.Column,
				"Duplicate class %s", classAst.Name))
			continue
		}
		checker.table[classAst.Name] = &ClassInfo{
			Name:      classAst.Name,
			SuperName: classAst.SuperName,
			Fields:    map[string]string{},
			Methods:   map[string]*MethodInfo{},
			Decl:      classAst,
		}
	}
}

func (checker *TypeChecker) populateMembers(program *Program) {
	for _, statement := range program.Statements {
		if statement.TP != ClassDeclarationTP {
			continue
		}
		classAst := statement.Statement.(*ClassDeclarationAst)
		info := checker.table[classAst.Name]
		if info == nil || info.Decl != classAst {
			// A duplicate declaration never populates the table.
			continue
		}
		for _, member := range classAst.Members {
			switch member.TP {
			case FieldMemberTP:
				field := member.Member.(*FieldDeclarationAst)
				if _, ok := info.Fields[field.Name]; !ok {
					info.FieldNames = append(info.FieldNames, field.Name)
				}
				info.Fields[field.Name] = field.TypeName
			case MethodMemberTP:
				method := member.Member.(*MethodDeclarationAst)
				info.Methods[method.Name] = &MethodInfo{
					ParamTypes: paramTypes(method.Params),
					ReturnType: method.ReturnType,
				}
			case ConstructorMemberTP:
				constructor := member.Member.(*ConstructorDeclarationAst)
				info.Constructor = &ConstructorInfo{ParamTypes: paramTypes(constructor.Params)}
			}
		}
	}
}

func (checker *TypeChecker) validate(program *Program) {
	for _, statement := range program.Statements {
		switch statement.TP {
		case ClassDeclarationTP:
			classAst := statement.Statement.(*ClassDeclarationAst)
			info := checker.table[classAst.Name]
			if info == nil || info.Decl != classAst {
				continue
			}
			if classAst.SuperName != "" {
				if _, ok := checker.table[classAst.SuperName]; !ok {
					checker.errors.Add(makeCompileError(checker.source, statement.Line, statement.Column,
						"Class %s extends unknown %s", classAst.Name, classAst.SuperName))
				} else if checker.onInheritanceCycle(classAst.Name) {
					checker.errors.Add(makeCompileError(checker.source, statement.Line, statement.Column,
						"Class %s inherits from itself", classAst.Name))
				}
			}
		case VariableDeclarationTP:
			varAst := statement.Statement.(*VariableDeclarationAst)
			if !checker.typeExists(varAst.TypeName) {
				checker.errors.Add(makeCompileError(checker.source, statement.Line, statement.Column,
					"Unknown type %s in var %s", varAst.TypeName, varAst.Name))
			}
		}
	}
}

// typeExists is true iff the name is one of the builtins, compared case
// insensitively, or names a declared class.
func (checker *TypeChecker) typeExists(name string) bool {
	if isBuiltinType(name) {
		return true
	}
	_, ok := checker.table[name]
	return ok
}

func isBuiltinType(name string) bool {
	switch strings.ToLower(name) {
	case "int", "string", "bool", "void":
		return true
	}
	return false
}

func (checker *TypeChecker) onInheritanceCycle(name string) bool {
	seen := map[string]bool{}
	for current := name; current != ""; {
		if seen[current] {
			return true
		}
		seen[current] = true
		info := checker.table[current]
		if info == nil {
			return false
		}
		current = info.SuperName
	}
	return false
}

// IsSubtype reports whether a is b or inherits from b. It is reflexive,
// false when either side is void, and otherwise follows superName links.
func (table ClassTable) IsSubtype(a, b string) bool {
	if strings.ToLower(a) == "void" || strings.ToLower(b) == "void" {
		return false
	}
	if a == b {
		return true
	}
	seen := map[string]bool{}
	for current := a; current != ""; {
		if seen[current] {
			return false
		}
		seen[current] = true
		info := table[current]
		if info == nil {
			return false
		}
		if info.SuperName == b {
			return true
		}
		current = info.SuperName
	}
	return false
}

func paramTypes(params []*ParamAst) []string {
	var types []string
	for _, param := range params {
		types = append(types, param.TypeName)
	}
	return types
}
