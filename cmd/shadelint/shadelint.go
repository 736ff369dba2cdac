// Command shadelint statically checks that every pointer-to-Traceable
// struct field of a type implementing shade.Traceable is visited
// somewhere in the body of that type's Trace method.
//
// This does not replace a careful reading of the actual Trace
// implementation; it only flags structurally obvious omissions (a
// field whose selector never appears anywhere in the method body). It
// is grounded on the teacher's cmd/iofn, which loads a package with
// golang.org/x/tools/go/packages and inspects its go/types information
// to find declarations assignable to a target type, and on the
// traversal style of the pointer analysis in the retrieved
// tmc-mirror-go.tools/pointer package, which walks go/types structures
// looking for a specific shape.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/types"
	"os"
	"sort"

	"golang.org/x/tools/go/packages"
)

func main() {
	var shadeImport string
	flag.StringVar(&shadeImport, "shade", "github.com/shade-gc/shade", "import path for package shade")
	flag.Parse()
	if flag.NArg() == 0 {
		fail("usage: shadelint [-shade path] <package>...")
	}

	cfg := &packages.Config{Mode: packages.NeedTypes | packages.NeedSyntax | packages.NeedImports | packages.NeedTypesInfo}
	pkgs, err := packages.Load(cfg, flag.Args()...)
	if err != nil {
		fail("error loading packages:", err)
	}

	traceable := lookupTraceable(shadeImport)
	problems := []string{}
	for _, pkg := range pkgs {
		problems = append(problems, checkPackage(pkg, traceable)...)
	}
	sort.Strings(problems)
	for _, p := range problems {
		fmt.Println(p)
	}
	if len(problems) > 0 {
		os.Exit(1)
	}
}

func fail(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

// lookupTraceable loads shadeImport on its own and returns the
// *types.Interface for shade.Traceable.
func lookupTraceable(shadeImport string) *types.Interface {
	cfg := &packages.Config{Mode: packages.NeedTypes}
	pkgs, err := packages.Load(cfg, shadeImport)
	if err != nil || len(pkgs) == 0 {
		fail("error loading", shadeImport, err)
	}
	obj := pkgs[0].Types.Scope().Lookup("Traceable")
	if obj == nil {
		fail(shadeImport, "has no Traceable interface")
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		fail(shadeImport, "Traceable is not an interface")
	}
	return iface
}

// checkPackage finds every named struct type in pkg implementing
// traceable and reports any Member/pointer-typed field whose name
// never appears in the AST of that type's Trace method.
func checkPackage(pkg *packages.Package, traceable *types.Interface) []string {
	var out []string
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		if !types.Implements(types.NewPointer(named), traceable) {
			continue
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}
		fields := traceableFieldNames(st)
		if len(fields) == 0 {
			continue
		}
		body := traceMethodBody(pkg, named)
		if body == nil {
			out = append(out, fmt.Sprintf("%s: %s has traceable fields but no Trace method body found", pkg.PkgPath, name))
			continue
		}
		visited := visitedSelectors(body)
		for _, f := range fields {
			if !visited[f] {
				out = append(out, fmt.Sprintf("%s: %s.Trace never visits field %s", pkg.PkgPath, name, f))
			}
		}
	}
	return out
}

func traceableFieldNames(st *types.Struct) []string {
	var names []string
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		switch f.Type().Underlying().(type) {
		case *types.Pointer:
			names = append(names, f.Name())
		case *types.Struct:
			if isMemberLike(f.Name()) {
				names = append(names, f.Name())
			}
		}
	}
	return names
}

// isMemberLike is a deliberately loose heuristic: shade.Member[T]
// fields are the common case this tool is meant to catch, and a
// struct-typed field is worth flagging whether or not it happens to be
// a Member, since the cost of a false positive here is a lint warning,
// not a build failure.
func isMemberLike(fieldName string) bool {
	return fieldName != "" && fieldName[0] >= 'A' && fieldName[0] <= 'Z'
}

func traceMethodBody(pkg *packages.Package, named *types.Named) *ast.BlockStmt {
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if m.Name() != "Trace" {
			continue
		}
		for _, f := range pkg.Syntax {
			var found *ast.BlockStmt
			ast.Inspect(f, func(n ast.Node) bool {
				decl, ok := n.(*ast.FuncDecl)
				if !ok || decl.Recv == nil || pkg.TypesInfo.Defs[decl.Name] != m {
					return true
				}
				found = decl.Body
				return false
			})
			if found != nil {
				return found
			}
		}
	}
	return nil
}

func visitedSelectors(body *ast.BlockStmt) map[string]bool {
	seen := map[string]bool{}
	ast.Inspect(body, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if ok {
			seen[sel.Sel.Name] = true
		}
		return true
	})
	return seen
}
