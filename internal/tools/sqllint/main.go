// Command sqllint checks that every SQL constant starts with a unique
// "--sql <uuid>" audit marker.
//
//	go run ./internal/tools/sqllint ./internal/sqlinline
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	looksLikeSQL = regexp.MustCompile(`(?is)^\s*(--[^\n]*\n\s*)?(select|insert|update|delete|with)\s`)
	validMarker  = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

type violation struct {
	file    string
	name    string
	line    int
	message string
}

type linter struct {
	fset       *token.FileSet
	firstUse   map[string]string
	violations []violation
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"."}
	}
	violations, err := lint(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
		os.Exit(1)
	}
	for _, v := range violations {
		fmt.Fprintf(os.Stderr, "%s:%d: %s: %s\n", v.file, v.line, v.name, v.message)
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
}

// lint checks .go files under targets. Test files and directories whose
// names start with "." or "_" are ignored.
func lint(targets []string) ([]violation, error) {
	l := &linter{fset: token.NewFileSet(), firstUse: map[string]string{}}
	for _, target := range targets {
		err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			switch {
			case err != nil:
				return err
			case d.IsDir():
				if path != target && strings.ContainsAny(d.Name()[:1], "._") {
					return filepath.SkipDir
				}
				return nil
			case !strings.HasSuffix(path, ".go"), strings.HasSuffix(path, "_test.go"):
				return nil
			}
			return l.file(path)
		})
		if err != nil {
			return nil, err
		}
	}
	return l.violations, nil
}

func (l *linter) file(path string) error {
	f, err := parser.ParseFile(l.fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return err
	}
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || (gen.Tok != token.CONST && gen.Tok != token.VAR) {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, value := range vs.Values {
				if i < len(vs.Names) {
					l.check(path, vs.Names[i].Name, value)
				}
			}
		}
	}
	return nil
}

func (l *linter) check(path, name string, expr ast.Expr) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return
	}
	text, err := strconv.Unquote(lit.Value)
	if err != nil || !looksLikeSQL.MatchString(text) {
		return
	}
	line := l.fset.Position(lit.Pos()).Line
	marker, _, _ := strings.Cut(strings.TrimLeft(text, " \t\r\n"), "\n")
	marker = strings.TrimSpace(marker)

	switch prev, dup := l.firstUse[marker]; {
	case !validMarker.MatchString(marker):
		l.report(path, name, line, "missing or invalid --sql <uuid> marker")
	case dup:
		l.report(path, name, line, fmt.Sprintf("marker %q already used by %s", marker, prev))
	default:
		l.firstUse[marker] = name
	}
}

func (l *linter) report(path, name string, line int, msg string) {
	l.violations = append(l.violations, violation{file: path, name: name, line: line, message: msg})
}
