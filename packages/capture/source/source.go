// Package source recovers the verbatim text of call arguments from Go source
// files, so a call site reported by runtime.Caller can be turned back into the
// expressions that were written there.
package source

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"sync"

	"golang.org/x/tools/go/ast/inspector"
)

// ErrAmbiguous is returned when more than one call to the requested function
// is equally close to the line, since a line number cannot tell them apart.
var ErrAmbiguous = errors.New("ambiguous call site")

// Call is a call expression found in a source file.
type Call struct {
	// Args holds the source text of each argument, in order.
	Args []string
	// Spread is set when the last argument is expanded with "...".
	Spread bool
}

type parsedFile struct {
	fset    *token.FileSet
	src     []byte
	inspect *inspector.Inspector
	err     error
}

// Index caches parsed files. The zero value is not usable; use NewIndex.
type Index struct {
	mu    sync.Mutex
	files map[string]*parsedFile
}

func NewIndex() *Index {
	return &Index{files: make(map[string]*parsedFile)}
}

var defaultIndex = NewIndex()

// Lookup uses the package-level index.
func Lookup(file string, line int, funcName string) (*Call, error) {
	return defaultIndex.Lookup(file, line, funcName)
}

// Lookup finds the innermost call to funcName that spans line in file.
// funcName matches plain identifiers, selectors (pkg.Func) and explicit
// instantiations (Func[T]). When several calls qualify, the one with the
// smallest span wins; a tie at that span returns ErrAmbiguous.
func (ix *Index) Lookup(file string, line int, funcName string) (*Call, error) {
	pf := ix.load(file)
	if pf.err != nil {
		return nil, pf.err
	}

	var (
		best     *ast.CallExpr
		bestSpan int
		ties     int
	)
	pf.inspect.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if calleeName(call.Fun) != funcName {
			return
		}
		start := pf.fset.Position(call.Pos()).Line
		end := pf.fset.Position(call.End()).Line
		if line < start || line > end {
			return
		}
		span := end - start
		switch {
		case best == nil || span < bestSpan:
			best, bestSpan, ties = call, span, 1
		case span == bestSpan:
			ties++
		}
	})
	if best == nil {
		return nil, fmt.Errorf("no call to %s at %s:%d", funcName, file, line)
	}
	if ties > 1 {
		return nil, fmt.Errorf("%w: %d calls to %s at %s:%d", ErrAmbiguous, ties, funcName, file, line)
	}

	c := &Call{Spread: best.Ellipsis.IsValid()}
	for _, arg := range best.Args {
		c.Args = append(c.Args, pf.text(arg))
	}
	return c, nil
}

func (ix *Index) load(file string) *parsedFile {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if pf, ok := ix.files[file]; ok {
		return pf
	}

	pf := &parsedFile{fset: token.NewFileSet()}
	ix.files[file] = pf

	src, err := os.ReadFile(file)
	if err != nil {
		pf.err = fmt.Errorf("reading source: %w", err)
		return pf
	}
	f, err := parser.ParseFile(pf.fset, file, src, parser.SkipObjectResolution)
	if err != nil {
		pf.err = fmt.Errorf("parsing source: %w", err)
		return pf
	}
	pf.src = src
	pf.inspect = inspector.New([]*ast.File{f})
	return pf
}

func (pf *parsedFile) text(n ast.Node) string {
	start := pf.fset.Position(n.Pos()).Offset
	end := pf.fset.Position(n.End()).Offset
	return string(pf.src[start:end])
}

func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	case *ast.ParenExpr:
		return calleeName(f.X)
	}
	return ""
}
