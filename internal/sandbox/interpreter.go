package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// GoEntryFile is the file run by the Go templates.
const GoEntryFile = "/main.go"

// ConsoleImportPath is the import path of the injected console package.
const ConsoleImportPath = "playground/console"

// ErrForbiddenImport is returned when code imports a package outside the
// sandbox allowlist.
var ErrForbiddenImport = errors.New("sandbox: forbidden import")

// allowedPackages is the stdlib subset visible to playground code. Anything
// touching the filesystem, processes or the network is excluded.
var allowedPackages = []string{
	"bytes",
	"container/heap",
	"container/list",
	"context",
	"encoding/base64",
	"encoding/hex",
	"encoding/json",
	"errors",
	"fmt",
	"maps",
	"math",
	"math/bits",
	"math/rand",
	"regexp",
	"slices",
	"sort",
	"strconv",
	"strings",
	"sync",
	"time",
	"unicode",
	"unicode/utf8",
}

// sandboxSymbols is stdlib.Symbols filtered to allowedPackages.
var sandboxSymbols = sync.OnceValue(func() interp.Exports {
	exports := make(interp.Exports)
	for _, pkg := range allowedPackages {
		key := pkg + "/" + pkg[strings.LastIndex(pkg, "/")+1:]
		if syms, ok := stdlib.Symbols[key]; ok {
			exports[key] = syms
		}
	}
	return exports
})

// consoleExports builds the console package bound to one run.
func consoleExports(console func(ConsoleMessage)) interp.Exports {
	method := func(name string) reflect.Value {
		return reflect.ValueOf(func(args ...any) {
			console(ConsoleMessage{Method: name, Args: args})
		})
	}
	return interp.Exports{
		ConsoleImportPath + "/console": {
			"Log":   method("log"),
			"Info":  method("info"),
			"Warn":  method("warn"),
			"Error": method("error"),
			"Debug": method("debug"),
		},
	}
}

// runGo interprets the Go entry file.
//
// A file with a package clause runs as a program. Anything else runs as a
// snippet with every allowed package (and console) pre-imported.
func runGo(ctx context.Context, files map[string]string, console func(ConsoleMessage)) runResult {
	src := files[GoEntryFile]
	snippet := !hasPackageClause(src)

	if !snippet {
		if err := validateImports(src); err != nil {
			return runResult{err: err}
		}
	}

	var out lockedBuffer
	i := interp.New(interp.Options{Stdout: &out, Stderr: &out})
	if err := i.Use(sandboxSymbols()); err != nil {
		return runResult{err: fmt.Errorf("sandbox: load stdlib: %w", err)}
	}
	if err := i.Use(consoleExports(console)); err != nil {
		return runResult{err: fmt.Errorf("sandbox: load console: %w", err)}
	}
	if snippet {
		i.ImportUsed()
	}

	_, err := evalSafely(ctx, i, src)
	return runResult{output: out.String(), err: err}
}

// evalSafely evaluates src and converts interpreter panics into errors.
func evalSafely(ctx context.Context, i *interp.Interpreter, src string) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return i.EvalWithContext(ctx, src)
}

func hasPackageClause(src string) bool {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, GoEntryFile, src, parser.PackageClauseOnly)
	return err == nil && f.Name != nil
}

// validateImports rejects imports outside the allowlist.
func validateImports(src string) error {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, GoEntryFile, src, parser.ImportsOnly)
	if err != nil {
		// Let the interpreter report syntax errors with its own positions.
		return nil
	}

	var forbidden []string
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if path == ConsoleImportPath || slices.Contains(allowedPackages, path) {
			continue
		}
		forbidden = append(forbidden, path)
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("%w: %s", ErrForbiddenImport, strings.Join(forbidden, ", "))
	}
	return nil
}

// lockedBuffer is a bytes.Buffer safe for goroutines started by user code.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
