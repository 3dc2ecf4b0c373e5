// Package engine is the embeddable façade: it wires
// lexer→parser→interp→event loop and internal/builtins.Install behind
// a single Run call, the way a host embedding this interpreter (or
// cmd/ecmacore) is expected to use it.
package engine

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/builtins"
	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/parser"
	"github.com/ssrlive/ecmacore/internal/value"
)

// Options configures one Engine instance.
type Options struct {
	// Out receives console.log/info/debug output; defaults to
	// io.Discard if nil.
	Out io.Writer

	// Host backs the `std`/`os` import shim (spec 6.3). DefaultHostEnv
	// is used when nil.
	Host builtins.HostEnv

	// DumpAST, when set, receives the parsed program before evaluation
	// begins (cmd/ecmacore's --dump-ast).
	DumpAST func(*ast.Program)

	// Limits bounds loop iterations and floors timer delays; the zero
	// value is unbounded. Populated from cmd/ecmacore's --config file.
	Limits interp.Limits
}

// Engine owns one Interpreter instance and its installed built-ins.
type Engine struct {
	ip  *interp.Interpreter
	opt Options
}

// New builds an Engine over src (already-decoded UTF-8 JS source) from
// the named file, installing the full built-in surface.
func New(file, src string, opt Options) *Engine {
	out := opt.Out
	if out == nil {
		out = io.Discard
	}
	ip := interp.New(out, file, src)
	ip.Limits = opt.Limits
	if opt.Limits.MinTimerResolutionMS > 0 {
		ip.Timers.SetMinResolution(time.Duration(opt.Limits.MinTimerResolutionMS) * time.Millisecond)
	}
	builtins.Install(ip, opt.Host)
	return &Engine{ip: ip, opt: opt}
}

// Close releases the Engine's background timer goroutine. Call this
// when the Engine is no longer needed.
func (e *Engine) Close() { e.ip.Close() }

// Run parses and executes src to completion, including draining the
// microtask queue and timer wheel (spec 5, "program lifetime").
// Returns the first uncaught exception or parse/tokenize error.
func (e *Engine) Run(file, src string) error {
	src, bindings := stripImportShim(src)
	for _, b := range bindings {
		ns := e.namespaceFor(b.module)
		if ns == nil {
			continue
		}
		e.bindGlobal(b.name, ns)
	}
	p := parser.New(src, file)
	prog, err := p.ParseProgram()
	if err != nil {
		return err
	}
	if e.opt.DumpAST != nil {
		e.opt.DumpAST(prog)
	}
	return e.ip.RunProgram(prog)
}

// Eval runs a one-off expression/program string (cmd/ecmacore's
// --eval), sharing the same global scope an already-run Run call left
// behind.
func (e *Engine) Eval(src string) (value.Value, error) {
	v, sig, err := e.ip.EvalSource(src)
	if err != nil {
		return nil, err
	}
	if sig.IsAbrupt() {
		return nil, fmt.Errorf("uncaught exception: %s", value.Inspect(sig.Value))
	}
	return v, nil
}

func (e *Engine) bindGlobal(name string, v value.Value) {
	if !e.ip.Global.HasBinding(name) {
		e.ip.Global.DeclareVar(name)
	}
	e.ip.Global.InitializeLexical(name, v)
	e.ip.GlobalObj.DefineData(value.StringKey(name), v)
}

func (e *Engine) namespaceFor(module string) value.Value {
	v, _, _ := e.ip.GetProperty(e.ip.GlobalObj, value.StringKey(module))
	if value.IsNullish(v) {
		return nil
	}
	return v
}

type importBinding struct {
	name   string
	module string
}

var importShimRe = regexp.MustCompile(`^\s*import\s*\*\s*as\s+([A-Za-z_$][A-Za-z0-9_$]*)\s+from\s+["'](std|os)["']\s*;?\s*$`)

// stripImportShim implements spec.md 6.3's minimal import shim: lines
// of the exact form `import * as NAME from "std";` (or "os") are
// recognized, removed from the source (so the parser — which doesn't
// know ES module syntax — never sees them), and recorded so Run can
// pre-bind NAME to the corresponding host namespace before execution.
func stripImportShim(src string) (string, []importBinding) {
	lines := strings.Split(src, "\n")
	var bindings []importBinding
	for i, line := range lines {
		if m := importShimRe.FindStringSubmatch(line); m != nil {
			bindings = append(bindings, importBinding{name: m[1], module: m[2]})
			lines[i] = ""
		}
	}
	if len(bindings) == 0 {
		return src, nil
	}
	return strings.Join(lines, "\n"), bindings
}
