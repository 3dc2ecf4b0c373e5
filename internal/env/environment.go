// Package env implements lexical environments: nested scopes, `var`
// hoisting to the nearest function/global scope, and the temporal dead
// zone for `let`/`const` (spec 4.3, "Environments and hoisting").
package env

import "github.com/ssrlive/ecmacore/internal/value"

// Kind distinguishes the three declaration forms, which differ in
// hoisting target, mutability, and TDZ behavior.
type Kind int

const (
	// Var bindings hoist to the nearest function (or global) scope and
	// are initialized to `undefined` immediately, with no TDZ.
	Var Kind = iota
	// Let bindings are block-scoped and sit in the TDZ until their
	// declaration statement actually runs.
	Let
	// Const is like Let but rejects reassignment after initialization.
	Const
)

type binding struct {
	value       value.Value
	kind        Kind
	initialized bool
}

// Environment is one lexical scope: a function body, a block, a
// catch clause, or the global scope.
type Environment struct {
	store map[string]*binding
	outer *Environment

	// isVarScope marks function-body and global scopes, the targets
	// `var` declarations hoist to regardless of how many blocks they
	// were nested inside.
	isVarScope bool
}

// NewGlobal creates the outermost environment.
func NewGlobal() *Environment {
	return &Environment{store: make(map[string]*binding), isVarScope: true}
}

// NewFunctionScope creates a new function-body scope enclosed by outer.
func NewFunctionScope(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*binding), outer: outer, isVarScope: true}
}

// NewBlockScope creates a new block (if/for/while/try/bare-block) scope
// enclosed by outer. `var` declarations made inside still hoist past
// this scope to the nearest isVarScope ancestor.
func NewBlockScope(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*binding), outer: outer}
}

// VarScope walks outward to the nearest function/global scope, the
// hoisting target for `var` and function declarations (spec 4.3).
func (e *Environment) VarScope() *Environment {
	for cur := e; cur != nil; cur = cur.outer {
		if cur.isVarScope {
			return cur
		}
	}
	return e
}

// Outer returns the enclosing scope, or nil at the global scope.
func (e *Environment) Outer() *Environment { return e.outer }

// DeclareVar hoists a `var` binding into the nearest function scope,
// initialized to `undefined` if not already present. Redeclaring an
// existing `var` in the same scope is a no-op, matching `var`'s
// re-declaration tolerance.
func (e *Environment) DeclareVar(name string) {
	scope := e.VarScope()
	if _, ok := scope.store[name]; ok {
		return
	}
	scope.store[name] = &binding{value: value.Undefined, kind: Var, initialized: true}
}

// DeclareLexical introduces a `let`/`const` binding in this exact
// scope, initially uninitialized (in the TDZ) until InitializeLexical
// runs the declaration's initializer.
func (e *Environment) DeclareLexical(name string, kind Kind) {
	e.store[name] = &binding{kind: kind, initialized: false}
}

// InitializeLexical assigns the first value to a `let`/`const` binding
// declared in this scope, leaving the TDZ.
func (e *Environment) InitializeLexical(name string, v value.Value) {
	if b, ok := e.store[name]; ok {
		b.value = v
		b.initialized = true
		return
	}
	// Defensive fallback: treat as an implicit declare+init (should not
	// happen if DeclareLexical always precedes this call).
	e.store[name] = &binding{value: v, kind: Let, initialized: true}
}

// DefineParam binds a function parameter: always initialized, always
// mutable, scoped like `var` within this function scope.
func (e *Environment) DefineParam(name string, v value.Value) {
	e.store[name] = &binding{value: v, kind: Var, initialized: true}
}

// ErrKind reports why Get/Set failed, distinguishing an unresolved
// reference from a still-in-TDZ one and from a const violation so the
// evaluator can raise the right kind of runtime error (spec 4.4.7).
type ErrKind int

const (
	ErrNone ErrKind = iota
	ErrNotDefined
	ErrTDZ
	ErrConstAssign
)

// Get resolves name up the scope chain. errKind is ErrNotDefined if no
// binding exists anywhere, or ErrTDZ if it exists but is still
// uninitialized.
func (e *Environment) Get(name string) (v value.Value, errKind ErrKind) {
	for cur := e; cur != nil; cur = cur.outer {
		if b, ok := cur.store[name]; ok {
			if !b.initialized {
				return nil, ErrTDZ
			}
			return b.value, ErrNone
		}
	}
	return nil, ErrNotDefined
}

// Set assigns to an existing binding found anywhere up the scope
// chain. ErrConstAssign is returned for a `const` target.
func (e *Environment) Set(name string, v value.Value) ErrKind {
	for cur := e; cur != nil; cur = cur.outer {
		if b, ok := cur.store[name]; ok {
			if !b.initialized {
				return ErrTDZ
			}
			if b.kind == Const {
				return ErrConstAssign
			}
			b.value = v
			return ErrNone
		}
	}
	return ErrNotDefined
}

// HasOwn reports whether name is bound directly in this scope (not an
// ancestor), used to detect illegal re-declarations.
func (e *Environment) HasOwn(name string) bool {
	_, ok := e.store[name]
	return ok
}

// GetOwn reads a binding declared directly in this scope, without
// walking to outer scopes. Used to snapshot/restore per-iteration
// `let` bindings in C-style for-loops.
func (e *Environment) GetOwn(name string) (value.Value, bool) {
	b, ok := e.store[name]
	if !ok || !b.initialized {
		return nil, false
	}
	return b.value, true
}

// HasBinding reports whether name resolves anywhere in the chain.
func (e *Environment) HasBinding(name string) bool {
	for cur := e; cur != nil; cur = cur.outer {
		if _, ok := cur.store[name]; ok {
			return true
		}
	}
	return false
}
