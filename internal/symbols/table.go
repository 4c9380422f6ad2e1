package symbols

import (
	"fmt"

	"aetherscript/internal/types"
)

// Table is the symbol table described by §4.2: a stack of scopes, a global
// (module-level) scope reachable independent of nesting depth, a per-module
// import table, and a type-definition registry.
type Table struct {
	stack   []*Scope
	global  *Scope
	imports map[string]*Import // keyed by alias
	Defs    *types.Registry
}

// NewTable creates a Table with an open module scope and no imports.
func NewTable(defs *types.Registry) *Table {
	global := newScope(ScopeModule)
	return &Table{
		stack:   []*Scope{global},
		global:  global,
		imports: make(map[string]*Import),
		Defs:    defs,
	}
}

// EnterScope pushes a new scope frame of the given kind (§4.2).
func (t *Table) EnterScope(kind ScopeKind) {
	t.stack = append(t.stack, newScope(kind))
}

// ExitScope pops the innermost scope frame, reclaiming its symbols and
// implicitly releasing any outstanding borrows they held (§5 resource
// model: "nested scopes with guaranteed exit ... ensure symbols are
// reclaimed and borrows released even on error").
func (t *Table) ExitScope() {
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

func (t *Table) current() *Scope {
	return t.stack[len(t.stack)-1]
}

// AddSymbol adds sym to the innermost scope. Returns false if the name is
// already present in that exact scope (shadowing an outer scope's symbol
// of the same name is allowed; re-adding within the same scope is not,
// §4.2 "Duplicate-definition detection is scoped").
func (t *Table) AddSymbol(sym *Symbol) bool {
	scope := t.current()
	if _, exists := scope.symbols[sym.Name]; exists {
		return false
	}
	scope.symbols[sym.Name] = sym
	return true
}

// AddSymbolToGlobal adds sym directly to the module-level scope regardless
// of current nesting depth (used for pre-declared function signatures,
// §4.3 step 9).
func (t *Table) AddSymbolToGlobal(sym *Symbol) bool {
	if _, exists := t.global.symbols[sym.Name]; exists {
		return false
	}
	t.global.symbols[sym.Name] = sym
	return true
}

// LookupSymbol resolves name by walking the scope stack from innermost to
// the module scope, then the import table. A dotted name (`alias.name`)
// resolves the alias via the import table and looks up the short name
// within the imported module's exports (§4.2).
func (t *Table) LookupSymbol(name string) (*Symbol, bool) {
	if alias, short, ok := splitQualified(name); ok {
		imp, ok := t.imports[alias]
		if !ok {
			return nil, false
		}
		sym, ok := imp.Exports[short]
		return sym, ok
	}
	for i := len(t.stack) - 1; i >= 0; i-- {
		if sym, ok := t.stack[i].symbols[name]; ok {
			return sym, true
		}
	}
	for _, imp := range t.imports {
		if sym, ok := imp.Exports[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func splitQualified(name string) (alias, short string, ok bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:], true
		}
	}
	return "", "", false
}

// AddTypeDefinition registers def in the type-definition registry and adds
// a corresponding Type-kinded symbol so lookups by bare name succeed.
func (t *Table) AddTypeDefinition(def *types.TypeDefinition, typeID types.TypeID) bool {
	if !t.Defs.Add(def) {
		return false
	}
	return t.AddSymbol(&Symbol{Name: def.Name, Kind: KindType, Type: typeID})
}

// LookupTypeDefinition finds a registered definition by simple name.
func (t *Table) LookupTypeDefinition(name string) (*types.TypeDefinition, bool) {
	return t.Defs.Lookup(name)
}

// AddImport registers an imported module under alias (defaults to the
// module's own name when no `as` clause was present), with its exported
// symbol set (§4.3 step 3).
func (t *Table) AddImport(alias, module string, exports map[string]*Symbol) {
	t.imports[alias] = &Import{Alias: alias, Module: module, Exports: exports}
}

// MarkInitialized flips a previously-declared symbol's Initialized flag
// (§4.2 "mark_variable_initialized").
func (t *Table) MarkInitialized(name string) bool {
	sym, ok := t.LookupSymbol(name)
	if !ok {
		return false
	}
	sym.Initialized = true
	return true
}

// BorrowVariable registers a shared borrow of name (§4.2, §4.3.5). A symbol
// already BorrowedMut cannot receive another borrow of any kind.
func (t *Table) BorrowVariable(name string) error {
	sym, ok := t.LookupSymbol(name)
	if !ok {
		return fmt.Errorf("undefined symbol %q", name)
	}
	if sym.BorrowState == BorrowMut {
		return fmt.Errorf("%q is already borrowed mutably", name)
	}
	sym.BorrowState = BorrowShared
	sym.BorrowCount++
	return nil
}

// BorrowVariableMut registers a unique mutable borrow of name. A symbol
// already in any borrowed state (shared or mutable) rejects the request
// (§3 "BorrowedMut ... cannot become BorrowedMut" / §8 testable property).
func (t *Table) BorrowVariableMut(name string) error {
	sym, ok := t.LookupSymbol(name)
	if !ok {
		return fmt.Errorf("undefined symbol %q", name)
	}
	if sym.BorrowState != BorrowNone {
		return fmt.Errorf("%q is already borrowed", name)
	}
	sym.BorrowState = BorrowMut
	sym.BorrowCount = 1
	return nil
}

// ReleaseBorrow releases one outstanding borrow of name, emitted by the
// analyzer after a call that received the borrow as an argument finishes
// (§4.2, §4.3.5).
func (t *Table) ReleaseBorrow(name string) {
	sym, ok := t.LookupSymbol(name)
	if !ok {
		return
	}
	switch sym.BorrowState {
	case BorrowMut:
		sym.BorrowState = BorrowNone
		sym.BorrowCount = 0
	case BorrowShared:
		sym.BorrowCount--
		if sym.BorrowCount <= 0 {
			sym.BorrowState = BorrowNone
			sym.BorrowCount = 0
		}
	}
}
