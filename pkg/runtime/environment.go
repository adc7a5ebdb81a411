package runtime

import (
	"fmt"
	"sort"
)

// Cell is a storage location with a declared width. Stores convert the
// incoming value to the declared width, so writing a 64-bit result into an
// int cell keeps only the low 32 bits while a long cell keeps the full
// magnitude.
type Cell struct {
	width Width
	value IntegerValue
}

// NewCell allocates a zeroed cell of the declared width.
func NewCell(width Width) *Cell {
	return &Cell{width: width, value: NewInteger(width, 0)}
}

// Width reports the cell's declared width.
func (c *Cell) Width() Width { return c.width }

// Load returns the stored value at the cell's declared width.
func (c *Cell) Load() IntegerValue { return c.value }

// Store converts v to the cell's declared width and keeps it, returning the
// stored (possibly truncated) value so assignment expressions can yield it.
func (c *Cell) Store(v IntegerValue) IntegerValue {
	c.value = Convert(v, c.width)
	return c.value
}

// Environment provides lexical scoping for one activation record. Each block
// gets a child environment; automatic cells vanish with their scope, static
// cells outlive it because the arena owns them and the environment merely
// holds a reference.
type Environment struct {
	cells  map[string]*Cell
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		cells:  make(map[string]*Cell),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil at function scope).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Declare binds a name to a cell in the current scope, shadowing any outer
// binding of the same identifier.
func (e *Environment) Declare(name string, cell *Cell) {
	e.cells[name] = cell
}

// Lookup resolves an identifier to the innermost visible cell.
func (e *Environment) Lookup(name string) (*Cell, error) {
	if cell, ok := e.cells[name]; ok {
		return cell, nil
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return nil, fmt.Errorf("undeclared identifier '%s'", name)
}

// HasInCurrentScope reports whether the name is bound in this scope alone.
func (e *Environment) HasInCurrentScope(name string) bool {
	_, ok := e.cells[name]
	return ok
}

// Extend opens a child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Keys returns the current scope's bindings in sorted order (useful for
// determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.cells))
	for k := range e.cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
