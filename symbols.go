package serialport

import "fmt"

// Symbol pairs an enumerator with its canonical display string
type Symbol[T comparable] struct {
	Value T
	Name  string
}

// SymbolTable is a fixed, ordered, bidirectional mapping between the values
// of a closed enumeration and their display strings. Tables are immutable
// after construction and safe for concurrent use.
type SymbolTable[T comparable] struct {
	table   string
	values  []T
	names   []string
	byValue map[T]string
	byName  map[string]T
}

// NewSymbolTable builds a table from ordered symbols. It panics on a
// duplicate value or name, so tables should be built at package init.
func NewSymbolTable[T comparable](table string, symbols ...Symbol[T]) *SymbolTable[T] {
	t := &SymbolTable[T]{
		table:   table,
		values:  make([]T, 0, len(symbols)),
		names:   make([]string, 0, len(symbols)),
		byValue: make(map[T]string, len(symbols)),
		byName:  make(map[string]T, len(symbols)),
	}
	for _, s := range symbols {
		if _, dup := t.byValue[s.Value]; dup {
			panic(fmt.Sprintf("serialport: duplicate value %v in %s table", s.Value, table))
		}
		if _, dup := t.byName[s.Name]; dup {
			panic(fmt.Sprintf("serialport: duplicate name %q in %s table", s.Name, table))
		}
		t.values = append(t.values, s.Value)
		t.names = append(t.names, s.Name)
		t.byValue[s.Value] = s.Name
		t.byName[s.Name] = s.Value
	}
	return t
}

// Name returns the display string registered for v
func (t *SymbolTable[T]) Name(v T) (string, bool) {
	name, ok := t.byValue[v]
	return name, ok
}

// Parse looks up the value registered for s. Matching is exact and
// case-sensitive; a miss returns a *SymbolError.
func (t *SymbolTable[T]) Parse(s string) (T, error) {
	v, ok := t.byName[s]
	if !ok {
		var zero T
		return zero, &SymbolError{Table: t.table, Input: s}
	}
	return v, nil
}

// Contains reports whether v is part of the table
func (t *SymbolTable[T]) Contains(v T) bool {
	_, ok := t.byValue[v]
	return ok
}

// Names returns the display strings in table order
func (t *SymbolTable[T]) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Values returns the enumerators in table order
func (t *SymbolTable[T]) Values() []T {
	out := make([]T, len(t.values))
	copy(out, t.values)
	return out
}

func (t *SymbolTable[T]) Len() int {
	return len(t.values)
}

func (t *SymbolTable[T]) String() string {
	return t.table
}
