// Package symtab provides the bidirectional symbol table ("presentation
// layer") that maps integer codes to human-readable names for the three
// disjoint alphabets of an FSM: inputs, outputs and states.
package symtab

import "fmt"

// Table is a bidirectional mapping between integer codes and names for
// inputs, outputs and states. It is immutable after construction except
// for appending/removing state names, which happens while an FSM is built
// or while unreachable states are stripped out.
type Table struct {
	in2s  []string
	out2s []string
	st2s  []string

	in2n  map[string]int
	out2n map[string]int
	st2n  map[string]int
}

// New builds a symbol table from the three name vectors. Indices into each
// slice become the corresponding alphabet's integer codes.
func New(inputs, outputs, states []string) *Table {
	t := &Table{
		in2s:  append([]string(nil), inputs...),
		out2s: append([]string(nil), outputs...),
		st2s:  append([]string(nil), states...),
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.in2n = make(map[string]int, len(t.in2s))
	for i, s := range t.in2s {
		t.in2n[s] = i
	}
	t.out2n = make(map[string]int, len(t.out2s))
	for i, s := range t.out2s {
		t.out2n[s] = i
	}
	t.st2n = make(map[string]int, len(t.st2s))
	for i, s := range t.st2s {
		t.st2n[s] = i
	}
}

// In2Num returns the input code for name, and whether it was found.
func (t *Table) In2Num(name string) (int, bool) {
	n, ok := t.in2n[name]
	return n, ok
}

// Out2Num returns the output code for name, and whether it was found.
func (t *Table) Out2Num(name string) (int, bool) {
	n, ok := t.out2n[name]
	return n, ok
}

// State2Num returns the state code for name, and whether it was found.
func (t *Table) State2Num(name string) (int, bool) {
	n, ok := t.st2n[name]
	return n, ok
}

// GetInId returns the name of input i, synthesizing "i" if out of range.
func (t *Table) GetInId(i int) string {
	if i >= 0 && i < len(t.in2s) {
		return t.in2s[i]
	}
	return fmt.Sprintf("%d", i)
}

// GetOutId returns the name of output i, synthesizing "i" if out of range.
func (t *Table) GetOutId(i int) string {
	if i >= 0 && i < len(t.out2s) {
		return t.out2s[i]
	}
	return fmt.Sprintf("%d", i)
}

// GetStateId returns the name of state i, synthesizing prefix+i if i is
// out of range of the known state names.
func (t *Table) GetStateId(i int, prefix string) string {
	if i >= 0 && i < len(t.st2s) {
		return t.st2s[i]
	}
	return fmt.Sprintf("%s%d", prefix, i)
}

// AddState2String appends a new state name and returns its code.
func (t *Table) AddState2String(name string) int {
	t.st2s = append(t.st2s, name)
	id := len(t.st2s) - 1
	t.st2n[name] = id
	return id
}

// RemoveState2String deletes the state name at index i, shifting all
// higher indices down by one and reindexing the lookup map.
func (t *Table) RemoveState2String(i int) {
	if i < 0 || i >= len(t.st2s) {
		return
	}
	t.st2s = append(t.st2s[:i], t.st2s[i+1:]...)
	t.reindex()
}

// In returns the full input-name vector.
func (t *Table) In() []string { return append([]string(nil), t.in2s...) }

// Out returns the full output-name vector.
func (t *Table) Out() []string { return append([]string(nil), t.out2s...) }

// States returns the full state-name vector.
func (t *Table) States() []string { return append([]string(nil), t.st2s...) }

// MaxInput returns the highest valid input code.
func (t *Table) MaxInput() int { return len(t.in2s) - 1 }

// MaxOutput returns the highest valid output code.
func (t *Table) MaxOutput() int { return len(t.out2s) - 1 }

// Clone returns an independent value copy of the table.
func (t *Table) Clone() *Table {
	return New(t.in2s, t.out2s, t.st2s)
}

// Compare checks two tables' input and output vectors for equality.
// State names are deliberately not compared: state naming can differ
// between two tables describing the same FSM shape (e.g. after
// minimization the state names are subset labels).
func Compare(a, b *Table) bool {
	if len(a.in2s) != len(b.in2s) || len(a.out2s) != len(b.out2s) {
		return false
	}
	for i := range a.in2s {
		if a.in2s[i] != b.in2s[i] {
			return false
		}
	}
	for i := range a.out2s {
		if a.out2s[i] != b.out2s[i] {
			return false
		}
	}
	return true
}
