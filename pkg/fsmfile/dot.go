package fsmfile

import (
	"fmt"
	"io"

	"github.com/fsmlab/conform/pkg/fsm"
)

// WriteDot renders f as a Graphviz DOT digraph: one node per state, one
// edge per transition labeled "input/output". Kept deliberately minimal —
// layout and styling are left to the consumer (dot, xdot, etc.), matching
// the spec's framing of rendering as an external collaborator's job.
func WriteDot(w io.Writer, f *fsm.FSM) error {
	if _, err := fmt.Fprintf(w, "digraph %s {\n", sanitizeID(f.Name)); err != nil {
		return err
	}
	for _, n := range f.Nodes {
		shape := "circle"
		if n.IsInitial() {
			shape = "doublecircle"
		}
		if _, err := fmt.Fprintf(w, "  %s [label=%q shape=%s];\n", sanitizeID(n.Name), n.Name, shape); err != nil {
			return err
		}
	}
	for _, n := range f.Nodes {
		for _, t := range n.Transitions {
			label := f.Symbols.GetInId(t.Input) + "/" + f.Symbols.GetOutId(t.Output)
			if _, err := fmt.Fprintf(w, "  %s -> %s [label=%q];\n", sanitizeID(n.Name), sanitizeID(t.To.Name), label); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprint(w, "}\n")
	return err
}

func sanitizeID(s string) string {
	if s == "" {
		return "_"
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	return "n" + string(out)
}
