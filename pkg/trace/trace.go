// Package trace provides the input/output trace primitives shared by the
// FSM graph, table and tree-of-traces packages: plain input traces, output
// traces, combined I/O traces, and the segmented traces used while walking
// a tree of traces.
package trace

import (
	"fmt"
	"strings"

	"github.com/fsmlab/conform/pkg/symtab"
)

// InputTrace is a sequence of input codes applied in order.
type InputTrace []int

// OutputTrace is a sequence of output codes produced in order.
type OutputTrace []int

// Equal reports whether two input traces have identical content.
func (a InputTrace) Equal(b InputTrace) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Prefixes returns every non-empty prefix of t, shortest first.
func (t InputTrace) Prefixes() []InputTrace {
	out := make([]InputTrace, 0, len(t))
	for i := 1; i <= len(t); i++ {
		out = append(out, append(InputTrace(nil), t[:i]...))
	}
	return out
}

// String renders the trace using the input-alphabet names from tbl. If tbl
// is nil, raw integer codes are rendered dot-separated.
func (t InputTrace) String(tbl *symtab.Table) string {
	parts := make([]string, len(t))
	for i, x := range t {
		if tbl != nil {
			parts[i] = tbl.GetInId(x)
		} else {
			parts[i] = fmt.Sprintf("%d", x)
		}
	}
	return strings.Join(parts, ".")
}

// IOTrace pairs an input trace with the output trace it produced. The two
// slices are always the same length for a fully-applied trace; Dfsm.ApplyDet
// may return a shorter pair representing a partial match (see pkg/fsm).
type IOTrace struct {
	Inputs  InputTrace
	Outputs OutputTrace
}

// Empty reports whether the trace carries no inputs at all.
func (t IOTrace) Empty() bool { return len(t.Inputs) == 0 }

// String renders the trace as "i1/o1.i2/o2..." using tbl's names, or raw
// integer codes if tbl is nil.
func (t IOTrace) String(tbl *symtab.Table) string {
	n := len(t.Inputs)
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		var in, out string
		if tbl != nil {
			in = tbl.GetInId(t.Inputs[i])
			out = tbl.GetOutId(t.Outputs[i])
		} else {
			in = fmt.Sprintf("%d", t.Inputs[i])
			out = fmt.Sprintf("%d", t.Outputs[i])
		}
		parts[i] = in + "/" + out
	}
	return strings.Join(parts, ".")
}

// RTT renders t as round-trip-trace lines: for every step, one
// "INPUT <input>" line followed by one "OUTPUT <output>" line, using tbl's
// names, or raw integer codes if tbl is nil.
func (t IOTrace) RTT(tbl *symtab.Table) string {
	var b strings.Builder
	for i := range t.Inputs {
		var in, out string
		if tbl != nil {
			in = tbl.GetInId(t.Inputs[i])
			out = tbl.GetOutId(t.Outputs[i])
		} else {
			in = fmt.Sprintf("%d", t.Inputs[i])
			out = fmt.Sprintf("%d", t.Outputs[i])
		}
		fmt.Fprintf(&b, "INPUT %s\nOUTPUT %s\n", in, out)
	}
	return b.String()
}

// SegmentedTrace is an input trace split into contiguous segments, each
// segment carrying the number of leading elements ("prefix") already
// consumed by an enclosing tree path. It is used by the tree-of-traces
// distinguishing-trace search to walk a trace one tree-edge at a time
// without re-allocating the whole trace at each step.
type SegmentedTrace struct {
	segments []InputTrace
	prefix   []int // prefix[i] = number of elements of segments[i] that are "live"
}

// NewSegmentedTrace builds a segmented trace from a single full segment.
func NewSegmentedTrace(t InputTrace) *SegmentedTrace {
	return &SegmentedTrace{
		segments: []InputTrace{t},
		prefix:   []int{len(t)},
	}
}

// Append adds a new fully-live segment to the trace.
func (s *SegmentedTrace) Append(t InputTrace) {
	s.segments = append(s.segments, t)
	s.prefix = append(s.prefix, len(t))
}

// Len returns the total number of live elements across all segments.
func (s *SegmentedTrace) Len() int {
	n := 0
	for _, p := range s.prefix {
		n += p
	}
	return n
}

// At returns the live element at position n (0-indexed across all
// segments), and whether n was in range. Unlike the original
// implementation, an out-of-range index never panics or returns an
// unchecked sentinel: callers must check ok.
func (s *SegmentedTrace) At(n int) (val int, ok bool) {
	if n < 0 {
		return 0, false
	}
	for i, p := range s.prefix {
		if n < p {
			return s.segments[i][n], true
		}
		n -= p
	}
	return 0, false
}

// Flatten returns the full live trace as a single InputTrace.
func (s *SegmentedTrace) Flatten() InputTrace {
	out := make(InputTrace, 0, s.Len())
	for i, p := range s.prefix {
		out = append(out, s.segments[i][:p]...)
	}
	return out
}

// Clone returns an independent deep copy.
func (s *SegmentedTrace) Clone() *SegmentedTrace {
	c := &SegmentedTrace{
		segments: make([]InputTrace, len(s.segments)),
		prefix:   append([]int(nil), s.prefix...),
	}
	for i, seg := range s.segments {
		c.segments[i] = append(InputTrace(nil), seg...)
	}
	return c
}
