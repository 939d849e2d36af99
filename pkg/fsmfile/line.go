// Package fsmfile implements the model-file formats the CLI driver
// accepts: the plain line-based ".fsm" text format, the semicolon-
// delimited CSV transition-table format, and a JSON format — plus the
// minimal DOT and CSV renderers used to inspect a loaded model, and the
// round-trip-trace (RTT) writer used by the -rtt flag.
package fsmfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fsmlab/conform/pkg/fsm"
	"github.com/fsmlab/conform/pkg/symtab"
)

// ParseError reports a malformed model file, including the offending line.
type ParseError struct {
	Format string
	Line   int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %s", e.Format, e.Line, e.Msg)
}

// ParseLine reads the line-based ".fsm" text format: each non-blank,
// non-comment line is "from input to output", whitespace-separated,
// integer-coded. The first line's source state is taken as the initial
// state, and the alphabets are sized to the largest index seen anywhere
// in the file — matching the original line-format reader exactly.
func ParseLine(r io.Reader) (*fsm.FSM, error) {
	sc := bufio.NewScanner(r)
	type rawT struct{ from, in, to, out int }
	var rows []rawT
	maxState, maxInput, maxOutput := -1, -1, -1
	initial := -1
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, &ParseError{Format: "line", Line: lineNo, Msg: "expected 4 fields: from input to output"}
		}
		vals := make([]int, 4)
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, &ParseError{Format: "line", Line: lineNo, Msg: "non-integer field " + f}
			}
			vals[i] = n
		}
		row := rawT{vals[0], vals[1], vals[2], vals[3]}
		if initial < 0 {
			initial = row.from
		}
		if row.from > maxState {
			maxState = row.from
		}
		if row.to > maxState {
			maxState = row.to
		}
		if row.in > maxInput {
			maxInput = row.in
		}
		if row.out > maxOutput {
			maxOutput = row.out
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if initial < 0 {
		return nil, &ParseError{Format: "line", Line: 0, Msg: "empty model"}
	}

	numStates := maxState + 1
	names := make([]string, numStates)
	ins := make([]string, maxInput+1)
	outs := make([]string, maxOutput+1)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	for i := range ins {
		ins[i] = strconv.Itoa(i)
	}
	for i := range outs {
		outs[i] = strconv.Itoa(i)
	}
	tbl := symtab.New(ins, outs, names)
	f := fsm.New("", tbl, numStates, maxInput, maxOutput, initial)
	for _, row := range rows {
		if err := f.AddTransition(row.from, row.in, row.to, row.out); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteLine renders f in the line-based text format used by ParseLine.
func WriteLine(w io.Writer, f *fsm.FSM) error {
	for _, n := range f.Nodes {
		for _, t := range n.Transitions {
			if _, err := fmt.Fprintf(w, "%d %d %d %d\n", n.ID, t.Input, t.To.ID, t.Output); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadPresentationLayer builds a symbol table from three newline-separated
// name lists (inputs, outputs, states), one entry per line, used to
// attach human-readable names to a line-format model loaded via
// ParseLine.
func LoadPresentationLayer(inputs, outputs, states io.Reader) (*symtab.Table, error) {
	readLines := func(r io.Reader) ([]string, error) {
		var out []string
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			out = append(out, line)
		}
		return out, sc.Err()
	}
	in, err := readLines(inputs)
	if err != nil {
		return nil, err
	}
	out, err := readLines(outputs)
	if err != nil {
		return nil, err
	}
	st, err := readLines(states)
	if err != nil {
		return nil, err
	}
	return symtab.New(in, out, st), nil
}
