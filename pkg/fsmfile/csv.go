package fsmfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fsmlab/conform/pkg/fsm"
	"github.com/fsmlab/conform/pkg/symtab"
)

// ParseCSV reads the semicolon-delimited CSV transition table format: row
// 0 lists the input names (column 0 is blank/ignored); every subsequent
// row starts with a state name followed by one cell per input, each cell
// either empty (no transition — auto-completed below) or "TARGET/OUTPUT".
// Output names are collected into a sorted alphabet with "_nop" always
// present as the reserved no-operation output used to auto-complete
// states that leave some input unhandled, so the resulting machine is
// always deterministic and completely specified.
func ParseCSV(r io.Reader) (*fsm.FSM, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(records) < 2 {
		return nil, &ParseError{Format: "csv", Line: 0, Msg: "expected a header row and at least one state row"}
	}

	header := records[0]
	inputs := header[1:]

	var stateNames []string
	type cellRef struct {
		state, input int
		target       string
		output       string
	}
	var cells []cellRef
	outputSet := map[string]bool{"_nop": true}

	for r, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		stateNames = append(stateNames, row[0])
		for c := 1; c < len(row) && c-1 < len(inputs); c++ {
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			parts := strings.SplitN(cell, "/", 2)
			if len(parts) != 2 {
				return nil, &ParseError{Format: "csv", Line: r + 2, Msg: "cell must be TARGET/OUTPUT: " + cell}
			}
			outputSet[parts[1]] = true
			cells = append(cells, cellRef{state: len(stateNames) - 1, input: c - 1, target: parts[0], output: parts[1]})
		}
	}

	outputs := make([]string, 0, len(outputSet))
	for o := range outputSet {
		if o != "_nop" {
			outputs = append(outputs, o)
		}
	}
	sort.Strings(outputs)
	outputs = append([]string{"_nop"}, outputs...)

	tbl := symtab.New(inputs, outputs, stateNames)
	f := fsm.New("", tbl, len(stateNames), len(inputs)-1, len(outputs)-1, 0)

	stateIdx := map[string]int{}
	for i, s := range stateNames {
		stateIdx[s] = i
	}

	for _, c := range cells {
		to, ok := stateIdx[c.target]
		if !ok {
			return nil, &ParseError{Format: "csv", Line: 0, Msg: "unknown target state " + c.target}
		}
		out, _ := tbl.Out2Num(c.output)
		if err := f.AddTransition(c.state, c.input, to, out); err != nil {
			return nil, err
		}
	}

	nop, _ := tbl.Out2Num("_nop")
	for _, n := range f.Nodes {
		for x := 0; x <= f.MaxInput; x++ {
			if len(n.Apply(x)) == 0 {
				f.AddTransition(n.ID, x, n.ID, nop)
			}
		}
	}
	return f, nil
}

// WriteCSV renders f in the same semicolon-delimited format ParseCSV
// reads, one row per state, one column per input, cells as
// "TARGET/OUTPUT" ("" for an unspecified input, though a
// completely-specified Dfsm never has one).
func WriteCSV(w io.Writer, f *fsm.FSM) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	header := append([]string{""}, f.Symbols.In()...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, n := range f.Nodes {
		row := make([]string, f.MaxInput+2)
		row[0] = n.Name
		for x := 0; x <= f.MaxInput; x++ {
			ts := n.Apply(x)
			if len(ts) == 0 {
				row[x+1] = ""
				continue
			}
			row[x+1] = ts[0].To.Name + "/" + f.Symbols.GetOutId(ts[0].Output)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
