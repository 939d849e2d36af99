package fsmfile

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fsmlab/conform/pkg/fsm"
	"github.com/fsmlab/conform/pkg/symtab"
)

// jsonFSM mirrors the on-disk JSON model shape: named states/inputs/
// outputs and a flat transition list. Using a plain json-tagged
// intermediate struct (rather than a reflection-heavy alternative) keeps
// the format stable and easy to hand-author for test fixtures.
type jsonFSM struct {
	Name        string            `json:"name"`
	States      []string          `json:"states"`
	Inputs      []string          `json:"inputs"`
	Outputs     []string          `json:"outputs"`
	Initial     string            `json:"initial"`
	Transitions []jsonTransition  `json:"transitions"`
}

// jsonTransition's Input is an array: one element per input name that
// takes this same source/target/output transition, fanning out into one
// Go transition per element at load time.
type jsonTransition struct {
	From   string   `json:"from"`
	Input  []string `json:"input"`
	To     string   `json:"to"`
	Output string   `json:"output"`
}

// ParseJSON reads the JSON model format and auto-completes it into a
// deterministic, completely-specified machine: "_nop" is inserted into
// the output alphabet if absent, and every state missing a transition for
// some input gets an "x/_nop" self-loop — the same completion behavior
// the original CSV/JSON loaders apply, so a hand-authored JSON fixture
// never needs to spell out don't-care transitions.
func ParseJSON(r io.Reader) (*fsm.FSM, error) {
	var jf jsonFSM
	if err := json.NewDecoder(r).Decode(&jf); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if len(jf.States) == 0 {
		return nil, &ParseError{Format: "json", Line: 0, Msg: "no states"}
	}

	hasNop := false
	for _, o := range jf.Outputs {
		if o == "_nop" {
			hasNop = true
			break
		}
	}
	outputs := jf.Outputs
	if !hasNop {
		outputs = append([]string{"_nop"}, outputs...)
	}

	states := jf.States
	initialIdx := 0
	for i, s := range states {
		if s == jf.Initial {
			initialIdx = i
			break
		}
	}
	if initialIdx != 0 {
		states = append([]string{jf.Initial}, removeAt(states, initialIdx)...)
	}

	tbl := symtab.New(jf.Inputs, outputs, states)
	f := fsm.New(jf.Name, tbl, len(states), len(jf.Inputs)-1, len(outputs)-1, 0)

	for _, t := range jf.Transitions {
		from, ok := tbl.State2Num(t.From)
		if !ok {
			return nil, &ParseError{Format: "json", Line: 0, Msg: "unknown state " + t.From}
		}
		to, ok := tbl.State2Num(t.To)
		if !ok {
			return nil, &ParseError{Format: "json", Line: 0, Msg: "unknown state " + t.To}
		}
		out, ok := tbl.Out2Num(t.Output)
		if !ok {
			return nil, &ParseError{Format: "json", Line: 0, Msg: "unknown output " + t.Output}
		}
		if len(t.Input) == 0 {
			return nil, &ParseError{Format: "json", Line: 0, Msg: "transition has no input names"}
		}
		for _, name := range t.Input {
			in, ok := tbl.In2Num(name)
			if !ok {
				return nil, &ParseError{Format: "json", Line: 0, Msg: "unknown input " + name}
			}
			if err := f.AddTransition(from, in, to, out); err != nil {
				return nil, err
			}
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

func removeAt(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// WriteJSON renders f in the JSON model format ParseJSON reads.
func WriteJSON(w io.Writer, f *fsm.FSM) error {
	jf := jsonFSM{
		Name:    f.Name,
		States:  f.Symbols.States(),
		Inputs:  f.Symbols.In(),
		Outputs: f.Symbols.Out(),
		Initial: f.Initial.Name,
	}
	// Transitions that share (from, to, output) fan back into a single
	// entry with one input name per element, mirroring the array
	// shorthand ParseJSON reads.
	type groupKey struct{ from, to, output string }
	index := map[groupKey]int{}
	for _, n := range f.Nodes {
		for _, t := range n.Transitions {
			k := groupKey{n.Name, t.To.Name, f.Symbols.GetOutId(t.Output)}
			if i, ok := index[k]; ok {
				jf.Transitions[i].Input = append(jf.Transitions[i].Input, f.Symbols.GetInId(t.Input))
				continue
			}
			index[k] = len(jf.Transitions)
			jf.Transitions = append(jf.Transitions, jsonTransition{
				From:   k.from,
				Input:  []string{f.Symbols.GetInId(t.Input)},
				To:     k.to,
				Output: k.output,
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jf)
}
