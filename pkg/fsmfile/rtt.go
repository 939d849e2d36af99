package fsmfile

import (
	"fmt"
	"io"

	"github.com/fsmlab/conform/pkg/symtab"
	"github.com/fsmlab/conform/pkg/trace"
)

// WriteRTT writes the round-trip-trace format the -rtt CLI flag produces:
// every trace in suite gets written as one line per test case,
// "PREFIX<index> <inputs> <outputs>", each symbol rendered through tbl
// when available.
func WriteRTT(w io.Writer, prefix string, suite []trace.IOTrace, tbl *symtab.Table) error {
	for i, tc := range suite {
		line := fmt.Sprintf("%s%d %s %s\n", prefix, i, tc.Inputs.String(tbl), renderOutputs(tc.Outputs, tbl))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderOutputs(o trace.OutputTrace, tbl *symtab.Table) string {
	s := ""
	for i, y := range o {
		if i > 0 {
			s += "."
		}
		if tbl != nil {
			s += tbl.GetOutId(y)
		} else {
			s += fmt.Sprintf("%d", y)
		}
	}
	return s
}
