package fsmfile

import (
	"strings"
	"testing"
)

func FuzzParseLine(f *testing.F) {
	f.Add("0 0 1 0\n1 0 0 1\n")
	f.Add("")
	f.Add("not a line\n")
	f.Add("0 0 0 0\n# comment\n\n0 1 0 1\n")
	f.Fuzz(func(t *testing.T, src string) {
		_, _ = ParseLine(strings.NewReader(src))
	})
}

func FuzzParseCSV(f *testing.F) {
	f.Add(";0;1\ns0;s1/a;s0/b\n")
	f.Add("")
	f.Add(";0\ns0;bogus-cell\n")
	f.Fuzz(func(t *testing.T, src string) {
		_, _ = ParseCSV(strings.NewReader(src))
	})
}

func FuzzParseJSON(f *testing.F) {
	f.Add(`{"states":["s0"],"inputs":["a"],"outputs":["x"],"initial":"s0","transitions":[]}`)
	f.Add("{}")
	f.Add("not json")
	f.Fuzz(func(t *testing.T, src string) {
		_, _ = ParseJSON(strings.NewReader(src))
	})
}
