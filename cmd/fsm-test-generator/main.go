// Command fsm-test-generator builds a conformance test suite from a
// reference FSM model using one of the W, Wp, HSI or H generation
// methods. With -w, -wp or -h, an optional abstraction model adds further
// test cases built from its characterization set; it never removes any.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsmlab/conform/pkg/fsm"
	"github.com/fsmlab/conform/pkg/fsmfile"
	"github.com/fsmlab/conform/pkg/generator"
	"github.com/fsmlab/conform/pkg/trace"
	"github.com/fsmlab/conform/pkg/tree"
)

type config struct {
	method       string // "w", "wp", "hsi", "h"
	fault        int    // -s fault domain bound m
	name         string // -n
	applyInput   []int  // -p IN ... (parsed as ints)
	applyOutput  []int
	applyState   int
	hasApply     bool
	additional   int // -a ADDITIONAL_STATES
	suiteOut     string
	rttPrefix    string
	hasRTT       bool
	modelFile    string
	abstractFile string
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "fsm-test-generator:", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "fsm-test-generator:", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (*config, error) {
	cfg := &config{fault: 0, applyState: -1}
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-w":
			cfg.method = "w"
		case "-wp":
			cfg.method = "wp"
		case "-hsi":
			cfg.method = "hsi"
		case "-h":
			cfg.method = "h"
		case "-s":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-s requires a fault-domain bound")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return nil, fmt.Errorf("-s: %w", err)
			}
			cfg.fault = n
		case "-n":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-n requires a name")
			}
			cfg.name = args[i]
		case "-a":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-a requires a count")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return nil, fmt.Errorf("-a: %w", err)
			}
			cfg.additional = n
		case "-t":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-t requires a file path")
			}
			cfg.suiteOut = args[i]
		case "-rtt":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-rtt requires a prefix")
			}
			cfg.rttPrefix = args[i]
			cfg.hasRTT = true
		case "-p":
			if i+3 >= len(args) {
				return nil, fmt.Errorf("-p requires IN OUT... STATE")
			}
			in, err := parseIntList(args[i+1])
			if err != nil {
				return nil, fmt.Errorf("-p input: %w", err)
			}
			out, err := parseIntList(args[i+2])
			if err != nil {
				return nil, fmt.Errorf("-p output: %w", err)
			}
			st, err := strconv.Atoi(args[i+3])
			if err != nil {
				return nil, fmt.Errorf("-p state: %w", err)
			}
			cfg.applyInput, cfg.applyOutput, cfg.applyState = in, out, st
			cfg.hasApply = true
			i += 3
		default:
			if strings.HasPrefix(args[i], "-") {
				return nil, fmt.Errorf("unknown flag %s", args[i])
			}
			positional = append(positional, args[i])
		}
	}

	if cfg.method == "" && !cfg.hasApply {
		return nil, fmt.Errorf("one of -w, -wp, -hsi, -h is required")
	}
	if len(positional) < 1 {
		return nil, fmt.Errorf("missing MODEL_FILE")
	}
	cfg.modelFile = positional[0]
	if len(positional) > 1 {
		cfg.abstractFile = positional[1]
	}
	return cfg, nil
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ".") {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func loadModel(path string) (*fsm.FSM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return fsmfile.ParseCSV(f)
	case ".json":
		return fsmfile.ParseJSON(f)
	default:
		return fsmfile.ParseLine(f)
	}
}

func run(cfg *config) error {
	model, err := loadModel(cfg.modelFile)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.modelFile, err)
	}
	if cfg.name != "" {
		model.Name = cfg.name
	}

	if cfg.hasApply {
		return runApply(cfg, model)
	}

	if !model.IsDeterministic() || !model.IsCompletelyDefined() {
		return fmt.Errorf("%s is not a deterministic, completely-specified reference model", cfg.modelFile)
	}
	d := fsm.NewDfsm(model)

	var abs *fsm.FSM
	if cfg.abstractFile != "" {
		abs, err = loadModel(cfg.abstractFile)
		if err != nil {
			return fmt.Errorf("loading abstraction model %s: %w", cfg.abstractFile, err)
		}
	}

	var suite *tree.Tree
	switch cfg.method {
	case "w":
		if abs != nil {
			suite = generator.SafeWMethod(d, abs, cfg.fault)
		} else {
			suite = generator.WMethod(d, cfg.fault)
		}
	case "wp":
		if abs != nil {
			suite = generator.SafeWpMethod(d, abs, cfg.fault)
		} else {
			suite = generator.WpMethod(d, cfg.fault)
		}
	case "hsi":
		suite = generator.HsiMethod(d, cfg.fault)
	case "h":
		if abs != nil {
			suite = generator.SafeHMethod(d, abs, cfg.fault)
		} else {
			suite = generator.HMethod(d, cfg.fault)
		}
	}

	return writeSuite(cfg, d, suite)
}

func writeSuite(cfg *config, d *fsm.Dfsm, suite *tree.Tree) error {
	traces := suite.Traces()
	var ioTraces []trace.IOTrace
	for _, tr := range traces {
		ioTraces = append(ioTraces, d.ApplyDet(tr))
	}

	out := os.Stdout
	if cfg.suiteOut != "" {
		f, err := os.Create(cfg.suiteOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if cfg.hasRTT {
		return fsmfile.WriteRTT(out, cfg.rttPrefix, ioTraces, d.Symbols)
	}
	for _, tr := range traces {
		fmt.Fprintln(out, tr.String(d.Symbols))
	}
	return nil
}

func runApply(cfg *config, model *fsm.FSM) error {
	if !model.IsDeterministic() || !model.IsCompletelyDefined() {
		return fmt.Errorf("-p requires a deterministic, completely-specified model")
	}
	d := fsm.NewDfsm(model)
	got := d.ApplyDet(trace.InputTrace(cfg.applyInput))
	fmt.Println(got.String(d.Symbols))

	pass := d.Pass(trace.InputTrace(cfg.applyInput), trace.OutputTrace(cfg.applyOutput))
	if cfg.applyState >= 0 {
		reached, ok := after(d.FSM, got.Inputs)
		pass = pass && ok && reached == cfg.applyState
	}
	if pass {
		fmt.Println("PASS")
	} else {
		fmt.Println("FAIL")
	}
	return nil
}

func after(f *fsm.FSM, in trace.InputTrace) (int, bool) {
	cur := f.Initial.ID
	for _, x := range in {
		ts := f.Nodes[cur].Apply(x)
		if len(ts) == 0 {
			return 0, false
		}
		cur = ts[0].To.ID
	}
	return cur, true
}
