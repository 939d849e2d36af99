// Package tables implements the classification tables used to minimize
// FSMs: the DFSM transition/output table, the chain of Pk-tables used to
// minimize deterministic, completely-specified machines by iterative
// state-class refinement, and the OFSM-table chain used for the
// observable (possibly nondeterministic) case.
package tables

// DFSMTable holds, for a deterministic completely-specified machine, the
// target state and output produced by every (state, input) pair. Row i,
// column x gives the successor of state i on input x and its output.
type DFSMTable struct {
	maxInput int
	target   [][]int // target[state][input] -> successor state, or -1
	output   [][]int // output[state][input] -> output code, or -1
}

// NewDFSMTable builds an empty table with numStates rows and maxInput+1
// columns, all entries absent (-1).
func NewDFSMTable(numStates, maxInput int) *DFSMTable {
	t := &DFSMTable{
		maxInput: maxInput,
		target:   make([][]int, numStates),
		output:   make([][]int, numStates),
	}
	for i := range t.target {
		t.target[i] = fillMinusOne(maxInput + 1)
		t.output[i] = fillMinusOne(maxInput + 1)
	}
	return t
}

func fillMinusOne(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = -1
	}
	return r
}

// Set records that applying x at state gives (target,output).
func (t *DFSMTable) Set(state, x, target, output int) {
	t.target[state][x] = target
	t.output[state][x] = output
}

// Target returns the successor of state on input x, or -1 if absent.
func (t *DFSMTable) Target(state, x int) int { return t.target[state][x] }

// Output returns the output of state on input x, or -1 if absent.
func (t *DFSMTable) Output(state, x int) int { return t.output[state][x] }

// Rows returns the number of states covered by the table.
func (t *DFSMTable) Rows() int { return len(t.target) }

// CompareColumns reports whether applying x1 at state s1 produces the same
// output and the same successor state as applying x2 at state s2.
func (t *DFSMTable) CompareColumns(s1, x1, s2, x2 int) bool {
	return t.output[s1][x1] == t.output[s2][x2] && t.target[s1][x1] == t.target[s2][x2]
}

// PkTable is one level of the classification-refinement chain used to
// minimize a deterministic FSM. Each state is assigned a class number;
// two states are in the same class at level k if they agree on outputs
// and, recursively, their successors agree on classes at level k-1.
type PkTable struct {
	class  []int // class[state] -> class number at this level
	i2pmap [][]int // i2pmap[state][input] -> successor state (same as DFSMTable.target)
}

// GetClass returns the class number assigned to state at this level.
func (p *PkTable) GetClass(state int) int { return p.class[state] }

// Successor returns the successor state of `state` on input x, as
// recorded at table-construction time.
func (p *PkTable) Successor(state, x int) int { return p.i2pmap[state][x] }

// P1 builds the first classification level (P1) from a DFSM table: two
// states are in the same class iff they have identical output rows.
func P1(dt *DFSMTable) *PkTable {
	n := dt.Rows()
	class := make([]int, n)
	nextClass := 0
	assigned := make([]bool, n)
	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		class[i] = nextClass
		assigned[i] = true
		for j := i + 1; j < n; j++ {
			if assigned[j] {
				continue
			}
			if sameOutputRow(dt, i, j) {
				class[j] = nextClass
				assigned[j] = true
			}
		}
		nextClass++
	}
	i2pmap := make([][]int, n)
	for i := 0; i < n; i++ {
		i2pmap[i] = append([]int(nil), dt.target[i]...)
	}
	return &PkTable{class: class, i2pmap: i2pmap}
}

func sameOutputRow(dt *DFSMTable, i, j int) bool {
	for x := 0; x <= dt.maxInput; x++ {
		if dt.output[i][x] != dt.output[j][x] {
			return false
		}
	}
	return true
}

// Next builds the P_{k+1} table from Pk: two states stay in the same
// class iff they were in the same class at level k AND their successors,
// for every input, are in the same class at level k.
func (p *PkTable) Next(maxInput int) *PkTable {
	n := len(p.class)
	newClass := make([]int, n)
	nextClass := 0
	assigned := make([]bool, n)
	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		newClass[i] = nextClass
		assigned[i] = true
		for j := i + 1; j < n; j++ {
			if assigned[j] {
				continue
			}
			if p.class[i] != p.class[j] {
				continue
			}
			if refinesSame(p, i, j, maxInput) {
				newClass[j] = nextClass
				assigned[j] = true
			}
		}
		nextClass++
	}
	if nextClass == countDistinct(p.class) {
		// No refinement happened: this level is stable, signal termination
		// by returning nil so the caller stops chaining.
		return nil
	}
	return &PkTable{class: newClass, i2pmap: p.i2pmap}
}

func refinesSame(p *PkTable, i, j, maxInput int) bool {
	for x := 0; x <= maxInput; x++ {
		si, sj := p.i2pmap[i][x], p.i2pmap[j][x]
		if si < 0 || sj < 0 {
			if si != sj {
				return false
			}
			continue
		}
		if p.class[si] != p.class[sj] {
			return false
		}
	}
	return true
}

func countDistinct(class []int) int {
	seen := map[int]bool{}
	for _, c := range class {
		seen[c] = true
	}
	return len(seen)
}

// Chain builds the full sequence of Pk tables starting from dt, stopping
// as soon as a level stabilizes (produces no further refinement).
func Chain(dt *DFSMTable, maxInput int) []*PkTable {
	chain := []*PkTable{P1(dt)}
	for {
		next := chain[len(chain)-1].Next(maxInput)
		if next == nil {
			break
		}
		chain = append(chain, next)
	}
	return chain
}


// OFSMTable is one level of the classification-refinement chain used to
// minimize an observable, possibly nondeterministic FSM. Because the
// machine may be incompletely specified, each (state,input) transition
// may be absent; absence is tracked per output symbol since the FSM
// being classified has already been made observable (a given
// (input,output) pair leads to at most one successor).
type OFSMTable struct {
	maxInput  int
	maxOutput int
	s2c       []int            // state -> class at this level
	next      [][][]int        // next[state][input][output] -> successor state, or -1
}

// S2C returns the class number assigned to state at this level.
func (o *OFSMTable) S2C(state int) int { return o.s2c[state] }

// Get returns the successor of (state,input,output), or -1 if absent.
func (o *OFSMTable) Get(state, input, output int) int {
	return o.next[state][input][output]
}

// NewOFSMTable0 builds the base level (level 0) of the OFSM chain: two
// states are in the same class iff they support exactly the same set of
// (input,output) pairs as their first step — i.e. have the same set of
// defined transitions.
func NewOFSMTable0(numStates, maxInput, maxOutput int, nextFn func(state, input, output int) int) *OFSMTable {
	o := &OFSMTable{maxInput: maxInput, maxOutput: maxOutput}
	o.next = make([][][]int, numStates)
	for s := 0; s < numStates; s++ {
		o.next[s] = make([][]int, maxInput+1)
		for x := 0; x <= maxInput; x++ {
			o.next[s][x] = make([]int, maxOutput+1)
			for y := 0; y <= maxOutput; y++ {
				o.next[s][x][y] = nextFn(s, x, y)
			}
		}
	}
	o.s2c = make([]int, numStates)
	nextClass := 0
	assigned := make([]bool, numStates)
	for i := 0; i < numStates; i++ {
		if assigned[i] {
			continue
		}
		o.s2c[i] = nextClass
		assigned[i] = true
		for j := i + 1; j < numStates; j++ {
			if assigned[j] {
				continue
			}
			if sameSignature(o, i, j) {
				o.s2c[j] = nextClass
				assigned[j] = true
			}
		}
		nextClass++
	}
	return o
}

func sameSignature(o *OFSMTable, i, j int) bool {
	for x := 0; x <= o.maxInput; x++ {
		for y := 0; y <= o.maxOutput; y++ {
			di := o.next[i][x][y] >= 0
			dj := o.next[j][x][y] >= 0
			if di != dj {
				return false
			}
		}
	}
	return true
}

// Next builds the next classification level: states stay together only if
// also every reachable successor (via any defined (x,y)) shares a class.
func (o *OFSMTable) Next() *OFSMTable {
	n := len(o.s2c)
	newS2C := make([]int, n)
	nextClass := 0
	assigned := make([]bool, n)
	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		newS2C[i] = nextClass
		assigned[i] = true
		for j := i + 1; j < n; j++ {
			if assigned[j] {
				continue
			}
			if o.s2c[i] != o.s2c[j] {
				continue
			}
			if o.refinesSame(i, j) {
				newS2C[j] = nextClass
				assigned[j] = true
			}
		}
		nextClass++
	}
	if nextClass == countDistinct(o.s2c) {
		return nil
	}
	return &OFSMTable{maxInput: o.maxInput, maxOutput: o.maxOutput, s2c: newS2C, next: o.next}
}

func (o *OFSMTable) refinesSame(i, j int) bool {
	for x := 0; x <= o.maxInput; x++ {
		for y := 0; y <= o.maxOutput; y++ {
			si, sj := o.next[i][x][y], o.next[j][x][y]
			if si < 0 || sj < 0 {
				if si != sj {
					return false
				}
				continue
			}
			if o.s2c[si] != o.s2c[sj] {
				return false
			}
		}
	}
	return true
}

// OFSMChain builds the full OFSM-table classification chain, stopping as
// soon as a level stabilizes.
func OFSMChain(numStates, maxInput, maxOutput int, nextFn func(state, input, output int) int) []*OFSMTable {
	chain := []*OFSMTable{NewOFSMTable0(numStates, maxInput, maxOutput, nextFn)}
	for {
		next := chain[len(chain)-1].Next()
		if next == nil {
			break
		}
		chain = append(chain, next)
	}
	return chain
}
