// Package hittingset provides a minimum-cardinality hitting-set solver:
// given a collection of sets drawn from a common universe, find the
// smallest set that intersects ("hits") every one of them. The FSM
// operations package uses this to build exact state identification sets
// from the pairwise distinguishing-trace indices of the characterization
// set.
package hittingset

import "sort"

// Set is a set of element indices, represented as a sorted slice for
// deterministic iteration and output.
type Set []int

// MinCardinality returns a minimum-cardinality hitting set for sets: a set
// of elements such that every member of sets contains at least one of
// them. Exhaustive search over increasing target cardinality — exact, but
// exponential in the worst case, matching the original implementation's
// explicit exactness guarantee (it is only ever invoked on the small
// per-state-pair index sets built from a characterization set, which stay
// small in practice).
func MinCardinality(sets []Set) Set {
	if len(sets) == 0 {
		return Set{}
	}

	universe := universeOf(sets)
	if len(universe) == 0 {
		return Set{}
	}

	for k := 1; k <= len(universe); k++ {
		if hit := search(universe, sets, k, 0, nil); hit != nil {
			sort.Ints(hit)
			return hit
		}
	}
	// Every set is hit by the full universe at worst.
	sort.Ints(universe)
	return universe
}

func universeOf(sets []Set) []int {
	seen := map[int]bool{}
	var out []int
	for _, s := range sets {
		for _, e := range s {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	sort.Ints(out)
	return out
}

// search tries to extend the partial candidate (built from universe[:start]
// decisions) to a hitting set of exactly k elements chosen from universe.
func search(universe []int, sets []Set, k, start int, candidate []int) []int {
	if len(candidate) == k {
		if hitsAll(candidate, sets) {
			return append([]int(nil), candidate...)
		}
		return nil
	}
	remaining := k - len(candidate)
	if len(universe)-start < remaining {
		return nil
	}
	// Try including universe[start].
	if hit := search(universe, sets, k, start+1, append(candidate, universe[start])); hit != nil {
		return hit
	}
	// Try excluding universe[start].
	return search(universe, sets, k, start+1, candidate)
}

func hitsAll(candidate []int, sets []Set) bool {
	cset := map[int]bool{}
	for _, c := range candidate {
		cset[c] = true
	}
	for _, s := range sets {
		hit := false
		for _, e := range s {
			if cset[e] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
