// Package dfa builds a DFA from an ε-NFA via subset construction, and
// minimizes a DFA via partition refinement. Like package nfa, states
// are referenced by id through a flat map rather than by pointer.
package dfa

import (
	"sort"
	"strconv"

	"github.com/chlamydomonos/chlexgen/nfa"
)

// State is one DFA state: a partial byte -> state id transition table.
type State struct {
	ID    int
	Trans map[byte]int
}

// Tag marks an accepting state with the rule it accepts — the smallest
// rule index of any NFA-accepting state folded into it — and that
// rule's action text.
type Tag struct {
	RuleIndex int
	Action    string
}

// DFA is a flat-map directed graph with a distinguished start state and
// a set of accepting states, each tagged with exactly one rule.
type DFA struct {
	States map[int]*State
	Start  int
	Accept map[int]Tag
}

type nfaSet map[uint32]struct{}

func closure(n *nfa.NFA, set nfaSet) {
	queue := make([]uint32, 0, len(set))
	for id := range set {
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range n.States[id].Edges {
			if e.Label != 0 {
				continue
			}
			if _, ok := set[e.To]; !ok {
				set[e.To] = struct{}{}
				queue = append(queue, e.To)
			}
		}
	}
}

func move(n *nfa.NFA, set nfaSet, c byte) nfaSet {
	result := nfaSet{}
	for id := range set {
		for _, e := range n.States[id].Edges {
			if e.Label == int(c) {
				result[e.To] = struct{}{}
			}
		}
	}
	return result
}

// setKey is a canonical string key for a set of NFA state ids, used to
// locate an existing DFA state representing the same subset. This is
// the corrected replacement for the reference implementation's broken
// isEqual(*stateSet, *stateSet) self-comparison: we key subsets
// structurally instead of comparing arbitrary pairs.
func setKey(set nfaSet) string {
	ids := make([]uint32, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	buf := make([]byte, 0, len(ids)*6)
	for _, id := range ids {
		buf = strconv.AppendUint(buf, uint64(id), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}

// Build runs subset construction over n, producing a DFA whose
// accepting states are tagged with the lowest-rule-index NFA accepting
// state folded into each subset (rule-priority tie-breaking). Bytes are
// explored in ascending order 1..127 so the resulting state ids — and
// thus all emitted output — are deterministic.
func Build(n *nfa.NFA) *DFA {
	startSet := nfaSet{n.Start: {}}
	closure(n, startSet)

	states := map[int]*State{}
	subsetOf := map[int]nfaSet{}
	idOf := map[string]int{}

	nextID := 0
	register := func(set nfaSet) int {
		k := setKey(set)
		if id, ok := idOf[k]; ok {
			return id
		}
		id := nextID
		nextID++
		idOf[k] = id
		subsetOf[id] = set
		states[id] = &State{ID: id, Trans: map[byte]int{}}
		return id
	}

	startID := register(startSet)
	queue := []int{startID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		set := subsetOf[id]

		for c := 1; c <= 127; c++ {
			moved := move(n, set, byte(c))
			if len(moved) == 0 {
				continue
			}
			closure(n, moved)
			k := setKey(moved)
			_, existed := idOf[k]
			target := register(moved)
			if !existed {
				queue = append(queue, target)
			}
			states[id].Trans[byte(c)] = target
		}
	}

	accept := map[int]Tag{}
	for id, set := range subsetOf {
		best := -1
		var bestTag nfa.Tag
		for nfaID := range set {
			tag, ok := n.Accept[nfaID]
			if !ok {
				continue
			}
			if best == -1 || tag.RuleIndex < best {
				best = tag.RuleIndex
				bestTag = tag
			}
		}
		if best != -1 {
			accept[id] = Tag{RuleIndex: bestTag.RuleIndex, Action: bestTag.Action}
		}
	}

	return &DFA{States: states, Start: startID, Accept: accept}
}
