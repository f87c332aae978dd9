package nfa_test

import (
	"testing"

	"github.com/chlamydomonos/chlexgen/nfa"
	"github.com/chlamydomonos/chlexgen/rx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, pattern string) *rx.Node {
	n, err := rx.Parse(pattern)
	require.NoError(t, err)
	return n
}

func TestBuildSingleRuleHasOneAcceptState(t *testing.T) {
	ast := mustParse(t, "a")
	n, err := nfa.Build([]*rx.Node{ast}, []string{"act"})
	require.NoError(t, err)
	require.Len(t, n.Accept, 1)
	for _, tag := range n.Accept {
		assert.Equal(t, 0, tag.RuleIndex)
		assert.Equal(t, "act", tag.Action)
	}
}

func TestBuildEpsilonNeverUsedAsLiteral(t *testing.T) {
	ast := mustParse(t, "a*b+c?")
	n, err := nfa.Build([]*rx.Node{ast}, []string{"act"})
	require.NoError(t, err)
	for _, s := range n.States {
		for _, e := range s.Edges {
			if e.Label == 0 {
				continue
			}
			assert.GreaterOrEqual(t, e.Label, 1)
			assert.LessOrEqual(t, e.Label, 127)
		}
	}
}

func TestBuildUnionPreservesRulePriority(t *testing.T) {
	a := mustParse(t, "a")
	b := mustParse(t, "a")
	n, err := nfa.Build([]*rx.Node{a, b}, []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, n.Accept, 2)

	var ruleIndices []int
	for _, tag := range n.Accept {
		ruleIndices = append(ruleIndices, tag.RuleIndex)
		if tag.RuleIndex == 0 {
			assert.Equal(t, "first", tag.Action)
		} else {
			assert.Equal(t, "second", tag.Action)
		}
	}
	assert.ElementsMatch(t, []int{0, 1}, ruleIndices)
}

func TestBuildUnionStartReachesEveryRule(t *testing.T) {
	a := mustParse(t, "a")
	b := mustParse(t, "b")
	n, err := nfa.Build([]*rx.Node{a, b}, []string{"A", "B"})
	require.NoError(t, err)

	startState := n.States[n.Start]
	require.Len(t, startState.Edges, 2)
	for _, e := range startState.Edges {
		assert.Equal(t, 0, e.Label)
	}
}

func TestBuildStarAllowsSkip(t *testing.T) {
	ast := mustParse(t, "a*")
	n, err := nfa.Build([]*rx.Node{ast}, []string{"act"})
	require.NoError(t, err)
	// The fragment's own start must have a direct epsilon path to its
	// own accept state (the zero-repetition path).
	var fragStart uint32
	for _, e := range n.States[n.Start].Edges {
		fragStart = e.To
	}
	var acceptID uint32
	for id := range n.Accept {
		acceptID = id
	}
	found := false
	for _, e := range n.States[fragStart].Edges {
		if e.Label == 0 && e.To == acceptID {
			found = true
		}
	}
	assert.True(t, found, "expected epsilon shortcut from star's start to accept")
}

func TestBuildIDsAreGloballyUniqueAcrossRules(t *testing.T) {
	a := mustParse(t, "a")
	b := mustParse(t, "b")
	n, err := nfa.Build([]*rx.Node{a, b}, []string{"A", "B"})
	require.NoError(t, err)
	seen := map[uint32]bool{}
	for id := range n.States {
		assert.False(t, seen[id], "duplicate state id %d", id)
		seen[id] = true
	}
}
