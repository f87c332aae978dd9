package dfa_test

import (
	"testing"

	"github.com/chlamydomonos/chlexgen/dfa"
	"github.com/chlamydomonos/chlexgen/nfa"
	"github.com/chlamydomonos/chlexgen/rx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDFA(t *testing.T, patterns []string, actions []string) *dfa.DFA {
	asts := make([]*rx.Node, len(patterns))
	for i, p := range patterns {
		n, err := rx.Parse(p)
		require.NoError(t, err)
		asts[i] = n
	}
	n, err := nfa.Build(asts, actions)
	require.NoError(t, err)
	return dfa.Build(n)
}

func run(d *dfa.DFA, s string) (matched bool, ruleIndex int) {
	state := d.Start
	best := -1
	consumed := 0
	if tag, ok := d.Accept[state]; ok {
		best = tag.RuleIndex
		consumed = 0
	}
	for i := 0; i < len(s); i++ {
		target, ok := d.States[state].Trans[s[i]]
		if !ok {
			break
		}
		state = target
		if tag, ok := d.Accept[state]; ok {
			best = tag.RuleIndex
			consumed = i + 1
		}
	}
	_ = consumed
	return best != -1, best
}

func TestBuildDeterminismAcrossRuns(t *testing.T) {
	d1 := buildDFA(t, []string{"a(b|c)*d"}, []string{"act"})
	d2 := buildDFA(t, []string{"a(b|c)*d"}, []string{"act"})
	assert.Equal(t, len(d1.States), len(d2.States))
	assert.Equal(t, d1.Start, d2.Start)
	assert.Equal(t, len(d1.Accept), len(d2.Accept))
}

func TestBuildExplorationIsTotalWithinAlphabet(t *testing.T) {
	d := buildDFA(t, []string{"a*"}, []string{"act"})
	for _, st := range d.States {
		for c, target := range st.Trans {
			assert.GreaterOrEqual(t, int(c), 1)
			assert.LessOrEqual(t, int(c), 127)
			_, ok := d.States[target]
			assert.True(t, ok)
		}
	}
}

func TestBuildMatchesStarOrCombination(t *testing.T) {
	// S5 shape: a(b|c)*d
	d := buildDFA(t, []string{"a(b|c)*d"}, []string{"act"})
	matched, _ := run(d, "abcbcd")
	assert.True(t, matched)
	matched, _ = run(d, "ad")
	assert.True(t, matched)
}

func TestBuildPartialMatchStopsCleanly(t *testing.T) {
	// S3: no valid transition for the next byte simply halts exploration.
	d := buildDFA(t, []string{"ab"}, []string{"act"})
	matched, _ := run(d, "ac")
	assert.False(t, matched)
}

func TestBuildEmptyInputHasNoMatchWhenNoRuleAcceptsEmpty(t *testing.T) {
	d := buildDFA(t, []string{"a+"}, []string{"act"})
	matched, _ := run(d, "")
	assert.False(t, matched)
}

func TestBuildRulePriorityOnTie(t *testing.T) {
	d := buildDFA(t, []string{"if", "[a-z]+"}, []string{"KEYWORD", "IDENT"})
	_, idx := run(d, "if")
	assert.Equal(t, 0, idx)
}
