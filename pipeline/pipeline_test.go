package pipeline_test

import (
	"strings"
	"testing"

	"github.com/chlamydomonos/chlexgen/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// s1Source is scenario S1 from spec.md §8: tokens A B, rules "a"/"b".
const s1Source = "A B\n\"a\" {return A}\n\"b\" {return B}\n"

// s2Source is scenario S2: tokens KW ID, "if" vs "[a-z]+", maximal munch.
const s2Source = "KW ID\n\"if\" {return KW}\n\"[a-z]+\" {return ID}\n"

// s4Source is scenario S4: a single NUM rule over \d+.
const s4Source = "NUM\n\"\\d+\" {return NUM}\n"

// s5Source is scenario S5: a(b|c)*d.
const s5Source = "T\n\"a(b|c)*d\" {return T}\n"

func TestCompileProducesRunnableScannerSourceForS1(t *testing.T) {
	res, err := pipeline.Compile(strings.NewReader(s1Source), "main", nil)
	require.NoError(t, err)
	assert.Contains(t, res.Source, "const A = 0")
	assert.Contains(t, res.Source, "const B = 1")
	assert.Contains(t, res.Source, "return A")
	assert.Contains(t, res.Source, "return B")
	assert.Equal(t, 2, len(res.Spec.Tokens))
}

func TestCompileKeepsMaximalMunchPriorityForS2(t *testing.T) {
	res, err := pipeline.Compile(strings.NewReader(s2Source), "main", nil)
	require.NoError(t, err)
	// "iffy" must end on the ID rule's accepting state, never KW's,
	// since "[a-z]+" matches the whole word and KW only matches "if".
	state := res.MinimizedDFA.Start
	for _, c := range []byte("iffy") {
		target, ok := res.MinimizedDFA.States[state].Trans[c]
		require.True(t, ok, "no transition for byte %q from state %d", c, state)
		state = target
	}
	tag, ok := res.MinimizedDFA.Accept[state]
	require.True(t, ok)
	assert.Equal(t, 1, tag.RuleIndex)
}

func TestCompileEmptyInputHasNoAcceptingStartForS4(t *testing.T) {
	res, err := pipeline.Compile(strings.NewReader(s4Source), "main", nil)
	require.NoError(t, err)
	_, accepting := res.MinimizedDFA.Accept[res.MinimizedDFA.Start]
	assert.False(t, accepting)
}

func TestCompileStarOrCombinationMatchesForS5(t *testing.T) {
	res, err := pipeline.Compile(strings.NewReader(s5Source), "main", nil)
	require.NoError(t, err)

	accepts := func(s string) bool {
		state := res.MinimizedDFA.Start
		for _, c := range []byte(s) {
			target, ok := res.MinimizedDFA.States[state].Trans[c]
			if !ok {
				return false
			}
			state = target
		}
		_, ok := res.MinimizedDFA.Accept[state]
		return ok
	}

	assert.True(t, accepts("abbcd"))
	assert.True(t, accepts("ad"))
	assert.False(t, accepts("abce"))
}

func TestCompileRejectsAlphabetViolationForS6(t *testing.T) {
	src := "T\n\"\\xFF\" {return T}\n"
	_, err := pipeline.Compile(strings.NewReader(src), "main", nil)
	assert.Error(t, err)
}

func TestCompileIsDeterministicAcrossRuns(t *testing.T) {
	res1, err := pipeline.Compile(strings.NewReader(s5Source), "main", nil)
	require.NoError(t, err)
	res2, err := pipeline.Compile(strings.NewReader(s5Source), "main", nil)
	require.NoError(t, err)
	assert.Equal(t, res1.Source, res2.Source)
}

func TestCompileAbortsOnFirstStageErrorWithoutPartialResult(t *testing.T) {
	src := "NUM\n\"(\" {return NUM}\n"
	res, err := pipeline.Compile(strings.NewReader(src), "main", nil)
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestCompileFileRejectsMissingFile(t *testing.T) {
	_, err := pipeline.CompileFile("/nonexistent/path/to/spec.chlex", "main", nil)
	assert.Error(t, err)
}
