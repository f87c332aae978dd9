// Package pipeline sequences the five independent stage packages —
// reader, rx, nfa, dfa, emit — in the fixed order spec.md §2 requires:
// reader -> regex parser -> NFA builder -> DFA builder -> minimizer ->
// emitter. It is the only package that knows that order; each stage
// package remains usable on its own.
package pipeline

import (
	"io"
	"os"

	"github.com/chlamydomonos/chlexgen/chlexerr"
	"github.com/chlamydomonos/chlexgen/dfa"
	"github.com/chlamydomonos/chlexgen/emit"
	"github.com/chlamydomonos/chlexgen/nfa"
	"github.com/chlamydomonos/chlexgen/reader"
	"github.com/chlamydomonos/chlexgen/rx"
	"github.com/chlamydomonos/chlexgen/token"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const logSubsys = "chlexgen"

// Result carries every intermediate representation Compile produces,
// not just the final scanner source: the CLI's --nfa-dot/--dfa-dot
// flags render the NFA and minimized DFA straight out of a Result.
type Result struct {
	Spec         *token.Spec
	NFA          *nfa.NFA
	DFA          *dfa.DFA
	MinimizedDFA *dfa.DFA
	Source       string
}

// Compile runs the full pipeline over r, a spec file's contents,
// logging one entry per stage at debug level through log (a nil log
// disables logging). pkg names the emitted scanner's package ("main"
// if empty). The first stage error aborts compilation immediately;
// no partial Result is returned, matching spec.md §7's "no partial
// output" rule.
func Compile(r io.Reader, pkg string, log *logrus.Logger) (*Result, error) {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	entry := log.WithField("subsys", logSubsys)

	entry.Debug("reading spec")
	spec, err := reader.Read(r)
	if err != nil {
		return nil, errors.WithMessage(err, "reader")
	}
	entry.WithField("tokens", len(spec.Tokens)).WithField("rules", len(spec.Rules)).Debug("spec read")

	asts := make([]*rx.Node, len(spec.Rules))
	actions := make([]string, len(spec.Rules))
	for i, rule := range spec.Rules {
		entry.WithField("rule", i).Debug("parsing pattern")
		ast, err := rx.Parse(rule.Pattern)
		if err != nil {
			return nil, errors.WithMessagef(err, "regex parser: rule %d", i)
		}
		asts[i] = ast
		actions[i] = rule.Action
	}

	entry.Debug("building NFA")
	n, err := nfa.Build(asts, actions)
	if err != nil {
		return nil, errors.WithMessage(err, "NFA builder")
	}
	entry.WithField("states", len(n.States)).Debug("NFA built")

	entry.Debug("building DFA")
	d := dfa.Build(n)
	entry.WithField("states", len(d.States)).Debug("DFA built")

	entry.Debug("minimizing DFA")
	min := dfa.Minimize(d)
	entry.WithField("states", len(min.States)).Debug("DFA minimized")

	entry.Debug("emitting scanner source")
	src, err := emit.Generate(spec, min, pkg)
	if err != nil {
		return nil, errors.WithMessage(err, "code emitter")
	}
	entry.Debug("compilation complete")

	return &Result{
		Spec:         spec,
		NFA:          n,
		DFA:          d,
		MinimizedDFA: min,
		Source:       src,
	}, nil
}

// CompileFile opens path, closes it on every exit path, and runs
// Compile over its contents.
func CompileFile(path, pkg string, log *logrus.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &chlexerr.SpecReadError{Line: -1, Cause: chlexerr.CannotOpenFile}
	}
	defer f.Close()
	return Compile(f, pkg, log)
}
