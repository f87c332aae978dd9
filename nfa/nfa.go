// Package nfa builds the ε-NFA for a set of rules via Thompson's
// construction, then unions the per-rule NFAs under a fresh start
// state. States are referenced by densely allocated ids stored in a
// flat map, not by pointer, so the underlying graph's cycles (Star's
// back-edge, for instance) never become ownership cycles.
package nfa

import (
	"github.com/chlamydomonos/chlexgen/chlexerr"
	"github.com/chlamydomonos/chlexgen/rx"
)

// Edge is a labeled transition to another state. Label 0 denotes an
// epsilon transition; labels 1..127 are literal bytes. Label 0 is never
// used for a literal — that invariant is enforced by the regex parser,
// which rejects byte 0 before an NFA ever sees it.
type Edge struct {
	To    uint32
	Label int
}

// State is one NFA state, found by id in NFA.States.
type State struct {
	ID    uint32
	Edges []Edge
}

// Tag marks an accepting state with the rule it accepts and the action
// to run on match.
type Tag struct {
	RuleIndex int
	Action    string
}

// NFA is a flat-map directed multigraph with a distinguished start
// state and a possibly-multiple set of accepting states, one per rule
// that participated in the union.
type NFA struct {
	States map[uint32]*State
	Start  uint32
	Accept map[uint32]Tag
}

// IDAllocator hands out densely allocated, monotonically increasing
// ids. One allocator is shared across an entire spec's worth of rules
// so the final unioned NFA has globally unique ids.
type IDAllocator struct {
	next uint32
}

// Next returns the next unused id.
func (a *IDAllocator) Next() uint32 {
	id := a.next
	a.next++
	return id
}

type builder struct {
	states map[uint32]*State
	alloc  *IDAllocator
}

func (b *builder) newState() uint32 {
	id := b.alloc.Next()
	b.states[id] = &State{ID: id}
	return id
}

func (b *builder) connect(from, to uint32, label int) {
	b.states[from].Edges = append(b.states[from].Edges, Edge{To: to, Label: label})
}

// frag is an in-progress fragment with exactly one accepting state,
// per Thompson's construction's invariant for each AST sub-node.
type frag struct {
	start, end uint32
}

func (b *builder) fromChar(c byte) frag {
	s, e := b.newState(), b.newState()
	b.connect(s, e, int(c))
	return frag{s, e}
}

func (b *builder) fromOr(l, r frag) frag {
	s, e := b.newState(), b.newState()
	b.connect(s, l.start, 0)
	b.connect(s, r.start, 0)
	b.connect(l.end, e, 0)
	b.connect(r.end, e, 0)
	return frag{s, e}
}

func (b *builder) fromConcat(l, r frag) frag {
	b.connect(l.end, r.start, 0)
	return frag{l.start, r.end}
}

func (b *builder) fromStar(c frag) frag {
	s, e := b.newState(), b.newState()
	b.connect(s, c.start, 0)
	b.connect(c.end, e, 0)
	b.connect(s, e, 0)
	b.connect(c.end, c.start, 0)
	return frag{s, e}
}

func (b *builder) fromPlus(c frag) frag {
	s, e := b.newState(), b.newState()
	b.connect(s, c.start, 0)
	b.connect(c.end, e, 0)
	b.connect(c.end, c.start, 0)
	return frag{s, e}
}

func (b *builder) fromQuestion(c frag) frag {
	s, e := b.newState(), b.newState()
	b.connect(s, c.start, 0)
	b.connect(c.end, e, 0)
	b.connect(s, e, 0)
	return frag{s, e}
}

func (b *builder) generate(n *rx.Node) (frag, error) {
	switch n.Kind {
	case rx.Char:
		return b.fromChar(n.Value), nil
	case rx.Or:
		l, err := b.generate(n.Left)
		if err != nil {
			return frag{}, err
		}
		r, err := b.generate(n.Right)
		if err != nil {
			return frag{}, err
		}
		return b.fromOr(l, r), nil
	case rx.Concat:
		l, err := b.generate(n.Left)
		if err != nil {
			return frag{}, err
		}
		r, err := b.generate(n.Right)
		if err != nil {
			return frag{}, err
		}
		return b.fromConcat(l, r), nil
	case rx.Star:
		c, err := b.generate(n.Child)
		if err != nil {
			return frag{}, err
		}
		return b.fromStar(c), nil
	case rx.Plus:
		c, err := b.generate(n.Child)
		if err != nil {
			return frag{}, err
		}
		return b.fromPlus(c), nil
	case rx.Question:
		c, err := b.generate(n.Child)
		if err != nil {
			return frag{}, err
		}
		return b.fromQuestion(c), nil
	default:
		return frag{}, &chlexerr.InternalError{Message: "unknown regex AST node kind"}
	}
}

// Build constructs the unioned ε-NFA for a list of rules given in
// declaration (priority) order: asts[i] and actions[i] belong to rule
// i, and rule i beats rule j > i on an equal-length match.
func Build(asts []*rx.Node, actions []string) (*NFA, error) {
	alloc := &IDAllocator{}
	b := &builder{states: map[uint32]*State{}, alloc: alloc}
	accept := map[uint32]Tag{}

	starts := make([]uint32, len(asts))
	for i, ast := range asts {
		f, err := b.generate(ast)
		if err != nil {
			return nil, err
		}
		accept[f.end] = Tag{RuleIndex: i, Action: actions[i]}
		starts[i] = f.start
	}

	start := b.newState()
	for _, s := range starts {
		b.connect(start, s, 0)
	}

	return &NFA{States: b.states, Start: start, Accept: accept}, nil
}
