// Package token holds the spec reader's output: the declared token list
// and the rule list parsed from a spec file. Nothing in this package
// interprets regex syntax or action text; both are opaque strings here.
package token

// Rule pairs a regex pattern with the action text to inline on match.
// Declaration order in Spec.Rules is the rule's priority: index i beats
// index j for any input both match at equal length whenever i < j.
type Rule struct {
	Pattern string
	Action  string
}

// Spec is the parsed shape of a spec file: token names in declaration
// order (the i-th name is assigned code i) and the rule list.
type Spec struct {
	Tokens []string
	Rules  []Rule
}

// Code returns the integer code assigned to name, or -1 if name was not
// declared on the spec's first line.
func (s *Spec) Code(name string) int {
	for i, t := range s.Tokens {
		if t == name {
			return i
		}
	}
	return -1
}
