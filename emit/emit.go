// Package emit turns a minimized DFA and a token list into the Go
// source text of a standalone scanner. The shape mirrors the reference
// emitter's five fixed text blocks plus per-state/per-accept-state
// generated fragments (`LexerFactory::generateCode`/`fromState`), but
// targets Go instead of C++ and actually tracks the last accepting
// state and stream offset — the reference's `fromState` never assigns
// its `lastEndState` variable, one of the dangling paths spec.md's
// design notes call out as something not to reproduce.
package emit

import (
	"bytes"
	"sort"
	"text/template"

	"github.com/chlamydomonos/chlexgen/chlexerr"
	"github.com/chlamydomonos/chlexgen/dfa"
	"github.com/chlamydomonos/chlexgen/token"
)

type tokenConst struct {
	Name string
	Code int
}

type edgeCase struct {
	Byte   byte
	Target int
}

type stateCase struct {
	ID    int
	Edges []edgeCase
}

type acceptCase struct {
	ID     int
	Action string
}

type templateData struct {
	Package     string
	Tokens      []tokenConst
	Start       int
	States      []stateCase
	AcceptIDs   []int
	AcceptCases []acceptCase
}

// scannerTmpl is the Go source template for the emitted scanner. It is
// rendered once per Generate call with a fully-populated templateData;
// every field is computed ahead of time so the template itself contains
// only iteration plus two small conditionals (skipping an empty accept
// case list and placing commas between accept ids).
var scannerTmpl = template.Must(template.New("scanner").Parse(`// Code generated by chlexgen. DO NOT EDIT.

package {{.Package}}

import (
	"io"
	"os"
	"strconv"
)

{{range .Tokens}}const {{.Name}} = {{.Code}}
{{end}}
func lex(in io.ReadSeeker) int {
	state := {{.Start}}
	lastAccept := -1
	lastAcceptOffset := 0
	offset := 0
	buf := make([]byte, 1)

	for {
		switch state {
		{{if .AcceptIDs}}case {{range $i, $id := .AcceptIDs}}{{if $i}}, {{end}}{{$id}}{{end}}:
			lastAccept = state
			lastAcceptOffset = offset
		{{end}}}

		n, err := in.Read(buf)
		if n == 0 || err != nil {
			goto end
		}
		offset++

		switch state {
		{{range .States}}case {{.ID}}:
			switch buf[0] {
			{{range .Edges}}case {{.Byte}}:
				state = {{.Target}}
			{{end}}default:
				goto end
			}
		{{end}}default:
			goto end
		}
	}

end:
	if offset > lastAcceptOffset {
		if _, err := in.Seek(-int64(offset-lastAcceptOffset), io.SeekCurrent); err != nil {
			return -1
		}
	}

	switch lastAccept {
	{{range .AcceptCases}}case {{.ID}}:
		{{.Action}}
	{{end}}default:
		return -1
	}
}

func main() {
	if len(os.Args) != 3 {
		os.Stderr.WriteString("Usage: " + os.Args[0] + " <input file> <output file>\n")
		os.Exit(1)
	}

	in, err := os.Open(os.Args[1])
	if err != nil {
		os.Exit(1)
	}
	defer in.Close()

	out, err := os.Create(os.Args[2])
	if err != nil {
		os.Exit(1)
	}
	defer out.Close()

	for {
		tok := lex(in)
		if tok == -1 {
			break
		}
		if _, err := out.WriteString(strconv.Itoa(tok) + " "); err != nil {
			os.Exit(1)
		}
	}
	out.WriteString("\n")
}
`))

// Generate renders the standalone scanner source for spec's token list
// and d, the minimized DFA. The generated package name is pkg (callers
// typically pass "main" for a directly runnable scanner).
//
// Every DFA state id gets a case in the per-byte transition switch —
// "exhaustive" per spec.md §4.6 — and every accepting state gets a case
// in the dispatch switch that runs its rule's action, so every rule's
// action text is reachable from the generated source. Both switches
// iterate ids and byte labels in ascending order so two calls on the
// same inputs render byte-identical source.
func Generate(spec *token.Spec, d *dfa.DFA, pkg string) (string, error) {
	if pkg == "" {
		pkg = "main"
	}

	data := templateData{
		Package: pkg,
		Start:   d.Start,
	}

	for i, name := range spec.Tokens {
		data.Tokens = append(data.Tokens, tokenConst{Name: name, Code: i})
	}

	stateIDs := make([]int, 0, len(d.States))
	for id := range d.States {
		stateIDs = append(stateIDs, id)
	}
	sort.Ints(stateIDs)

	for _, id := range stateIDs {
		st := d.States[id]
		labels := make([]byte, 0, len(st.Trans))
		for b := range st.Trans {
			labels = append(labels, b)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

		sc := stateCase{ID: id}
		for _, b := range labels {
			sc.Edges = append(sc.Edges, edgeCase{Byte: b, Target: st.Trans[b]})
		}
		data.States = append(data.States, sc)
	}

	acceptIDs := make([]int, 0, len(d.Accept))
	for id := range d.Accept {
		acceptIDs = append(acceptIDs, id)
	}
	sort.Ints(acceptIDs)
	data.AcceptIDs = acceptIDs

	for _, id := range acceptIDs {
		tag := d.Accept[id]
		if tag.RuleIndex < 0 || tag.RuleIndex >= len(spec.Rules) {
			return "", &chlexerr.InternalError{Message: "accepting state tagged with out-of-range rule index"}
		}
		data.AcceptCases = append(data.AcceptCases, acceptCase{ID: id, Action: tag.Action})
	}

	var buf bytes.Buffer
	if err := scannerTmpl.Execute(&buf, data); err != nil {
		return "", &chlexerr.InternalError{Message: "template execution: " + err.Error()}
	}
	return buf.String(), nil
}
