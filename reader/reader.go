// Package reader implements the spec reader stage: it turns a spec
// file's byte stream into a token.Spec. It does not interpret regex
// syntax or action text — it only locates the four delimiters
// `"pattern"` and `{action}` on each line.
package reader

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/chlamydomonos/chlexgen/chlexerr"
	"github.com/chlamydomonos/chlexgen/token"
	"github.com/pkg/errors"
)

// Read parses a spec file's contents from r.
//
// Line 1 is space-separated token identifiers. Every subsequent
// non-empty line has the form `"pattern" {action}`: the pattern runs
// from the first `"` to the next unescaped `"` (inside it, `\` escapes
// the following byte — the reader does not care which escapes are
// legal, only where the quote ends); the action runs from the first
// `{` after the pattern's closing quote to the last `}` on the line.
// Trailing empty lines are ignored.
func Read(r io.Reader) (*token.Spec, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return &token.Spec{}, nil
	}
	spec := &token.Spec{Tokens: splitTokens(scanner.Text())}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rule, err := parseRuleLine(line, lineNum)
		if err != nil {
			return nil, err
		}
		spec.Rules = append(spec.Rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reader: scan")
	}
	return spec, nil
}

// ReadFile opens path and parses it as a spec file, closing the file on
// every exit path.
func ReadFile(path string) (*token.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &chlexerr.SpecReadError{Line: -1, Cause: chlexerr.CannotOpenFile}
	}
	defer f.Close()
	return Read(f)
}

func splitTokens(line string) []string {
	fields := strings.Split(line, " ")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseRuleLine locates the pattern and action delimiters on a single
// line, byte-for-byte following the same left-to-right / right-to-left
// scan the reference reader uses: the pattern's closing quote is the
// first unescaped `"` after its opening quote, the action's opening
// brace is the first `{` after that, and the action's closing brace is
// the *last* `}` anywhere on the line (so nested braces in the action
// text are preserved verbatim).
func parseRuleLine(line string, lineNum int) (token.Rule, error) {
	patternLeft, patternRight, codeLeft := -1, -1, -1
	afterSlash := false

	for i := 0; i < len(line); i++ {
		c := line[i]

		if patternLeft == -1 && c == '"' {
			patternLeft = i
			continue
		}

		if patternLeft != -1 && patternRight == -1 && c == '\\' && !afterSlash {
			afterSlash = true
			continue
		}

		if afterSlash {
			afterSlash = false
			continue
		}

		if patternLeft != -1 && patternRight == -1 && c == '"' {
			patternRight = i
			continue
		}

		if patternRight != -1 && c == '{' {
			codeLeft = i
			break
		}
	}

	codeRight := -1
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == '}' {
			codeRight = i
			break
		}
	}

	if patternLeft == -1 || patternRight == -1 || codeLeft == -1 || codeRight == -1 {
		return token.Rule{}, &chlexerr.SpecReadError{Line: lineNum, Cause: chlexerr.InvalidLine}
	}
	if codeLeft >= codeRight {
		return token.Rule{}, &chlexerr.SpecReadError{Line: lineNum, Cause: chlexerr.InvalidLine}
	}

	return token.Rule{
		Pattern: line[patternLeft+1 : patternRight],
		Action:  line[codeLeft+1 : codeRight],
	}, nil
}
