package main

import (
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/chlamydomonos/chlexgen/dot"
	"github.com/chlamydomonos/chlexgen/pipeline"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyOutput  = "output"
	keyPackage = "package"
	keyNFADot  = "nfa-dot"
	keyDFADot  = "dfa-dot"
	keyRun     = "run"
)

// newCompileCmd builds the "compile" subcommand. Exit codes follow
// spec.md §6: 0 on success, non-zero on any stage error, printed via
// logrus at error level as "<stage>: <message>".
func newCompileCmd(vp *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <spec-file>",
		Short: "compile a spec file into a standalone scanner",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCompile(vp, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringP(keyOutput, "o", "", "output file for the generated scanner (default stdout)")
	flags.StringP(keyPackage, "p", "main", "package name declared by the generated scanner")
	flags.String(keyNFADot, "", "emit a Graphviz DOT rendering of the unioned NFA to this file")
	flags.String(keyDFADot, "", "emit a Graphviz DOT rendering of the minimized DFA to this file")
	flags.BoolP(keyRun, "r", false, "after emission, go build and run the generated scanner")
	if err := vp.BindPFlags(flags); err != nil {
		logrus.WithError(err).Fatal("failed to bind compile flags")
	}
	return cmd
}

func runCompile(vp *viper.Viper, specPath string) error {
	log := logrus.New()
	if vp.GetBool("debug") {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	pkg := vp.GetString(keyPackage)
	result, err := pipeline.CompileFile(specPath, pkg, log)
	if err != nil {
		log.WithError(err).Error("compilation failed")
		return errors.WithMessage(err, "compile")
	}

	if path := vp.GetString(keyNFADot); path != "" {
		if err := writeFile(path, dot.NFA(result.NFA)); err != nil {
			return errors.WithMessage(err, "nfa-dot")
		}
	}
	if path := vp.GetString(keyDFADot); path != "" {
		if err := writeFile(path, dot.DFA(result.MinimizedDFA)); err != nil {
			return errors.WithMessage(err, "dfa-dot")
		}
	}

	outPath := vp.GetString(keyOutput)
	run := vp.GetBool(keyRun)

	if run {
		return autorun(result.Source)
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrap(err, "compile: create output file")
		}
		defer f.Close()
		out = f
	}
	if _, err := io.WriteString(out, result.Source); err != nil {
		return errors.Wrap(err, "compile: write output")
	}
	return nil
}

func writeFile(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	_, err = io.WriteString(f, content)
	return err
}

// autorun ports main.go's -r path: write the emitted source to a temp
// dir and `go run` it against the current process's stdin/stdout, with
// the temp dir removed on every exit path.
func autorun(source string) error {
	tmpdir, err := ioutil.TempDir("", "chlexgen")
	if err != nil {
		return errors.Wrap(err, "compile: create temp dir")
	}
	defer os.RemoveAll(tmpdir)

	outPath := filepath.Join(tmpdir, "scanner.go")
	if err := writeFile(outPath, source); err != nil {
		return errors.WithMessage(err, "compile: write generated scanner")
	}

	c := exec.Command("go", "run", outPath)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return errors.Wrap(err, "compile: go run")
	}
	return nil
}
