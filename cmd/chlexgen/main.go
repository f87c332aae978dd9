// Command chlexgen is the generator CLI described at spec.md §6: it
// takes a spec file path and emits the compiled scanner's Go source,
// exiting 0 on success and non-zero with a stage-qualified message on
// failure.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("chlexgen: command failed")
		os.Exit(1)
	}
}
