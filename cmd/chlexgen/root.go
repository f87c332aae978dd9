package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CHLEXGEN"

func newViper() *viper.Viper {
	vp := viper.New()
	vp.SetEnvPrefix(envPrefix)
	vp.SetConfigName("chlexgen")
	vp.SetConfigType("yaml")
	vp.AddConfigPath(".")
	vp.AutomaticEnv()
	return vp
}

// newRootCmd builds the chlexgen root command. It carries no behavior
// of its own beyond wiring the shared viper instance into every
// subcommand's flags, mirroring hubble-relay's cmd.New/newViper split.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "chlexgen",
		Short:        "chlexgen compiles a lexer spec into a standalone Go scanner",
		Long:         "chlexgen reads a token/rule spec file and emits the Go source of a table-driven, maximal-munch scanner built from a minimized DFA.",
		SilenceUsage: true,
	}

	vp := newViper()
	flags := rootCmd.PersistentFlags()
	flags.BoolP("debug", "d", false, "verbose stage-by-stage logging")
	if err := vp.BindPFlags(flags); err != nil {
		logrus.WithError(err).Fatal("failed to bind flags")
	}

	if err := vp.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			logrus.WithError(err).Debug("failed to read chlexgen.yaml")
		}
	}

	rootCmd.AddCommand(newCompileCmd(vp))
	return rootCmd
}
