package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zeusync/scenegraph/internal/config"
	"github.com/zeusync/scenegraph/internal/injector"
)

var version = "dev"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	out     io.Writer
	tk      *injector.Toolkit
	cleanup func()
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out}

	root := &cobra.Command{
		Use:           "scenectl",
		Short:         "Inspect and convert scene graph files",
		Long:          `scenectl reads scene and entity envelopes in JSON or YAML, converts between formats and checks that files survive a decode/encode round trip unchanged.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.cleanup != nil {
				a.cleanup()
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML)")
	flags.String("log-level", "", "log level: debug, info, warn, error, silent")
	flags.String("unknown-types", "", "unknown record types: fail or skip")
	flags.Bool("trace", false, "print OpenTelemetry spans to stderr")

	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("codec.unknown_types", flags.Lookup("unknown-types"))
	_ = a.v.BindPFlag("tracing.enabled", flags.Lookup("trace"))

	root.AddCommand(
		a.convertCmd(),
		a.inspectCmd(),
		a.verifyCmd(),
		a.typesCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	tk, cleanup, err := injector.InitializeToolkit(cfg)
	if err != nil {
		return err
	}
	a.tk = tk
	a.cleanup = cleanup
	return nil
}
