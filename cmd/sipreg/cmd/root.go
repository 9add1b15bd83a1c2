// Package cmd implements the sipreg command line.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/sipreg/config"
	"github.com/ghettovoice/sipreg/log"
)

// state is shared by the subcommands and filled in PersistentPreRunE.
type state struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
	log *slog.Logger
}

// NewRootCommand builds the sipreg command tree.
func NewRootCommand() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:   "sipreg",
		Short: "SIP registration diagnostics",
		Long: `sipreg checks that a SIP server is reachable before registering an account:
it resolves the server domain, opens a TCP connection to the SIP port and traces
the network path when the connection fails.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return errtrace.Wrap(st.load(cmd))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&st.cfgFile, "config", "", "config file (default is "+config.DefaultPath()+")")
	pf.StringVar(&st.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&st.logFormat, "log-format", "", "log format: console, dev, text, json")

	root.AddCommand(
		newDiagnoseCommand(st),
		newTransportCommand(st),
		newVersionCommand(),
	)
	return root
}

func (st *state) load(cmd *cobra.Command) error {
	path := st.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("failed to load config: %w", err))
	}

	if st.logLevel != "" {
		cfg.Log.Level = st.logLevel
	}
	if st.logFormat != "" {
		cfg.Log.Format = st.logFormat
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return errtrace.Wrap(err)
	}

	st.cfg = cfg
	st.log = logger
	log.SetDefault(logger)
	return nil
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
