package cmd

import (
	"fmt"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/sipreg/transport"
)

func newTransportCommand(st *state) *cobra.Command {
	c := &cobra.Command{
		Use:   "transport",
		Short: "Inspect SIP transport settings",
	}
	c.AddCommand(
		newTransportFormatCommand(),
		newTransportAlternativesCommand(),
		newTransportConfigCommand(st),
	)
	return c
}

func newTransportFormatCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "format <sip-uri> <protocol>",
		Short:   "Annotate a SIP URI with the transport parameter",
		Example: "  sipreg transport format sip:alice@example.com tcp",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), transport.FormatURI(args[0], transport.Proto(args[1])))
			return nil
		},
	}
}

func newTransportAlternativesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "alternatives <failed-protocol>",
		Short: "List transports to try after the given one failed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range transport.SuggestAlternatives(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newTransportConfigCommand(st *state) *cobra.Command {
	var (
		proto string
		port  int
	)

	c := &cobra.Command{
		Use:   "config",
		Short: "Print the effective transport configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := st.cfg.Transport
			if cmd.Flags().Changed("protocol") {
				p, err := transport.ParseProto(proto)
				if err != nil {
					return errtrace.Wrap(err)
				}
				overrides.Proto = &p
			}
			if cmd.Flags().Changed("port") {
				overrides.Port = &port
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(transport.NewConfig(&overrides)); err != nil {
				return errtrace.Wrap(err)
			}
			return errtrace.Wrap(enc.Close())
		},
	}

	f := c.Flags()
	f.StringVar(&proto, "protocol", "", "transport protocol: udp, tcp, tls")
	f.IntVar(&port, "port", 0, "local port, 0 means the protocol default")
	return c
}
